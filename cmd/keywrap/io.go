package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"example.com/keywrap/pkg/keyring"
	"example.com/keywrap/pkg/util/securemem"
)

// loadKEK resolves the KEK flags into a locked buffer the caller must
// Destroy.
func loadKEK(kekFile, keyID string) (*securemem.Secret, error) {
	switch {
	case kekFile != "" && keyID != "":
		return nil, errors.New("use either -k or --key-id, not both")
	case keyID != "":
		p, err := keyring.Resolve(keyringPath(), keyID)
		if err != nil {
			return nil, err
		}
		return securemem.FromFile(p)
	case kekFile != "":
		return securemem.FromFile(kekFile)
	}
	return nil, errors.New("missing KEK: pass -k or --key-id")
}

// readInput reads the positional file argument, or stdin when absent
// or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(cmd.InOrStdin())
}

func writeOutput(cmd *cobra.Command, path string, b []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(b)
	return err
}

// decodeWrapped interprets the encoding flag on the wrapped side of an
// operation.
func decodeWrapped(b []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "", "raw":
		return b, nil
	case "hex":
		return hex.DecodeString(strings.TrimSpace(string(b)))
	case "base64":
		return base64.StdEncoding.DecodeString(strings.TrimSpace(string(b)))
	}
	return nil, fmt.Errorf("unsupported encoding: %s", encoding)
}

func encodeWrapped(b []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "", "raw":
		return b, nil
	case "hex":
		return []byte(hex.EncodeToString(b) + "\n"), nil
	case "base64":
		return []byte(base64.StdEncoding.EncodeToString(b) + "\n"), nil
	}
	return nil, fmt.Errorf("unsupported encoding: %s", encoding)
}
