package main

import (
	"github.com/spf13/cobra"

	"example.com/keywrap/pkg/crypto/keywrap"
)

func newUnwrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unwrap [file]",
		Short: "Unwrap key material wrapped under a KEK",
		Long: `Reads a wrapped value from a file (or stdin), verifies its integrity
and writes the recovered key material. Fails without output when the
value was corrupted or the KEK does not match.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kekFile, _ := cmd.Flags().GetString("kek")
			keyID, _ := cmd.Flags().GetString("key-id")
			pad, _ := cmd.Flags().GetBool("pad")
			encoding, _ := cmd.Flags().GetString("encoding")
			outPath, _ := cmd.Flags().GetString("out")

			kek, err := loadKEK(kekFile, keyID)
			if err != nil {
				return err
			}
			defer kek.Destroy()

			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			wrapped, err := decodeWrapped(in, encoding)
			if err != nil {
				return err
			}

			var plaintext []byte
			if pad {
				plaintext, err = keywrap.UnwrapWithPadding(kek.Bytes(), wrapped)
			} else {
				plaintext, err = keywrap.Unwrap(kek.Bytes(), wrapped)
			}
			if err != nil {
				return err
			}
			log.Debugw("unwrapped key material",
				"wrapped_bytes", len(wrapped),
				"plaintext_bytes", len(plaintext),
				"padded", pad)
			return writeOutput(cmd, outPath, plaintext)
		},
	}
	cmd.Flags().StringP("kek", "k", "", "KEK file (raw binary, 16/24/32 bytes)")
	cmd.Flags().String("key-id", "", "KEK id resolved through the keyring")
	cmd.Flags().Bool("pad", false, "use the RFC 5649 padded variant")
	cmd.Flags().String("encoding", "raw", "wrapped input encoding: raw|hex|base64")
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}
