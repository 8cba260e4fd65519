package main

import (
	"github.com/spf13/cobra"

	"example.com/keywrap/pkg/crypto/keywrap"
)

func newWrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrap [file]",
		Short: "Wrap key material under a KEK",
		Long: `Reads key material from a file (or stdin) and writes the wrapped form.
Without --pad the input must be a multiple of 8 bytes and at least 16
bytes long; with --pad any length from 1 byte up is accepted.`,
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

			plaintext, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var wrapped []byte
			if pad {
				wrapped, err = keywrap.WrapWithPadding(kek.Bytes(), plaintext)
			} else {
				wrapped, err = keywrap.Wrap(kek.Bytes(), plaintext)
			}
			if err != nil {
				return err
			}
			log.Debugw("wrapped key material",
				"plaintext_bytes", len(plaintext),
				"wrapped_bytes", len(wrapped),
				"padded", pad)

			out, err := encodeWrapped(wrapped, encoding)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, out)
		},
	}
	cmd.Flags().StringP("kek", "k", "", "KEK file (raw binary, 16/24/32 bytes)")
	cmd.Flags().String("key-id", "", "KEK id resolved through the keyring")
	cmd.Flags().Bool("pad", false, "use the RFC 5649 padded variant")
	cmd.Flags().String("encoding", "raw", "wrapped output encoding: raw|hex|base64")
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}
