package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Classify a wrapped value without a key",
		Long: `Reports which wire form a wrapped value has: the 16-byte single-block
form the padded variant emits for short payloads, or the block form
shared by both variants. No KEK is needed; nothing is decrypted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoding, _ := cmd.Flags().GetString("encoding")
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			wrapped, err := decodeWrapped(in, encoding)
			if err != nil {
				return err
			}
			switch {
			case len(wrapped) == 16:
				fmt.Fprintln(cmd.OutOrStdout(),
					"single-block form: 16 bytes, padded variant, key material of 1-8 bytes")
			case len(wrapped)%8 == 0 && len(wrapped) >= 24:
				n := len(wrapped)/8 - 1
				fmt.Fprintf(cmd.OutOrStdout(),
					"block form: %d bytes, iv register plus %d data registers (%d key bytes before any padding)\n",
					len(wrapped), n, 8*n)
			default:
				return fmt.Errorf("not a wrapped value: %d bytes is no valid wire form", len(wrapped))
			}
			return nil
		},
	}
	cmd.Flags().String("encoding", "raw", "wrapped input encoding: raw|hex|base64")
	return cmd
}
