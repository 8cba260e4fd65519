package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/keywrap/pkg/keyring"
)

func newKeyringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage the KEK registry",
		Long: `The keyring is a JSON file mapping key ids to KEK file paths, so wrap
and unwrap can take --key-id instead of a path. KEK files must be owned
by the caller with 0600 permissions.`,
	}

	rotate := &cobra.Command{
		Use:   "rotate <key-id> <kek-file>",
		Short: "Register a KEK file under an id, or repoint an existing id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keyring.Rotate(keyringPath(), args[0], args[1]); err != nil {
				return err
			}
			log.Infow("keyring updated", "key_id", args[0], "path", args[1])
			return nil
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Mark a KEK id as unusable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keyring.Revoke(keyringPath(), args[0]); err != nil {
				return err
			}
			log.Infow("key revoked", "key_id", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show registered KEK ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := keyring.List(keyringPath())
			if err != nil {
				return err
			}
			for _, e := range entries {
				state := "active"
				if e.Revoked {
					state = "revoked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					e.KeyID, state, e.Created.Format("2006-01-02"), e.Path)
			}
			return nil
		},
	}

	cmd.AddCommand(rotate, revoke, list)
	return cmd
}
