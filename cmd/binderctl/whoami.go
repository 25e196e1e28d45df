package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/ballotbinder/internal/adapters/nostr"
)

func init() {
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(keygenCmd)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the identity derived from the private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := identity()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "identity: %s\nnpub:     %s\n", pair.Identity, pair.Npub)
		return nil
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new nsec private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		nsec, err := nostr.NewSecretKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), nsec)
		return nil
	},
}
