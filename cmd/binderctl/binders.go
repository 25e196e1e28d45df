package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listNpub string

func init() {
	listCmd.Flags().StringVar(&listNpub, "npub", "", "list by public key instead of --key")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <ballot-id>...",
	Short: "Record ballot ids for the identity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := identity()
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		storage, err := a.Binders.For(pair.Identity)
		if err != nil {
			return err
		}
		for _, id := range args {
			if err := storage.Add(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to add %s: %w", id, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %d ballot(s)\n", len(args))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the ballot ids recorded locally for the identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := readIdentity(listNpub)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		storage, err := a.Binders.For(id)
		if err != nil {
			return err
		}
		binders, err := storage.All(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(binders))
		for _, b := range binders {
			rows = append(rows, []string{b.BallotID, humanize.Time(b.DateCreated)})
		}
		renderTable(cmd.OutOrStdout(), []string{"BALLOT", "RECORDED"}, rows)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every ballot recorded for the identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := identity()
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		storage, err := a.Binders.For(pair.Identity)
		if err != nil {
			return err
		}
		if err := storage.RemoveAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleared")
		return nil
	},
}
