package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

var resolveNpub string

func init() {
	resolveCmd.Flags().StringVar(&resolveNpub, "npub", "", "resolve by public key instead of --key")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Fetch every recorded ballot from the remote data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := readIdentity(resolveNpub)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		lists, err := a.Ballots.ListMyBallots(cmd.Context(), id)
		if err != nil {
			var fetchErr *domain.BallotFetchError
			if errors.As(err, &fetchErr) {
				return fmt.Errorf("ballot %s could not be fetched: %w", fetchErr.BallotID, fetchErr.Err)
			}
			return err
		}

		now := time.Now()
		rows := make([][]string, 0, len(lists))
		for _, l := range lists {
			s := domain.NewBallotSummary(l, now)
			rows = append(rows, []string{s.BallotID, s.CastOn, s.CastAgo, strconv.FormatBool(s.Hashed)})
		}
		renderTable(cmd.OutOrStdout(), []string{"BALLOT", "CAST ON", "CAST", "HASHED"}, rows)
		return nil
	},
}
