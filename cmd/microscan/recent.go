package main

import (
	"fmt"

	"github.com/Veraticus/microscan/internal/cli"
	"github.com/spf13/cobra"
)

func recentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently stored classifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if limit <= 0 {
				limit = cfg.Resolver.RecentLimit
			}
			records, err := store.RecentClassifications(ctx, limit)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRecords(records))
			return err
		},
	}

	cmd.Flags().IntP("limit", "n", 0, "number of classifications to show (default resolver.recent_limit)")

	return cmd
}
