package main

import (
	"fmt"

	"github.com/Veraticus/microscan/internal/cli"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/spf13/cobra"
)

func alternativesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alternatives <product name>",
		Short: "Suggest lower-risk alternatives",
		Long: `List up to five stored products in the same category with a strictly
lower risk tier. When none are stored the scraper is asked instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			riskFlag, _ := cmd.Flags().GetString("risk")
			current, err := model.ParseRiskTier(riskFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			eng, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			alts, err := eng.FindAlternatives(ctx, args[0], current)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(alts) == 0 {
				_, err = fmt.Fprintln(out, cli.FormatInfo("No safer alternatives found"))
				return err
			}
			_, err = fmt.Fprintln(out, cli.RenderRecords(alts))
			return err
		},
	}

	cmd.Flags().String("risk", "high", "current risk tier of the product (low, medium, high)")

	return cmd
}
