package main

import (
	"fmt"

	"github.com/Veraticus/microscan/internal/cli"
	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage a user's saved products",
		Long: `Save snapshots of product classifications to a user's list, list them
and remove them. Snapshots do not change when a product is reclassified.`,
	}

	cmd.AddCommand(productsAddCmd())
	cmd.AddCommand(productsListCmd())
	cmd.AddCommand(productsRemoveCmd())

	return cmd
}

func productsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <user id> <product name>",
		Short: "Save a product to a user's list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entry, err := eng.AddUserProduct(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Saved %s (%s) as %s", entry.Name, cli.FormatRisk(entry.RiskTier), entry.ID)))
			return err
		},
	}
}

func productsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <user id>",
		Short: "List a user's saved products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := eng.ListUserProducts(ctx, args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderEntries(entries))
			return err
		},
	}
}

func productsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <user id> <entry id>",
		Short: "Remove a saved product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, _, cleanup, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.RemoveUserProduct(ctx, args[0], args[1]); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+args[1]))
			return err
		},
	}
}
