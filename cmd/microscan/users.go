package main

import (
	"fmt"

	"github.com/Veraticus/microscan/internal/cli"
	"github.com/Veraticus/microscan/internal/engine"
	"github.com/spf13/cobra"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
		Long:  `Register users and look them up. Tokens for these users are issued elsewhere.`,
	}

	cmd.AddCommand(usersCreateCmd())
	cmd.AddCommand(usersShowCmd())

	return cmd
}

func usersCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <username> <email>",
		Short: "Register a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			user, err := engine.NewDirectory(store).CreateUser(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created user %s (%s)", user.Username, user.ID)))
			return err
		},
	}
}

func usersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user id>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			user, err := engine.NewDirectory(store).GetUser(ctx, args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderUser(user))
			return err
		},
	}
}
