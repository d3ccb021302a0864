package main

import (
	"log/slog"

	"github.com/Veraticus/microscan/internal/api"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the product lookup, alternatives and saved product routes over HTTP.

User routes require a bearer token signed with auth.jwt_secret.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "listen address (overrides server.address)")
	_ = viper.BindPFlag("server.address", cmd.Flags().Lookup("address"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, cfg, cleanup, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.RouterConfig{
		Service:        eng,
		Identity:       api.NewJWTIdentity(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	slog.Info("Starting microscan API",
		"address", cfg.Server.Address,
		"database", cfg.Database.Path,
		"scraper", cfg.Scraper.Command)

	return api.NewServer(cfg.Server.Address, router).Run(ctx)
}
