package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/config"
	"github.com/Veraticus/microscan/internal/engine"
	"github.com/Veraticus/microscan/internal/scraper"
	"github.com/Veraticus/microscan/internal/storage"
	"github.com/spf13/viper"
)

func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the database and brings its schema up to date.
func initStorage(ctx context.Context, cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func createInvoker(cfg config.Config) (*scraper.CommandInvoker, error) {
	invoker, err := scraper.NewCommandInvoker(scraper.Config{
		Command:           cfg.Scraper.Command,
		Args:              cfg.Scraper.Args,
		Timeout:           cfg.Scraper.Timeout,
		RequestsPerMinute: cfg.Scraper.RequestsPerMinute,
	})
	if errors.Is(err, common.ErrInvalidConfig) {
		return nil, common.NewUserError(
			fmt.Sprintf("scraper command %q was not found; set scraper.command or MICROSCAN_SCRAPER_COMMAND", cfg.Scraper.Command),
			err,
		)
	}
	return invoker, err
}

// initEngine builds the engine from configuration. The returned cleanup
// releases the invoker and closes the database.
func initEngine(ctx context.Context) (*engine.Engine, config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, cfg, nil, err
	}

	invoker, err := createInvoker(cfg)
	if err != nil {
		_ = store.Close()
		return nil, cfg, nil, err
	}

	eng := engine.NewWithConfig(store, invoker, engine.Config{
		Coalesce:    cfg.Resolver.Coalesce,
		RecentLimit: cfg.Resolver.RecentLimit,
	})

	cleanup := func() {
		invoker.Close()
		_ = store.Close()
	}
	return eng, cfg, cleanup, nil
}

// readNames reads one product name per line, skipping blanks and # comments.
func readNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product names: %w", err)
	}
	return names, nil
}
