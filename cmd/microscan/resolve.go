package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/microscan/internal/cli"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/spf13/cobra"
)

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [product name]",
		Short: "Look up a product's microplastic risk",
		Long: `Resolve a product name to its stored classifications. Names with no
stored match are classified by the scraper and saved.

With --file, every line of the file is resolved in turn.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResolve,
	}

	cmd.Flags().StringP("file", "f", "", "file with one product name per line")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if (file == "") == (len(args) == 0) {
		return errors.New("provide either a product name or --file")
	}

	ctx := cmd.Context()
	eng, _, cleanup, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()

	if file == "" {
		records, err := eng.ResolveProduct(ctx, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, cli.RenderRecords(records))
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer func() { _ = f.Close() }()

	names, err := readNames(f)
	if err != nil {
		return err
	}

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(names), "Resolving products...")
	var (
		all    []model.ClassificationRecord
		failed int
	)
	for _, name := range names {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		records, err := eng.ResolveProduct(ctx, name)
		if err != nil {
			failed++
			slog.Warn("Failed to resolve product", "product", name, "error", err)
		} else {
			all = append(all, records...)
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	if _, err := fmt.Fprintln(out, cli.RenderRecords(all)); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d products could not be resolved", failed, len(names))
	}
	return nil
}
