// Command fetchfoods builds the food catalog CSV from Open Food Facts search
// results, merged with an optional curated CSV.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/smartdiet/backend/config"
	"github.com/smartdiet/backend/internal/domain"
	"github.com/smartdiet/backend/internal/infrastructure/openfoodfacts"
	"github.com/smartdiet/backend/internal/knowledge"
	"github.com/smartdiet/backend/internal/logger"
)

type options struct {
	out               string
	curated           string
	baseURL           string
	pages             int
	pageSize          int
	minRows           int
	requestsPerSecond float64
	logLevel          string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "fetchfoods: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := &options{}
	fs := pflag.NewFlagSet("fetchfoods", pflag.ContinueOnError)
	fs.StringVarP(&opts.out, "out", "o", cfg.Catalog.FoodsPath, "output CSV path")
	fs.StringVar(&opts.curated, "curated", cfg.OpenFoodFacts.CuratedPath, "curated CSV merged into the output, empty to skip")
	fs.StringVar(&opts.baseURL, "base-url", cfg.OpenFoodFacts.BaseURL, "Open Food Facts base URL")
	fs.IntVar(&opts.pages, "pages", cfg.OpenFoodFacts.Pages, "maximum pages per search pass")
	fs.IntVar(&opts.pageSize, "page-size", cfg.OpenFoodFacts.PageSize, "products per page")
	fs.IntVar(&opts.minRows, "min-rows", cfg.OpenFoodFacts.MinRows, "stop fetching once this many foods are collected")
	fs.Float64Var(&opts.requestsPerSecond, "rps", cfg.OpenFoodFacts.RequestsPerSecond, "request rate limit")
	fs.StringVar(&opts.logLevel, "log-level", cfg.Log.Level, "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.pages <= 0 || opts.pageSize <= 0 {
		return fmt.Errorf("--pages and --page-size must be positive")
	}

	zl, err := logger.New(opts.logLevel, cfg.Server.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	curated := knowledge.LoadFoodsCSV(opts.curated)
	if opts.curated != "" {
		zl.Info("curated foods loaded", zap.String("path", opts.curated), zap.Int("foods", len(curated)))
	}

	client := openfoodfacts.NewClient(opts.baseURL, opts.requestsPerSecond, zl)
	builder := openfoodfacts.NewCatalogBuilder(client, openfoodfacts.DefaultThresholds(), zl)

	foods, err := builder.Build(ctx, openfoodfacts.BuildOptions{
		PageSize: opts.pageSize,
		Pages:    opts.pages,
		MinRows:  opts.minRows,
		Curated:  curated,
	})
	if err != nil {
		return fmt.Errorf("catalog build interrupted after %d foods: %w", len(foods), err)
	}

	if err := writeCatalog(opts.out, foods); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d foods to %s\n", len(foods), opts.out)
	return nil
}

// writeCatalog replaces path atomically
func writeCatalog(path string, foods []domain.FoodRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".foods-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set catalog permissions: %w", err)
	}

	if err := knowledge.WriteFoods(tmp, foods); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}
