package openfoodfacts

import (
	"context"
	"errors"
	"strings"

	"github.com/smartdiet/backend/internal/domain"
	"go.uber.org/zap"
)

// strictLabel restricts the first search pass to products with complete
// nutrition facts; the second pass is unfiltered.
const strictLabel = "en:nutrition-facts-completed"

// BuildOptions controls a catalog build
type BuildOptions struct {
	PageSize int
	Pages    int
	MinRows  int
	Curated  []domain.FoodRecord // appended after fetched rows, deduplicated by name
}

// CatalogBuilder assembles a food catalog from a product searcher
type CatalogBuilder struct {
	searcher   domain.ProductSearcher
	thresholds Thresholds
	logger     *zap.Logger
}

// NewCatalogBuilder creates a builder
func NewCatalogBuilder(searcher domain.ProductSearcher, thresholds Thresholds, logger *zap.Logger) *CatalogBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogBuilder{searcher: searcher, thresholds: thresholds, logger: logger}
}

// Build fetches pages until MinRows distinct foods are collected or every
// page has been tried, then merges the curated rows. Failed pages are
// skipped. Only context cancellation is returned as an error.
func (b *CatalogBuilder) Build(ctx context.Context, opts BuildOptions) ([]domain.FoodRecord, error) {
	seen := make(map[string]bool)
	rows := make([]domain.FoodRecord, 0, opts.MinRows)

	done := func() bool { return opts.MinRows > 0 && len(rows) >= opts.MinRows }

	for _, label := range []string{strictLabel, ""} {
		for page := 1; page <= opts.Pages && !done(); page++ {
			if err := ctx.Err(); err != nil {
				return rows, err
			}

			resp, err := b.searcher.SearchProducts(ctx, domain.OFFSearchParams{
				Page:     page,
				PageSize: opts.PageSize,
				Label:    label,
			})
			if err != nil {
				if !errors.Is(err, domain.ErrNoProducts) {
					b.logger.Warn("skipping page", zap.Int("page", page), zap.String("label", label), zap.Error(err))
				}
				continue
			}

			for _, p := range resp.Products {
				name := NormalizeName(p)
				key := strings.ToLower(name)
				if seen[key] || Excluded(p, name) {
					continue
				}
				rows = append(rows, MapToFoodRecord(p, name, b.thresholds))
				seen[key] = true
				if done() {
					break
				}
			}
		}
	}

	curated := 0
	for _, f := range opts.Curated {
		name := strings.TrimSpace(f.Name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		f.Name = name
		rows = append(rows, f)
		seen[key] = true
		curated++
	}

	if opts.MinRows > 0 && len(rows) < opts.MinRows {
		b.logger.Warn("catalog smaller than requested",
			zap.Int("rows", len(rows)),
			zap.Int("min_rows", opts.MinRows))
	}
	b.logger.Info("catalog built", zap.Int("rows", len(rows)), zap.Int("curated", curated))
	return rows, nil
}
