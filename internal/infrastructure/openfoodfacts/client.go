// Package openfoodfacts fetches products from the Open Food Facts search API
// and turns them into food catalog rows.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/smartdiet/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Open Food Facts instance
	DefaultBaseURL = "https://world.openfoodfacts.org"

	searchPath  = "/cgi/search.pl"
	maxAttempts = 3
	userAgent   = "SmartDiet/1.0 (catalog builder)"
)

// searchFields are the product fields requested from the API
var searchFields = []string{
	"product_name",
	"product_name_en",
	"brands",
	"categories_tags",
	"ingredients_tags",
	"ingredients_analysis_tags",
	"nutrition_grades_tags",
	"nutriments",
}

var _ domain.ProductSearcher = (*Client)(nil)

// Client handles communication with the Open Food Facts API
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	backoff     func(attempt int) time.Duration
}

// NewClient creates a new Open Food Facts client limited to
// requestsPerSecond (burst 5). A non-positive rate defaults to 1 req/s.
func NewClient(baseURL string, requestsPerSecond float64, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:        httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
		logger:      logger,
		backoff:     exponentialBackoff,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// SearchProducts fetches one page of products. Server errors and 429s are
// retried; other client errors are not.
func (c *Client) SearchProducts(ctx context.Context, params domain.OFFSearchParams) (*domain.OFFSearchResponse, error) {
	query := map[string]string{
		"search_simple": "1",
		"action":        "process",
		"json":          "1",
		"page":          strconv.Itoa(params.Page),
		"page_size":     strconv.Itoa(params.PageSize),
		"fields":        strings.Join(searchFields, ","),
	}
	if params.Label != "" {
		query["tagtype_0"] = "labels"
		query["tag_contains_0"] = "contains"
		query["tag_0"] = params.Label
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(searchPath)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrOFFAPIFailure, ctx.Err())
			}
			c.logger.Warn("search request failed", zap.Int("attempt", attempt), zap.Int("page", params.Page), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrOFFAPIFailure, err)
			if !c.sleep(ctx, attempt) {
				return nil, lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOFFAPIFailure, status)
			if status == http.StatusTooManyRequests {
				lastErr = fmt.Errorf("%w: %w", domain.ErrOFFAPIFailure, domain.ErrRateLimited)
			} else if status < 500 {
				return nil, lastErr
			}
			c.logger.Warn("search API error", zap.Int("attempt", attempt), zap.Int("status", status))
			if !c.sleep(ctx, attempt) {
				return nil, lastErr
			}
			continue
		}

		var page domain.OFFSearchResponse
		if err := json.Unmarshal(resp.Body(), &page); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if len(page.Products) == 0 {
			return nil, domain.ErrNoProducts
		}

		c.logger.Debug("search page fetched",
			zap.Int("page", params.Page),
			zap.String("label", params.Label),
			zap.Int("products", len(page.Products)))
		return &page, nil
	}

	return nil, lastErr
}

// sleep waits out the backoff for attempt; false means ctx ended first
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return true
	}
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
