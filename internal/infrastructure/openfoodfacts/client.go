// Package openfoodfacts looks up products by barcode in the Open Food Facts database.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ecosnap/backend/internal/domain"
)

const (
	maxAttempts   = 3
	maxBodyBytes  = 2 << 20 // product documents can be large
	productFields = "code,product_name,generic_name,brands,categories,packaging," +
		"packaging_tags,packagings,ingredients_tags,labels_tags,ecoscore_data"
)

// Config holds Open Food Facts client settings
type Config struct {
	BaseURL           string
	UserAgent         string
	RequestsPerMinute int
}

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *slog.Logger
}

// NewClient creates a new Open Food Facts client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 100 // published limit for product reads
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "EcoSnap/1.0"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/60), 10),
		backoff:     exponentialBackoff,
		logger:      logger.With("component", "openfoodfacts"),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// LookupBarcode fetches a product and maps it to scoring attributes.
// Transport errors, 429 and 5xx are retried; 404 and status 0 mean not found.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.ProductAttributes, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json?fields=%s", c.baseURL, barcode, productFields)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		attrs, retry, err := c.fetch(ctx, reqURL, barcode)
		if err == nil {
			return attrs, nil
		}
		if !retry {
			return nil, err
		}

		c.logger.Warn("product lookup failed", "barcode", barcode, "attempt", attempt, "error", err)
		lastErr = err
	}

	return nil, lastErr
}

// fetch performs one request. retry reports whether the failure is transient.
func (c *Client) fetch(ctx context.Context, reqURL, barcode string) (attrs *domain.ProductAttributes, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrProductLookupFailure, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrProductLookupFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, domain.ErrProductNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrProductLookupFailure, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("%w: status %d", domain.ErrProductLookupFailure, resp.StatusCode)
	}

	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrProductLookupFailure, err)
	}

	if pr.Status == 0 || pr.Product == nil {
		return nil, false, domain.ErrProductNotFound
	}

	c.logger.Debug("product found", "barcode", barcode, "name", pr.Product.ProductName)
	return MapToAttributes(barcode, pr.Product), false, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
