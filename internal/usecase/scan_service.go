package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecosnap/backend/internal/domain"
)

// History limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Barcodes are EAN-8 through GTIN-14
const (
	minBarcodeLength = 8
	maxBarcodeLength = 14
)

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	CacheTTL time.Duration
}

// ScanService scores products from attributes, barcodes or photos and keeps
// a per-user scan history.
type ScanService struct {
	pipeline   *ResolutionPipeline
	lookup     domain.ProductLookup
	identifier domain.ProductIdentifier
	scans      domain.ScanRepository
	cache      domain.CacheRepository
	cacheTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewScanService creates a new scan service with dependencies.
// cache and identifier may be nil; scans may not.
func NewScanService(
	pipeline *ResolutionPipeline,
	lookup domain.ProductLookup,
	identifier domain.ProductIdentifier,
	scans domain.ScanRepository,
	cache domain.CacheRepository,
	config ScanServiceConfig,
	logger *slog.Logger,
) *ScanService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ScanService{
		pipeline:   pipeline,
		lookup:     lookup,
		identifier: identifier,
		scans:      scans,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.With("component", "scans"),
		now:        time.Now,
	}
}

// ScoreProduct scores the given attributes and records the scan
func (s *ScanService) ScoreProduct(
	ctx context.Context,
	userID string,
	attrs *domain.ProductAttributes,
) (*domain.ScanResult, error) {
	if attrs == nil {
		return nil, domain.ErrInvalidRequest
	}

	normalized := NormalizeAttributes(attrs)
	breakdown := s.pipeline.Resolve(ctx, normalized)
	return s.record(ctx, userID, normalized, breakdown), nil
}

// ScanBarcode looks up a product by barcode and scores it.
// Flow: check cache -> product database -> cache -> score -> record
func (s *ScanService) ScanBarcode(ctx context.Context, userID, barcode string) (*domain.ScanResult, error) {
	barcode = NormalizeBarcode(barcode)
	if len(barcode) < minBarcodeLength || len(barcode) > maxBarcodeLength {
		return nil, fmt.Errorf("%w: barcode must have %d-%d digits", domain.ErrInvalidRequest, minBarcodeLength, maxBarcodeLength)
	}

	attrs, err := s.findProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	return s.ScoreProduct(ctx, userID, attrs)
}

// ScanImage identifies the product in a photo and scores it
func (s *ScanService) ScanImage(ctx context.Context, userID string, image []byte, mimeType string) (*domain.ScanResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is empty", domain.ErrInvalidRequest)
	}
	if s.identifier == nil {
		return nil, domain.ErrAIUnavailable
	}

	attrs, err := s.identifier.IdentifyProduct(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}

	return s.ScoreProduct(ctx, userID, attrs)
}

// Find returns a single scan by id
func (s *ScanService) Find(ctx context.Context, id uuid.UUID) (*domain.Scan, error) {
	return s.scans.Find(ctx, id)
}

// History returns the user's most recent scans, newest first
func (s *ScanService) History(ctx context.Context, userID string, limit int) ([]domain.Scan, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidRequest
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	return s.scans.ListByUser(ctx, userID, limit)
}

// Stats summarizes the user's whole scan history
func (s *ScanService) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidRequest
	}

	scans, err := s.scans.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}

	return summarize(userID, scans), nil
}

func summarize(userID string, scans []domain.Scan) *domain.UserStats {
	stats := &domain.UserStats{UserID: userID, TotalScans: len(scans)}
	if len(scans) == 0 {
		return stats
	}

	total := 0
	for _, scan := range scans {
		total += scan.Breakdown.Overall
		if scan.Breakdown.Overall > stats.BestScore {
			stats.BestScore = scan.Breakdown.Overall
		}
		if scan.Breakdown.Source == domain.SourceAI {
			stats.AIScans++
		} else {
			stats.HeuristicScans++
		}
	}

	avg := float64(total) / float64(len(scans))
	stats.AverageScore = math.Round(avg*10) / 10
	return stats
}

// findProduct resolves a barcode through the cache and then the product database
func (s *ScanService) findProduct(ctx context.Context, barcode string) (*domain.ProductAttributes, error) {
	cacheKey := productCacheKey(barcode)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	attrs, err := s.lookup.LookupBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrProductLookupFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProductLookupFailure, err)
	}
	if attrs.Barcode == "" {
		attrs.Barcode = barcode
	}

	// Cache failures never fail a scan
	if err := s.setInCache(ctx, cacheKey, attrs); err != nil {
		s.logger.Warn("product cache write failed", "barcode", barcode, "error", err)
	}

	return attrs, nil
}

// productCacheKey format: "product:{barcode}"
func productCacheKey(barcode string) string {
	return "product:" + barcode
}

func (s *ScanService) getFromCache(ctx context.Context, key string) (*domain.ProductAttributes, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var attrs domain.ProductAttributes
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &attrs, nil
}

func (s *ScanService) setInCache(ctx context.Context, key string, attrs *domain.ProductAttributes) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}

// record persists the scan on a best-effort basis
func (s *ScanService) record(
	ctx context.Context,
	userID string,
	attrs *domain.ProductAttributes,
	breakdown domain.EcoScoreBreakdown,
) *domain.ScanResult {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = domain.AnonymousUser
	}

	result := &domain.ScanResult{
		Scan: domain.Scan{
			ID:        uuid.New(),
			UserID:    userID,
			Product:   *attrs,
			Breakdown: breakdown,
			ScannedAt: s.now().UTC(),
		},
	}

	if err := s.scans.Save(ctx, &result.Scan); err != nil {
		s.logger.Warn("scan not recorded", "scan_id", result.ID, "user_id", userID, "error", err)
		return result
	}

	result.Recorded = true
	return result
}
