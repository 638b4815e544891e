package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes; callers own the encoding.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AIResolver asks an external model for sub-scores. ok is false on any failure;
// implementations never return an error.
type AIResolver interface {
	Resolve(ctx context.Context, attrs *ProductAttributes) (assessment *AIAssessment, ok bool)
}

// ProductIdentifier extracts product attributes from a photo
type ProductIdentifier interface {
	IdentifyProduct(ctx context.Context, image []byte, mimeType string) (*ProductAttributes, error)
}

// ProductLookup resolves a barcode against a product database
type ProductLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*ProductAttributes, error)
}

// ScanRepository persists scans
type ScanRepository interface {
	Save(ctx context.Context, scan *Scan) error
	Find(ctx context.Context, id uuid.UUID) (*Scan, error)
	// ListByUser returns the user's scans newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]Scan, error)
}
