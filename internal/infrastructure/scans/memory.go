// Package scans stores scan history in memory or in PostgreSQL.
package scans

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ecosnap/backend/internal/domain"
)

// MemoryRepository keeps scans in process memory. History is lost on restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]domain.Scan
	byUser map[string][]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory scan store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[uuid.UUID]domain.Scan),
		byUser: make(map[string][]uuid.UUID),
	}
}

func (r *MemoryRepository) Save(ctx context.Context, scan *domain.Scan) error {
	if scan == nil || scan.ID == uuid.Nil {
		return domain.ErrInvalidRequest
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[scan.ID]; exists {
		return domain.ErrDuplicateScan
	}

	r.byID[scan.ID] = *scan
	r.byUser[scan.UserID] = append(r.byUser[scan.UserID], scan.ID)
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, id uuid.UUID) (*domain.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scan, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrScanNotFound
	}
	return &scan, nil
}

// ListByUser returns scans newest first; limit <= 0 returns all of them
func (r *MemoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Scan, error) {
	r.mu.RLock()
	ids := r.byUser[userID]
	result := make([]domain.Scan, 0, len(ids))
	// Walk backwards so equal timestamps keep newest-inserted first
	for i := len(ids) - 1; i >= 0; i-- {
		result = append(result, r.byID[ids[i]])
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ScannedAt.After(result[j].ScannedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Len returns the number of stored scans
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
