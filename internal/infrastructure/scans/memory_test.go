package scans

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosnap/backend/internal/domain"
)

func newScan(userID string, at time.Time) *domain.Scan {
	return &domain.Scan{
		ID:     uuid.New(),
		UserID: userID,
		Product: domain.ProductAttributes{
			Name: "Oat Milk",
		},
		Breakdown: domain.EcoScoreBreakdown{
			Overall: 70,
			Source:  domain.SourceHeuristic,
		},
		ScannedAt: at,
	}
}

func TestMemoryRepository_SaveAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	scan := newScan("alice", time.Now())
	require.NoError(t, repo.Save(ctx, scan))

	found, err := repo.Find(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, scan.ID, found.ID)
	assert.Equal(t, "Oat Milk", found.Product.Name)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepository_SaveRejectsInvalid(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	assert.ErrorIs(t, repo.Save(ctx, nil), domain.ErrInvalidRequest)
	assert.ErrorIs(t, repo.Save(ctx, &domain.Scan{UserID: "alice"}), domain.ErrInvalidRequest)
}

func TestMemoryRepository_SaveDuplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	scan := newScan("alice", time.Now())
	require.NoError(t, repo.Save(ctx, scan))
	assert.ErrorIs(t, repo.Save(ctx, scan), domain.ErrDuplicateScan)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepository_FindMissing(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrScanNotFound)
}

func TestMemoryRepository_ListByUser(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	oldest := newScan("alice", base)
	middle := newScan("alice", base.Add(time.Minute))
	newest := newScan("alice", base.Add(2*time.Minute))
	other := newScan("bob", base.Add(3*time.Minute))

	// Insert out of order
	for _, s := range []*domain.Scan{middle, newest, other, oldest} {
		require.NoError(t, repo.Save(ctx, s))
	}

	tests := []struct {
		name  string
		user  string
		limit int
		want  []uuid.UUID
	}{
		{"all scans newest first", "alice", 0, []uuid.UUID{newest.ID, middle.ID, oldest.ID}},
		{"limit applied", "alice", 2, []uuid.UUID{newest.ID, middle.ID}},
		{"limit larger than history", "alice", 10, []uuid.UUID{newest.ID, middle.ID, oldest.ID}},
		{"other user isolated", "bob", 0, []uuid.UUID{other.ID}},
		{"unknown user", "carol", 0, []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListByUser(ctx, tt.user, tt.limit)
			require.NoError(t, err)

			ids := make([]uuid.UUID, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMemoryRepository_EqualTimestampsKeepInsertOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newScan("alice", at)
	second := newScan("alice", at)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.ListByUser(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestMemoryRepository_Concurrent(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i%5)
			_ = repo.Save(ctx, newScan(user, time.Now()))
			_, _ = repo.ListByUser(ctx, user, 3)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Len())
}
