package scans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ecosnap/backend/internal/domain"
)

const pgDuplicateKeyCode = "23505"

// PostgresConfig holds connection pool settings
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnTimeout     time.Duration
}

// PostgresRepository stores scans in the scans table (see cmd/migrate).
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL through the pgx driver and verifies the connection.
func Open(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresRepository, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.ConnTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewPostgresRepository(db, logger), nil
}

// NewPostgresRepository wraps an existing connection pool
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{
		db:     db,
		logger: logger.With("component", "scans"),
	}
}

// Close releases the connection pool
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

const scanColumns = `id, user_id, product, breakdown, scanned_at`

func (r *PostgresRepository) Save(ctx context.Context, scan *domain.Scan) error {
	if scan == nil || scan.ID == uuid.Nil {
		return domain.ErrInvalidRequest
	}

	product, err := json.Marshal(scan.Product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	breakdown, err := json.Marshal(scan.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	q := `
		INSERT INTO scans (
			id, user_id, barcode, product_name, product, breakdown,
			overall_score, source, scanned_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, q,
		scan.ID,
		scan.UserID,
		scan.Product.Barcode,
		scan.Product.Name,
		product,
		breakdown,
		scan.Breakdown.Overall,
		string(scan.Breakdown.Source),
		scan.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", mapError(err))
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, id uuid.UUID) (*domain.Scan, error) {
	q := `SELECT ` + scanColumns + ` FROM scans WHERE id = $1`

	scan, err := scanRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &scan, nil
}

// ListByUser returns scans newest first; limit <= 0 returns all of them
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Scan, error) {
	q := `SELECT ` + scanColumns + ` FROM scans WHERE user_id = $1 ORDER BY scanned_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Scan, 0)
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (domain.Scan, error) {
	var scan domain.Scan
	var productRaw, breakdownRaw []byte

	if err := s.Scan(&scan.ID, &scan.UserID, &productRaw, &breakdownRaw, &scan.ScannedAt); err != nil {
		return scan, err
	}

	if err := json.Unmarshal(productRaw, &scan.Product); err != nil {
		return scan, fmt.Errorf("unmarshal product: %w", err)
	}
	if err := json.Unmarshal(breakdownRaw, &scan.Breakdown); err != nil {
		return scan, fmt.Errorf("unmarshal breakdown: %w", err)
	}

	scan.ScannedAt = scan.ScannedAt.UTC()
	return scan, nil
}

// mapError translates no-rows and unique violations to domain errors
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrScanNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKeyCode {
		return domain.ErrDuplicateScan
	}

	return err
}
