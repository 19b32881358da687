// Package store persists last-known-good upstream payloads in Postgres.
// Only raw provider data is kept; scores are always recomputed.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgxpool.Pool the store needs
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schemaSQL = `
	CREATE SCHEMA IF NOT EXISTS market;
	CREATE TABLE IF NOT EXISTS market.snapshots (
		kind       TEXT        NOT NULL,
		symbol     TEXT        NOT NULL,
		payload    JSONB       NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (kind, symbol)
	)
`

// SnapshotRepository implements marketdata.SnapshotStore
// ⭐ SSOT: 마지막 정상 upstream 응답 저장은 여기서만
type SnapshotRepository struct {
	db  querier
	now func() time.Time
}

// NewSnapshotRepository creates a repository over a pool
func NewSnapshotRepository(db querier) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

// EnsureSchema creates the snapshots table if missing
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// Save upserts the payload for (kind, symbol)
func (r *SnapshotRepository) Save(ctx context.Context, kind, symbol string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", kind, err)
	}

	query := `
		INSERT INTO market.snapshots (kind, symbol, payload, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, symbol) DO UPDATE SET
			payload = EXCLUDED.payload,
			fetched_at = EXCLUDED.fetched_at
	`

	if _, err := r.db.Exec(ctx, query, kind, symbol, data, r.now()); err != nil {
		return fmt.Errorf("save %s snapshot %s: %w", kind, symbol, err)
	}
	return nil
}

// Load decodes the stored payload into dest. Missing rows return false.
func (r *SnapshotRepository) Load(ctx context.Context, kind, symbol string, dest interface{}) (bool, error) {
	query := `
		SELECT payload
		FROM market.snapshots
		WHERE kind = $1 AND symbol = $2
	`

	var data []byte
	if err := r.db.QueryRow(ctx, query, kind, symbol).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load %s snapshot %s: %w", kind, symbol, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s snapshot: %w", kind, err)
	}
	return true, nil
}
