package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpulse/backend/internal/contracts"
	"github.com/wonny/stockpulse/backend/pkg/config"
	"github.com/wonny/stockpulse/backend/pkg/database"
)

// fakeDB keeps rows in a map keyed by kind|symbol
type fakeDB struct {
	rows    map[string][]byte
	execErr error
	lastSQL string
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if len(args) == 4 {
		f.rows[args[0].(string)+"|"+args[1].(string)] = args[2].([]byte)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	data, ok := f.rows[args[0].(string)+"|"+args[1].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func newFake() *fakeDB {
	return &fakeDB{rows: make(map[string][]byte)}
}

func TestSnapshotRepository_SaveLoad(t *testing.T) {
	db := newFake()
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	quote := &contracts.Quote{Symbol: "TCS.NSE", Price: contracts.Float(4012.5)}
	require.NoError(t, repo.Save(ctx, "quote", "TCS.NSE", quote))

	var got *contracts.Quote
	found, err := repo.Load(ctx, "quote", "TCS.NSE", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "TCS.NSE", got.Symbol)
	assert.Equal(t, 4012.5, *got.Price)
}

func TestSnapshotRepository_LoadMissing(t *testing.T) {
	repo := NewSnapshotRepository(newFake())

	var got *contracts.Quote
	found, err := repo.Load(context.Background(), "quote", "NOPE.NSE", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestSnapshotRepository_SaveError(t *testing.T) {
	db := newFake()
	db.execErr = errors.New("connection refused")
	repo := NewSnapshotRepository(db)

	err := repo.Save(context.Background(), "history", "INFY.NSE", contracts.History{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSnapshotRepository_LoadCorrupt(t *testing.T) {
	db := newFake()
	db.rows["overview|INFY.NSE"] = []byte(`{not json`)
	repo := NewSnapshotRepository(db)

	var got *contracts.Overview
	found, err := repo.Load(context.Background(), "overview", "INFY.NSE", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestSnapshotRepository_EnsureSchema(t *testing.T) {
	db := newFake()
	require.NoError(t, NewSnapshotRepository(db).EnsureSchema(context.Background()))
	assert.Contains(t, db.lastSQL, "market.snapshots")
}

func TestSnapshotRepository_Postgres(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := database.New(ctx, &config.Config{Database: config.DatabaseConfig{
		URL: url, MaxConns: 2, MinConns: 1, MaxConnLifetime: time.Hour, MaxConnIdleTime: time.Minute,
	}})
	require.NoError(t, err)
	defer db.Close()

	repo := NewSnapshotRepository(db.Pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	history := contracts.History{{Timestamp: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Close: 101, Volume: 1000}}
	require.NoError(t, repo.Save(ctx, "history", "TEST.NSE", history))
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM market.snapshots WHERE symbol = 'TEST.NSE'`)
	})

	var got contracts.History
	found, err := repo.Load(ctx, "history", "TEST.NSE", &got)
	require.NoError(t, err)
	require.True(t, found)

	want, _ := json.Marshal(history)
	have, _ := json.Marshal(got)
	assert.JSONEq(t, string(want), string(have))
}
