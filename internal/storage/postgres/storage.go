package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
)

// serializationFailure is the SQLSTATE raised when a SERIALIZABLE
// transaction conflicts with a concurrent one
const serializationFailure = "40001"

var tables = map[model.EntityKind]string{
	model.KindLocation:   "locations",
	model.KindOfficial:   "officials",
	model.KindGame:       "games",
	model.KindUser:       "users",
	model.KindAssignment: "assignments",
}

// Config holds PostgreSQL connection settings
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultConfig returns sensible pool defaults
func DefaultConfig() Config {
	return Config{
		MaxConns:        20,
		MinConns:        2,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
	}
}

// Storage persists each record as JSONB in a per-kind table.
// Transactions run at SERIALIZABLE isolation.
type Storage struct {
	storage.Reader

	pool *pgxpool.Pool
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New migrates the schema and opens a connection pool
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	if err := RunMigrations(cfg.URL, logger); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	defaults := DefaultConfig()
	poolCfg.MaxConns = cmpOr(cfg.MaxConns, defaults.MaxConns)
	poolCfg.MinConns = cmpOr(cfg.MinConns, defaults.MinConns)
	poolCfg.MaxConnLifetime = cmpOr(cfg.MaxConnLifetime, defaults.MaxConnLifetime)
	poolCfg.MaxConnIdleTime = cmpOr(cfg.MaxConnIdleTime, defaults.MaxConnIdleTime)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewWithPool(pool), nil
}

// NewWithPool wraps an existing pool whose schema is already migrated
func NewWithPool(pool *pgxpool.Pool) *Storage {
	s := &Storage{pool: pool}
	s.Reader = storage.NewReader(&txn{q: pool})
	return s
}

func cmpOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// RunInTransaction applies fn inside a SERIALIZABLE transaction
func (s *Storage) RunInTransaction(ctx context.Context, fn func(tx storage.Tx) error) (retErr error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(storage.NewTx(&txn{q: tx})); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// mapError reports serialization failures as stale writes
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == serializationFailure {
		return fmt.Errorf("%w: %s", model.ErrStaleWrite, pgErr.Message)
	}
	return err
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txn struct {
	q DBTX
}

func (t *txn) GetRecord(ctx context.Context, kind model.EntityKind, id string) ([]byte, error) {
	var payload []byte
	err := t.q.QueryRow(ctx, fmt.Sprintf(`SELECT payload FROM %s WHERE id = $1`, tables[kind]), id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return payload, nil
}

func (t *txn) ListRecords(ctx context.Context, kind model.EntityKind) ([][]byte, error) {
	return t.selectPayloads(ctx, fmt.Sprintf(`SELECT payload FROM %s ORDER BY id`, tables[kind]))
}

func (t *txn) ListActivityRecords(ctx context.Context) ([][]byte, error) {
	return t.selectPayloads(ctx, `SELECT payload FROM activity ORDER BY seq`)
}

func (t *txn) selectPayloads(ctx context.Context, query string) ([][]byte, error) {
	rows, err := t.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]byte, error) {
		var payload []byte
		err := row.Scan(&payload)
		return payload, err
	})
}

func (t *txn) PutRecord(ctx context.Context, kind model.EntityKind, id string, payload []byte) error {
	stmt := fmt.Sprintf(`INSERT INTO %s (id, payload) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`, tables[kind])
	if _, err := t.q.Exec(ctx, stmt, id, string(payload)); err != nil {
		return fmt.Errorf("upsert %s: %w", kind, err)
	}
	return nil
}

func (t *txn) DeleteRecord(ctx context.Context, kind model.EntityKind, id string) error {
	tag, err := t.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tables[kind]), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return nil
}

func (t *txn) AppendActivityRecord(ctx context.Context, payload []byte) error {
	if _, err := t.q.Exec(ctx, `INSERT INTO activity (payload) VALUES ($1)`, string(payload)); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
