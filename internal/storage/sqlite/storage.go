package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
)

// tables maps each kind to its table; names never come from user input
var tables = map[model.EntityKind]string{
	model.KindLocation:   "locations",
	model.KindOfficial:   "officials",
	model.KindGame:       "games",
	model.KindUser:       "users",
	model.KindAssignment: "assignments",
}

// Storage persists each record as a JSON payload in a per-kind SQLite table
type Storage struct {
	storage.Reader

	db   *sql.DB
	path string
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens (or creates) the database at path and ensures the schema exists
func New(path string) (*Storage, error) {
	if path == "" {
		path = "scheduler.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	// Writers take the lock up front and wait for each other
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Storage{db: db, path: path}
	s.Reader = storage.NewReader(&txn{q: db})
	return s, nil
}

func createSchema(db *sql.DB) error {
	for _, kind := range model.EntityKinds {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		)`, tables[kind])
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create %s table: %w", tables[kind], err)
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS activity (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		payload TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create activity table: %w", err)
	}
	return nil
}

// RunInTransaction applies fn inside a database transaction
func (s *Storage) RunInTransaction(ctx context.Context, fn func(tx storage.Tx) error) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(storage.NewTx(&txn{q: tx})); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the configured database path
func (s *Storage) Path() string { return s.path }

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txn struct {
	q queryer
}

func (t *txn) GetRecord(ctx context.Context, kind model.EntityKind, id string) ([]byte, error) {
	var payload []byte
	err := t.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT payload FROM %s WHERE id = ?`, tables[kind]), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
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
	rows, err := t.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out [][]byte
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, payload)
	}
	return out, rows.Err()
}

func (t *txn) PutRecord(ctx context.Context, kind model.EntityKind, id string, payload []byte) error {
	stmt := fmt.Sprintf(`INSERT INTO %s(id, payload) VALUES(?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`, tables[kind])
	if _, err := t.q.ExecContext(ctx, stmt, id, string(payload)); err != nil {
		return fmt.Errorf("upsert %s: %w", kind, err)
	}
	return nil
}

func (t *txn) DeleteRecord(ctx context.Context, kind model.EntityKind, id string) error {
	res, err := t.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, tables[kind]), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return nil
}

func (t *txn) AppendActivityRecord(ctx context.Context, payload []byte) error {
	if _, err := t.q.ExecContext(ctx, `INSERT INTO activity(payload) VALUES(?)`, string(payload)); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
