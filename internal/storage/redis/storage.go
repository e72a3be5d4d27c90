package redis

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each record is a JSON string; per-kind SETs index the IDs.
type Storage struct {
	storage.Reader

	client *redis.Client
	cfg    Config
	keys   keys

	// mu serializes transactions issued by this process; WATCH catches
	// commits from other processes
	mu sync.Mutex
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	s := &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
	s.Reader = storage.NewReader(newTxn(client, s.keys))
	return s
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// RunInTransaction buffers fn's writes and commits them with MULTI/EXEC
// while watching the version key
func (s *Storage) RunInTransaction(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		t := newTxn(rtx, s.keys)
		if err := fn(storage.NewTx(t)); err != nil {
			return err
		}
		if t.empty() {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			t.flush(ctx, pipe)
			pipe.Incr(ctx, s.keys.version())
			return nil
		})
		return err
	}, s.keys.version())

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("redis commit: %w", model.ErrStaleWrite)
	}
	return err
}

// getter is the read surface shared by *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// txn overlays pending writes on top of the committed data
type txn struct {
	r    getter
	keys keys

	// writes holds pending payloads per kind; a nil payload marks a delete
	writes   map[model.EntityKind]map[string][]byte
	appended [][]byte
}

func newTxn(r getter, k keys) *txn {
	return &txn{
		r:      r,
		keys:   k,
		writes: make(map[model.EntityKind]map[string][]byte),
	}
}

func (t *txn) empty() bool {
	return len(t.writes) == 0 && len(t.appended) == 0
}

func (t *txn) pending(kind model.EntityKind, id string) ([]byte, bool) {
	data, ok := t.writes[kind][id]
	return data, ok
}

func (t *txn) GetRecord(ctx context.Context, kind model.EntityKind, id string) ([]byte, error) {
	if data, ok := t.pending(kind, id); ok {
		if data == nil {
			return nil, fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
		}
		return data, nil
	}

	data, err := t.r.Get(ctx, t.keys.entity(kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

func (t *txn) ListRecords(ctx context.Context, kind model.EntityKind) ([][]byte, error) {
	members, err := t.r.SMembers(ctx, t.keys.index(kind)).Result()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(members))
	for _, id := range members {
		ids[id] = struct{}{}
	}
	for id, data := range t.writes[kind] {
		if data == nil {
			delete(ids, id)
		} else {
			ids[id] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	sorted := slices.Sorted(maps.Keys(ids))
	var fetch []string
	for _, id := range sorted {
		if _, ok := t.pending(kind, id); !ok {
			fetch = append(fetch, t.keys.entity(kind, id))
		}
	}

	stored := make(map[string][]byte, len(fetch))
	if len(fetch) > 0 {
		values, err := t.r.MGet(ctx, fetch...).Result()
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			if s, ok := v.(string); ok {
				stored[fetch[i]] = []byte(s)
			}
		}
	}

	out := make([][]byte, 0, len(sorted))
	for _, id := range sorted {
		if data, ok := t.pending(kind, id); ok {
			out = append(out, data)
			continue
		}
		// The index can briefly outlive a record deleted by another client
		if data, ok := stored[t.keys.entity(kind, id)]; ok {
			out = append(out, data)
		}
	}
	return out, nil
}

func (t *txn) ListActivityRecords(ctx context.Context) ([][]byte, error) {
	values, err := t.r.LRange(ctx, t.keys.activity(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(values)+len(t.appended))
	for _, v := range values {
		out = append(out, []byte(v))
	}
	return append(out, t.appended...), nil
}

func (t *txn) PutRecord(ctx context.Context, kind model.EntityKind, id string, payload []byte) error {
	t.stage(kind, id, payload)
	return nil
}

func (t *txn) DeleteRecord(ctx context.Context, kind model.EntityKind, id string) error {
	if _, err := t.GetRecord(ctx, kind, id); err != nil {
		return err
	}
	t.stage(kind, id, nil)
	return nil
}

func (t *txn) AppendActivityRecord(ctx context.Context, payload []byte) error {
	t.appended = append(t.appended, payload)
	return nil
}

func (t *txn) stage(kind model.EntityKind, id string, payload []byte) {
	if t.writes[kind] == nil {
		t.writes[kind] = make(map[string][]byte)
	}
	t.writes[kind][id] = payload
}

// flush queues every pending write on the pipeline
func (t *txn) flush(ctx context.Context, pipe redis.Pipeliner) {
	for kind, recs := range t.writes {
		for id, data := range recs {
			if data == nil {
				pipe.Del(ctx, t.keys.entity(kind, id))
				pipe.SRem(ctx, t.keys.index(kind), id)
				continue
			}
			pipe.Set(ctx, t.keys.entity(kind, id), data, 0)
			pipe.SAdd(ctx, t.keys.index(kind), id)
		}
	}
	if len(t.appended) > 0 {
		values := make([]any, len(t.appended))
		for i, data := range t.appended {
			values[i] = data
		}
		pipe.RPush(ctx, t.keys.activity(), values...)
	}
}
