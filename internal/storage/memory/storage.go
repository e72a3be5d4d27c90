package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Transactions run against a copy of the state which replaces the
// live state only when the transaction succeeds.
type Storage struct {
	storage.Reader

	mu    sync.RWMutex
	state *state
}

// New creates a new in-memory storage instance
func New() *Storage {
	s := &Storage{state: newState()}
	s.Reader = storage.NewReader(lockedView{s})
	return s
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// RunInTransaction applies fn to a copy of the state and commits it on success
func (s *Storage) RunInTransaction(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(storage.NewTx(work)); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// state holds encoded records per kind plus the activity log
type state struct {
	records  map[model.EntityKind]map[string][]byte
	activity [][]byte
}

func newState() *state {
	st := &state{records: make(map[model.EntityKind]map[string][]byte, len(model.EntityKinds))}
	for _, kind := range model.EntityKinds {
		st.records[kind] = make(map[string][]byte)
	}
	return st
}

// clone copies the maps; payloads are never mutated in place so they are shared
func (st *state) clone() *state {
	c := &state{
		records:  make(map[model.EntityKind]map[string][]byte, len(st.records)),
		activity: slices.Clone(st.activity),
	}
	for kind, recs := range st.records {
		c.records[kind] = maps.Clone(recs)
	}
	return c
}

func (st *state) GetRecord(ctx context.Context, kind model.EntityKind, id string) ([]byte, error) {
	data, ok := st.records[kind][id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return data, nil
}

func (st *state) ListRecords(ctx context.Context, kind model.EntityKind) ([][]byte, error) {
	recs := st.records[kind]
	out := make([][]byte, 0, len(recs))
	for _, id := range slices.Sorted(maps.Keys(recs)) {
		out = append(out, recs[id])
	}
	return out, nil
}

func (st *state) ListActivityRecords(ctx context.Context) ([][]byte, error) {
	return slices.Clone(st.activity), nil
}

func (st *state) PutRecord(ctx context.Context, kind model.EntityKind, id string, payload []byte) error {
	st.records[kind][id] = payload
	return nil
}

func (st *state) DeleteRecord(ctx context.Context, kind model.EntityKind, id string) error {
	if _, ok := st.records[kind][id]; !ok {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	delete(st.records[kind], id)
	return nil
}

func (st *state) AppendActivityRecord(ctx context.Context, payload []byte) error {
	st.activity = append(st.activity, payload)
	return nil
}

// lockedView reads the committed state under the read lock
type lockedView struct {
	s *Storage
}

func (v lockedView) GetRecord(ctx context.Context, kind model.EntityKind, id string) ([]byte, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.state.GetRecord(ctx, kind, id)
}

func (v lockedView) ListRecords(ctx context.Context, kind model.EntityKind) ([][]byte, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.state.ListRecords(ctx, kind)
}

func (v lockedView) ListActivityRecords(ctx context.Context) ([][]byte, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.state.ListActivityRecords(ctx)
}
