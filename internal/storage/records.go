package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/sportsched/internal/model"
)

// RecordReader is the raw view a backend exposes: JSON payloads keyed by
// entity kind and ID. Missing records yield an error wrapping model.ErrNotFound.
type RecordReader interface {
	GetRecord(ctx context.Context, kind model.EntityKind, id string) ([]byte, error)
	ListRecords(ctx context.Context, kind model.EntityKind) ([][]byte, error)
	ListActivityRecords(ctx context.Context) ([][]byte, error)
}

// RecordWriter is the raw mutation surface of a backend
type RecordWriter interface {
	PutRecord(ctx context.Context, kind model.EntityKind, id string, payload []byte) error
	DeleteRecord(ctx context.Context, kind model.EntityKind, id string) error
	AppendActivityRecord(ctx context.Context, payload []byte) error
}

// RecordTx combines raw reads and writes inside one transaction
type RecordTx interface {
	RecordReader
	RecordWriter
}

// NewReader adapts raw records to the typed Reader
func NewReader(r RecordReader) Reader {
	return records{r: r}
}

// NewTx adapts a raw transaction to the typed Tx
func NewTx(tx RecordTx) Tx {
	return records{r: tx, w: tx}
}

type records struct {
	r RecordReader
	w RecordWriter
}

var notFoundByKind = map[model.EntityKind]error{
	model.KindLocation:   model.ErrLocationNotFound,
	model.KindOfficial:   model.ErrOfficialNotFound,
	model.KindGame:       model.ErrGameNotFound,
	model.KindUser:       model.ErrUserNotFound,
	model.KindAssignment: model.ErrAssignmentNotFound,
}

// NotFound returns the not-found error for kind
func NotFound(kind model.EntityKind) error {
	if err, ok := notFoundByKind[kind]; ok {
		return err
	}
	return model.ErrNotFound
}

func get[T any](ctx context.Context, r RecordReader, kind model.EntityKind, id string) (*T, error) {
	data, err := r.GetRecord(ctx, kind, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NotFound(kind)
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", kind, id, err)
	}
	return &v, nil
}

func list[T any](ctx context.Context, r RecordReader, kind model.EntityKind) ([]*T, error) {
	raw, err := r.ListRecords(ctx, kind)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](raw, string(kind))
}

func decodeAll[T any](raw [][]byte, what string) ([]*T, error) {
	out := make([]*T, 0, len(raw))
	for _, data := range raw {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", what, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

func put(ctx context.Context, w RecordWriter, kind model.EntityKind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", kind, id, err)
	}
	return w.PutRecord(ctx, kind, id, data)
}

func del(ctx context.Context, w RecordWriter, kind model.EntityKind, id string) error {
	if err := w.DeleteRecord(ctx, kind, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return NotFound(kind)
		}
		return err
	}
	return nil
}

// Location operations

func (s records) GetLocation(ctx context.Context, id model.LocationID) (*model.Location, error) {
	return get[model.Location](ctx, s.r, model.KindLocation, string(id))
}

func (s records) ListLocations(ctx context.Context) ([]*model.Location, error) {
	return list[model.Location](ctx, s.r, model.KindLocation)
}

func (s records) SaveLocation(ctx context.Context, l *model.Location) error {
	return put(ctx, s.w, model.KindLocation, string(l.ID), l)
}

func (s records) DeleteLocation(ctx context.Context, id model.LocationID) error {
	return del(ctx, s.w, model.KindLocation, string(id))
}

// Official operations

func (s records) GetOfficial(ctx context.Context, id model.OfficialID) (*model.Official, error) {
	return get[model.Official](ctx, s.r, model.KindOfficial, string(id))
}

func (s records) ListOfficials(ctx context.Context) ([]*model.Official, error) {
	return list[model.Official](ctx, s.r, model.KindOfficial)
}

func (s records) SaveOfficial(ctx context.Context, o *model.Official) error {
	return put(ctx, s.w, model.KindOfficial, string(o.ID), o)
}

func (s records) DeleteOfficial(ctx context.Context, id model.OfficialID) error {
	return del(ctx, s.w, model.KindOfficial, string(id))
}

// Game operations

func (s records) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return get[model.Game](ctx, s.r, model.KindGame, string(id))
}

func (s records) ListGames(ctx context.Context) ([]*model.Game, error) {
	return list[model.Game](ctx, s.r, model.KindGame)
}

func (s records) SaveGame(ctx context.Context, g *model.Game) error {
	return put(ctx, s.w, model.KindGame, string(g.ID), g)
}

func (s records) DeleteGame(ctx context.Context, id model.GameID) error {
	return del(ctx, s.w, model.KindGame, string(id))
}

// User operations

func (s records) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return get[model.User](ctx, s.r, model.KindUser, string(id))
}

func (s records) ListUsers(ctx context.Context) ([]*model.User, error) {
	return list[model.User](ctx, s.r, model.KindUser)
}

func (s records) SaveUser(ctx context.Context, u *model.User) error {
	return put(ctx, s.w, model.KindUser, string(u.ID), u)
}

func (s records) DeleteUser(ctx context.Context, id model.UserID) error {
	return del(ctx, s.w, model.KindUser, string(id))
}

// Assignment operations

func (s records) GetAssignment(ctx context.Context, id model.AssignmentID) (*model.Assignment, error) {
	return get[model.Assignment](ctx, s.r, model.KindAssignment, string(id))
}

func (s records) ListAssignments(ctx context.Context) ([]*model.Assignment, error) {
	return list[model.Assignment](ctx, s.r, model.KindAssignment)
}

func (s records) SaveAssignment(ctx context.Context, a *model.Assignment) error {
	return put(ctx, s.w, model.KindAssignment, string(a.ID), a)
}

func (s records) DeleteAssignment(ctx context.Context, id model.AssignmentID) error {
	return del(ctx, s.w, model.KindAssignment, string(id))
}

// Activity log

func (s records) ListActivity(ctx context.Context) ([]*model.ActivityLogEntry, error) {
	raw, err := s.r.ListActivityRecords(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.ActivityLogEntry](raw, "activity")
}

func (s records) AppendActivity(ctx context.Context, e *model.ActivityLogEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	return s.w.AppendActivityRecord(ctx, data)
}
