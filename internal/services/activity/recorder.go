// Package activity records the append-only audit trail of mutations.
package activity

import (
	"context"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
)

type actorKey struct{}

// WithActor returns a context carrying the user performing the request
func WithActor(ctx context.Context, id model.UserID) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// ActorFrom returns the acting user, or model.SystemActor when none was set
func ActorFrom(ctx context.Context) model.UserID {
	if id, ok := ctx.Value(actorKey{}).(model.UserID); ok && id != "" {
		return id
	}
	return model.SystemActor
}

// Recorder appends activity entries within the caller's transaction
type Recorder struct {
	clock clock.Clock
	ids   ids.Generator
}

// NewRecorder creates a new Recorder
func NewRecorder(clock clock.Clock, ids ids.Generator) *Recorder {
	return &Recorder{clock: clock, ids: ids}
}

// Record stamps the entry with an ID, the context actor and the current time,
// then appends it through tx
func (r *Recorder) Record(ctx context.Context, tx storage.Tx, e model.ActivityLogEntry) error {
	e.ID = r.ids.NewID()
	if e.ActorID == "" {
		e.ActorID = ActorFrom(ctx)
	}
	e.Timestamp = r.clock.Now()
	return tx.AppendActivity(ctx, &e)
}

// Entity records a created/updated/deleted action on one record
func (r *Recorder) Entity(ctx context.Context, tx storage.Tx, kind model.EntityKind, verb, id string) error {
	return r.Record(ctx, tx, model.ActivityLogEntry{
		Action:     model.ActionName(kind, verb),
		EntityKind: kind,
		EntityID:   id,
	})
}
