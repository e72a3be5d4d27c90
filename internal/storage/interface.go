package storage

import (
	"context"

	"github.com/mcoot/sportsched/internal/model"
)

// Reader provides read access to every entity collection.
// Lists are ordered by ID; activity is returned in append order.
type Reader interface {
	GetLocation(ctx context.Context, id model.LocationID) (*model.Location, error)
	ListLocations(ctx context.Context) ([]*model.Location, error)

	GetOfficial(ctx context.Context, id model.OfficialID) (*model.Official, error)
	ListOfficials(ctx context.Context) ([]*model.Official, error)

	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)

	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	GetAssignment(ctx context.Context, id model.AssignmentID) (*model.Assignment, error)
	ListAssignments(ctx context.Context) ([]*model.Assignment, error)

	ListActivity(ctx context.Context) ([]*model.ActivityLogEntry, error)
}

// Writer mutates entity collections. Deleting a missing record returns
// the kind's not-found error.
type Writer interface {
	SaveLocation(ctx context.Context, l *model.Location) error
	DeleteLocation(ctx context.Context, id model.LocationID) error

	SaveOfficial(ctx context.Context, o *model.Official) error
	DeleteOfficial(ctx context.Context, id model.OfficialID) error

	SaveGame(ctx context.Context, g *model.Game) error
	DeleteGame(ctx context.Context, id model.GameID) error

	SaveUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id model.UserID) error

	SaveAssignment(ctx context.Context, a *model.Assignment) error
	DeleteAssignment(ctx context.Context, id model.AssignmentID) error

	AppendActivity(ctx context.Context, e *model.ActivityLogEntry) error
}

// Tx is a unit of work. Reads observe the transaction's own pending writes.
type Tx interface {
	Reader
	Writer
}

// Storage defines the interface for data persistence
type Storage interface {
	Reader

	// RunInTransaction commits every write made by fn, or none of them if
	// fn returns an error. Backends report a concurrent conflicting commit
	// as model.ErrStaleWrite.
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}
