package game

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/validation"
)

// Service manages games
type Service struct {
	storage   storage.Storage
	validator *validation.Validator
	recorder  *activity.Recorder
	clock     clock.Clock
	ids       ids.Generator
	policy    model.DeletePolicy
	logger    *slog.Logger
}

// New creates a new game Service
func New(
	storage storage.Storage,
	validator *validation.Validator,
	recorder *activity.Recorder,
	clock clock.Clock,
	ids ids.Generator,
	policy model.DeletePolicy,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		validator: validator,
		recorder:  recorder,
		clock:     clock,
		ids:       ids,
		policy:    policy,
		logger:    logger,
	}
}

// Create validates and stores a new game. Status defaults to scheduled and
// officials_needed to 1.
func (s *Service) Create(ctx context.Context, patch model.GamePatch) (*model.Game, error) {
	now := s.clock.Now()
	g := &model.Game{
		ID:              model.GameID(s.ids.NewID()),
		Status:          model.GameScheduled,
		OfficialsNeeded: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	patch.Apply(g)

	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		if err := s.resolveLocation(ctx, tx, g); err != nil {
			return err
		}
		if err := s.validator.Validate(g); err != nil {
			return err
		}
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		return s.recorder.Entity(ctx, tx, model.KindGame, model.VerbCreated, string(g.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(g.ID)),
		slog.String("date", g.Date),
		slog.String("sport", g.Sport),
	)
	return g, nil
}

// Get retrieves a game by ID
func (s *Service) Get(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// List returns the games matching f
func (s *Service) List(ctx context.Context, f query.Filter, sort query.Sort) ([]*model.Game, error) {
	games, err := s.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	return query.Games(games, f, sort)
}

// Update applies the supplied fields and re-validates the merged game.
// Nothing is written if validation fails.
func (s *Service) Update(ctx context.Context, id model.GameID, patch model.GamePatch) (*model.Game, error) {
	var updated *model.Game
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		g, err := tx.GetGame(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(g)
		if patch.Location != nil {
			if err := s.resolveLocation(ctx, tx, g); err != nil {
				return err
			}
		}
		if err := s.validator.Validate(g); err != nil {
			return err
		}
		g.UpdatedAt = s.clock.Now()
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		updated = g
		return s.recorder.Entity(ctx, tx, model.KindGame, model.VerbUpdated, string(g.ID))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a game. Under the block policy a game with assignments
// cannot be deleted; under cascade its assignments go with it.
func (s *Service) Delete(ctx context.Context, id model.GameID) error {
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetGame(ctx, id); err != nil {
			return err
		}
		if s.policy != model.DeleteCascade {
			n, err := countAssignments(ctx, tx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return model.NewConflictError("game %s has %d assignments", id, n)
			}
		}
		return DeleteCascading(ctx, tx, s.recorder, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("game deleted", slog.String("game_id", string(id)))
	return nil
}

func countAssignments(ctx context.Context, tx storage.Tx, id model.GameID) (int, error) {
	assignments, err := tx.ListAssignments(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range assignments {
		if a.GameID == id {
			n++
		}
	}
	return n, nil
}

// DeleteCascading removes a game and every assignment linked to it inside tx,
// recording one activity entry per removed record
func DeleteCascading(ctx context.Context, tx storage.Tx, recorder *activity.Recorder, id model.GameID) error {
	assignments, err := tx.ListAssignments(ctx)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if a.GameID != id {
			continue
		}
		if err := tx.DeleteAssignment(ctx, a.ID); err != nil {
			return err
		}
		if err := recorder.Entity(ctx, tx, model.KindAssignment, model.VerbDeleted, string(a.ID)); err != nil {
			return err
		}
	}
	if err := tx.DeleteGame(ctx, id); err != nil {
		return err
	}
	return recorder.Entity(ctx, tx, model.KindGame, model.VerbDeleted, string(id))
}

// RenameLocation copies l's current name to every game linked to it inside tx,
// recording one activity entry per changed game
func RenameLocation(ctx context.Context, tx storage.Tx, recorder *activity.Recorder, l *model.Location, now time.Time) error {
	games, err := tx.ListGames(ctx)
	if err != nil {
		return err
	}
	for _, g := range games {
		if g.LocationID != l.ID || g.Location == l.Name {
			continue
		}
		g.Location = l.Name
		g.UpdatedAt = now
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		if err := recorder.Entity(ctx, tx, model.KindGame, model.VerbUpdated, string(g.ID)); err != nil {
			return err
		}
	}
	return nil
}

// resolveLocation links the game to a known venue when its location names
// one by ID or, case-insensitively, by the name of an active venue.
// Unknown names are kept as free text.
func (s *Service) resolveLocation(ctx context.Context, tx storage.Tx, g *model.Game) error {
	g.LocationID = ""
	if g.Location == "" {
		return nil
	}
	locations, err := tx.ListLocations(ctx)
	if err != nil {
		return err
	}
	if l := MatchLocation(locations, g.Location); l != nil {
		g.LocationID = l.ID
		g.Location = l.Name
	}
	return nil
}

// MatchLocation finds the venue a game location refers to
func MatchLocation(locations []*model.Location, ref string) *model.Location {
	ref = strings.TrimSpace(ref)
	for _, l := range locations {
		if string(l.ID) == ref {
			return l
		}
	}
	caser := cases.Fold()
	folded := caser.String(ref)
	for _, l := range locations {
		if l.IsActive && caser.String(l.Name) == folded {
			return l
		}
	}
	return nil
}

// References reports whether g points at venue l
func References(g *model.Game, l *model.Location) bool {
	if g.LocationID != "" {
		return g.LocationID == l.ID
	}
	caser := cases.Fold()
	return caser.String(g.Location) == caser.String(l.Name)
}
