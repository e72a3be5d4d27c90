package location

import (
	"context"
	"log/slog"

	"golang.org/x/text/cases"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/services/game"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/validation"
)

// Service manages venues
type Service struct {
	storage   storage.Storage
	validator *validation.Validator
	recorder  *activity.Recorder
	clock     clock.Clock
	ids       ids.Generator
	policy    model.DeletePolicy
	logger    *slog.Logger
}

// New creates a new location Service
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

// Create validates and stores a new venue. New venues are active.
func (s *Service) Create(ctx context.Context, patch model.LocationPatch) (*model.Location, error) {
	now := s.clock.Now()
	l := &model.Location{
		ID:        model.LocationID(s.ids.NewID()),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(l)

	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		if err := s.check(ctx, tx, l); err != nil {
			return err
		}
		if err := tx.SaveLocation(ctx, l); err != nil {
			return err
		}
		return s.recorder.Entity(ctx, tx, model.KindLocation, model.VerbCreated, string(l.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("location created", slog.String("location_id", string(l.ID)), slog.String("name", l.Name))
	return l, nil
}

func (s *Service) Get(ctx context.Context, id model.LocationID) (*model.Location, error) {
	return s.storage.GetLocation(ctx, id)
}

func (s *Service) List(ctx context.Context, f query.Filter, sort query.Sort) ([]*model.Location, error) {
	locations, err := s.storage.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	return query.Locations(locations, f, sort)
}

// Update applies the supplied fields and re-validates the merged venue.
// A rename is copied to every game linked to the venue.
func (s *Service) Update(ctx context.Context, id model.LocationID, patch model.LocationPatch) (*model.Location, error) {
	var updated *model.Location
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		l, err := tx.GetLocation(ctx, id)
		if err != nil {
			return err
		}
		oldName := l.Name
		patch.Apply(l)
		if err := s.check(ctx, tx, l); err != nil {
			return err
		}
		l.UpdatedAt = s.clock.Now()
		if err := tx.SaveLocation(ctx, l); err != nil {
			return err
		}
		if l.Name != oldName {
			if err := game.RenameLocation(ctx, tx, s.recorder, l, l.UpdatedAt); err != nil {
				return err
			}
		}
		updated = l
		return s.recorder.Entity(ctx, tx, model.KindLocation, model.VerbUpdated, string(l.ID))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a venue. Scheduled or completed games that still refer to
// it block the delete, or are removed with their assignments under the
// cascade policy. Cancelled games do not hold on to a venue.
func (s *Service) Delete(ctx context.Context, id model.LocationID) error {
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		l, err := tx.GetLocation(ctx, id)
		if err != nil {
			return err
		}

		games, err := tx.ListGames(ctx)
		if err != nil {
			return err
		}
		var dependents []model.GameID
		for _, g := range games {
			if !g.IsArchived() && game.References(g, l) {
				dependents = append(dependents, g.ID)
			}
		}

		if len(dependents) > 0 {
			if s.policy != model.DeleteCascade {
				return model.NewConflictError("location %q is used by %d games", l.Name, len(dependents))
			}
			for _, gameID := range dependents {
				if err := game.DeleteCascading(ctx, tx, s.recorder, gameID); err != nil {
					return err
				}
			}
		}

		if err := tx.DeleteLocation(ctx, id); err != nil {
			return err
		}
		return s.recorder.Entity(ctx, tx, model.KindLocation, model.VerbDeleted, string(id))
	})
	if err != nil {
		return err
	}

	s.logger.Info("location deleted", slog.String("location_id", string(id)))
	return nil
}

// check validates l and enforces unique names among active venues
func (s *Service) check(ctx context.Context, tx storage.Tx, l *model.Location) error {
	errs := s.validator.Check(l)

	if l.IsActive && l.Name != "" {
		others, err := tx.ListLocations(ctx)
		if err != nil {
			return err
		}
		caser := cases.Fold()
		name := caser.String(l.Name)
		for _, other := range others {
			if other.ID != l.ID && other.IsActive && caser.String(other.Name) == name {
				errs.Add("name", model.CodeNotUnique, "an active location with this name already exists")
				break
			}
		}
	}

	return errs.Err()
}
