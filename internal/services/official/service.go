package official

import (
	"context"
	"log/slog"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/validation"
)

// Service manages officials
type Service struct {
	storage   storage.Storage
	validator *validation.Validator
	recorder  *activity.Recorder
	clock     clock.Clock
	ids       ids.Generator
	policy    model.DeletePolicy
	logger    *slog.Logger
}

// New creates a new official Service
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

// Create validates and stores a new official. Experience defaults to
// Beginner, availability to Flexible, and the official starts active.
func (s *Service) Create(ctx context.Context, patch model.OfficialPatch) (*model.Official, error) {
	now := s.clock.Now()
	o := &model.Official{
		ID:              model.OfficialID(s.ids.NewID()),
		ExperienceLevel: model.ExperienceBeginner,
		Availability:    model.AvailabilityFlexible,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	patch.Apply(o)

	if err := s.validator.Validate(o); err != nil {
		return nil, err
	}

	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		if err := tx.SaveOfficial(ctx, o); err != nil {
			return err
		}
		return s.recorder.Entity(ctx, tx, model.KindOfficial, model.VerbCreated, string(o.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("official created", slog.String("official_id", string(o.ID)), slog.String("name", o.Name))
	return o, nil
}

// Get retrieves an official with its current assignment count
func (s *Service) Get(ctx context.Context, id model.OfficialID) (*model.Official, error) {
	o, err := s.storage.GetOfficial(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.assignmentCounts(ctx, s.storage)
	if err != nil {
		return nil, err
	}
	o.TotalAssignments = counts[o.ID]
	return o, nil
}

// List returns the officials matching f with their assignment counts
func (s *Service) List(ctx context.Context, f query.Filter, sort query.Sort) ([]*model.Official, error) {
	officials, err := s.storage.ListOfficials(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.assignmentCounts(ctx, s.storage)
	if err != nil {
		return nil, err
	}
	for _, o := range officials {
		o.TotalAssignments = counts[o.ID]
	}
	return query.Officials(officials, f, sort)
}

// Update applies the supplied fields and re-validates the merged official
func (s *Service) Update(ctx context.Context, id model.OfficialID, patch model.OfficialPatch) (*model.Official, error) {
	var updated *model.Official
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		o, err := tx.GetOfficial(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(o)
		if err := s.validator.Validate(o); err != nil {
			return err
		}
		o.UpdatedAt = s.clock.Now()
		o.TotalAssignments = 0
		if err := tx.SaveOfficial(ctx, o); err != nil {
			return err
		}

		counts, err := s.assignmentCounts(ctx, tx)
		if err != nil {
			return err
		}
		o.TotalAssignments = counts[o.ID]
		updated = o
		return s.recorder.Entity(ctx, tx, model.KindOfficial, model.VerbUpdated, string(o.ID))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an official. Under the block policy any assignment for the
// official prevents the delete; under cascade the assignments are removed too.
func (s *Service) Delete(ctx context.Context, id model.OfficialID) error {
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetOfficial(ctx, id); err != nil {
			return err
		}

		assignments, err := tx.ListAssignments(ctx)
		if err != nil {
			return err
		}
		var dependents []model.AssignmentID
		for _, a := range assignments {
			if a.OfficialID == id {
				dependents = append(dependents, a.ID)
			}
		}

		if len(dependents) > 0 && s.policy != model.DeleteCascade {
			return model.NewConflictError("official %s has %d assignments", id, len(dependents))
		}
		for _, aid := range dependents {
			if err := tx.DeleteAssignment(ctx, aid); err != nil {
				return err
			}
			if err := s.recorder.Entity(ctx, tx, model.KindAssignment, model.VerbDeleted, string(aid)); err != nil {
				return err
			}
		}

		if err := tx.DeleteOfficial(ctx, id); err != nil {
			return err
		}
		return s.recorder.Entity(ctx, tx, model.KindOfficial, model.VerbDeleted, string(id))
	})
	if err != nil {
		return err
	}

	s.logger.Info("official deleted", slog.String("official_id", string(id)))
	return nil
}

// assignmentCounts counts each official's non-declined assignments
func (s *Service) assignmentCounts(ctx context.Context, r storage.Reader) (map[model.OfficialID]int, error) {
	assignments, err := r.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	return CountAssignments(assignments), nil
}

// CountAssignments tallies non-declined assignments per official
func CountAssignments(assignments []*model.Assignment) map[model.OfficialID]int {
	counts := make(map[model.OfficialID]int)
	for _, a := range assignments {
		if a.Status.IsActive() {
			counts[a.OfficialID]++
		}
	}
	return counts
}
