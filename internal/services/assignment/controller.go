package assignment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/validation"
)

// TransitionObserver is told about every committed status change
type TransitionObserver interface {
	ObserveTransition(from, to model.AssignmentStatus)
}

// Config holds configuration for the assignment controller
type Config struct {
	// EnforceOfficialsNeeded rejects assignments beyond a game's
	// officials_needed. When false the cap is informational.
	EnforceOfficialsNeeded bool
}

// Controller manages assignments and their status lifecycle
type Controller struct {
	storage   storage.Storage
	validator *validation.Validator
	recorder  *activity.Recorder
	clock     clock.Clock
	ids       ids.Generator
	logger    *slog.Logger
	observer  TransitionObserver
	cfg       Config
}

// NewController creates a new assignment Controller
func NewController(
	storage storage.Storage,
	validator *validation.Validator,
	recorder *activity.Recorder,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	return &Controller{
		storage:   storage,
		validator: validator,
		recorder:  recorder,
		clock:     clock,
		ids:       ids,
		logger:    logger,
		cfg:       cfg,
	}
}

// WithObserver registers an observer for committed transitions
func (c *Controller) WithObserver(o TransitionObserver) *Controller {
	c.observer = o
	return c
}

// Create books an official for a game. The assignment starts pending and
// the position defaults to Referee.
func (c *Controller) Create(ctx context.Context, in model.NewAssignment) (*model.Assignment, error) {
	now := c.clock.Now()
	a := &model.Assignment{
		ID:           model.AssignmentID(c.ids.NewID()),
		GameID:       in.GameID,
		OfficialID:   in.OfficialID,
		Position:     model.PositionReferee,
		Status:       model.AssignmentPending,
		AssignedDate: now,
		UpdatedAt:    now,
	}
	model.AssignmentPatch{Position: in.Position, Fee: in.Fee, Notes: in.Notes}.Apply(a)

	if err := c.validator.Validate(a); err != nil {
		return nil, err
	}

	err := c.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		g, err := tx.GetGame(ctx, a.GameID)
		if err != nil {
			return err
		}
		if _, err := tx.GetOfficial(ctx, a.OfficialID); err != nil {
			return err
		}

		existing, err := tx.ListAssignments(ctx)
		if err != nil {
			return err
		}
		if err := checkDuplicate(existing, a); err != nil {
			return err
		}
		if err := c.checkCrewSize(g, existing); err != nil {
			return err
		}

		if err := tx.SaveAssignment(ctx, a); err != nil {
			return err
		}
		return c.recorder.Entity(ctx, tx, model.KindAssignment, model.VerbCreated, string(a.ID))
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("assignment created",
		slog.String("assignment_id", string(a.ID)),
		slog.String("game_id", string(a.GameID)),
		slog.String("official_id", string(a.OfficialID)),
		slog.String("position", string(a.Position)),
	)
	return a, nil
}

// Get returns an assignment joined with its game and official
func (c *Controller) Get(ctx context.Context, id model.AssignmentID) (*model.AssignmentDetail, error) {
	a, err := c.storage.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := Details(ctx, c.storage, []*model.Assignment{a})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// List returns the assignments matching f, joined with their games and officials
func (c *Controller) List(ctx context.Context, f query.Filter, sort query.Sort) ([]*model.AssignmentDetail, error) {
	assignments, err := c.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	details, err := Details(ctx, c.storage, assignments)
	if err != nil {
		return nil, err
	}
	return query.Assignments(details, f, sort)
}

// Update changes position, fee or notes. Status changes go through Transition.
func (c *Controller) Update(ctx context.Context, id model.AssignmentID, patch model.AssignmentPatch) (*model.Assignment, error) {
	var updated *model.Assignment
	err := c.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		a, err := tx.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(a)
		if err := c.validator.Validate(a); err != nil {
			return err
		}

		if patch.Position != nil && a.Status.IsActive() {
			existing, err := tx.ListAssignments(ctx)
			if err != nil {
				return err
			}
			if err := checkDuplicate(existing, a); err != nil {
				return err
			}
		}

		a.UpdatedAt = c.clock.Now()
		if err := tx.SaveAssignment(ctx, a); err != nil {
			return err
		}
		updated = a
		return c.recorder.Entity(ctx, tx, model.KindAssignment, model.VerbUpdated, string(a.ID))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Transition moves an assignment to a new status
func (c *Controller) Transition(ctx context.Context, id model.AssignmentID, to model.AssignmentStatus) (*model.Assignment, error) {
	return c.TransitionFrom(ctx, id, "", to)
}

// TransitionFrom moves an assignment to a new status only if it still holds
// the status the caller last read. An empty expected status skips that check.
func (c *Controller) TransitionFrom(ctx context.Context, id model.AssignmentID, expected, to model.AssignmentStatus) (*model.Assignment, error) {
	var errs model.FieldErrors
	if !to.IsValid() {
		errs.Add("status", model.CodeInvalidEnumValue, fmt.Sprintf("%q is not an assignment status", to))
	}
	if expected != "" && !expected.IsValid() {
		errs.Add("expected_status", model.CodeInvalidEnumValue, fmt.Sprintf("%q is not an assignment status", expected))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var (
		updated *model.Assignment
		from    model.AssignmentStatus
	)
	err := c.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		a, err := tx.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		from = a.Status

		if expected != "" && a.Status != expected {
			return fmt.Errorf("%w: assignment %s is %s, not %s", model.ErrStaleWrite, id, a.Status, expected)
		}
		if !a.Status.CanTransitionTo(to) {
			return &model.TransitionError{From: a.Status, To: to}
		}

		a.Status = to
		a.UpdatedAt = c.clock.Now()
		if err := tx.SaveAssignment(ctx, a); err != nil {
			return err
		}
		updated = a
		return c.recorder.Record(ctx, tx, model.ActivityLogEntry{
			Action:     model.ActionName(model.KindAssignment, model.VerbTransitioned),
			EntityKind: model.KindAssignment,
			EntityID:   string(a.ID),
			FromStatus: from,
			ToStatus:   to,
		})
	})
	if err != nil {
		return nil, err
	}

	if c.observer != nil {
		c.observer.ObserveTransition(from, to)
	}
	c.logger.Info("assignment transitioned",
		slog.String("assignment_id", string(id)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return updated, nil
}

// Delete removes an assignment
func (c *Controller) Delete(ctx context.Context, id model.AssignmentID) error {
	return c.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		if err := tx.DeleteAssignment(ctx, id); err != nil {
			return err
		}
		return c.recorder.Entity(ctx, tx, model.KindAssignment, model.VerbDeleted, string(id))
	})
}

// checkDuplicate rejects a second active booking of the same official at the
// same position of the same game
func checkDuplicate(existing []*model.Assignment, a *model.Assignment) error {
	for _, other := range existing {
		if other.ID != a.ID && other.Status.IsActive() && other.SameSlot(a) {
			return fmt.Errorf("%w: existing assignment %s", model.ErrDuplicateAssignment, other.ID)
		}
	}
	return nil
}

// checkCrewSize applies the officials_needed cap. Without enforcement an
// over-staffed game is only logged.
func (c *Controller) checkCrewSize(g *model.Game, existing []*model.Assignment) error {
	active := 0
	for _, other := range existing {
		if other.GameID == g.ID && other.Status.IsActive() {
			active++
		}
	}
	if active < g.OfficialsNeeded {
		return nil
	}

	if c.cfg.EnforceOfficialsNeeded {
		return model.NewValidationError("game_id", model.CodeOutOfRange,
			fmt.Sprintf("game already has %d of %d officials", active, g.OfficialsNeeded))
	}
	c.logger.Info("game staffed beyond officials_needed",
		slog.String("game_id", string(g.ID)),
		slog.Int("officials_needed", g.OfficialsNeeded),
		slog.Int("assigned", active+1),
	)
	return nil
}

// Details joins assignments with their games and officials. Links to
// records that no longer exist are left blank.
func Details(ctx context.Context, r storage.Reader, assignments []*model.Assignment) ([]*model.AssignmentDetail, error) {
	games, err := r.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	officials, err := r.ListOfficials(ctx)
	if err != nil {
		return nil, err
	}

	gamesByID := make(map[model.GameID]*model.Game, len(games))
	for _, g := range games {
		gamesByID[g.ID] = g
	}
	namesByID := make(map[model.OfficialID]string, len(officials))
	for _, o := range officials {
		namesByID[o.ID] = o.Name
	}

	out := make([]*model.AssignmentDetail, 0, len(assignments))
	for _, a := range assignments {
		d := &model.AssignmentDetail{Assignment: *a, OfficialName: namesByID[a.OfficialID]}
		if g, ok := gamesByID[a.GameID]; ok {
			d.GameDate = g.Date
			d.GameTime = g.Time
			d.HomeTeam = g.HomeTeam
			d.AwayTeam = g.AwayTeam
			d.Sport = g.Sport
			d.Location = g.Location
		}
		out = append(out, d)
	}
	return out, nil
}
