package user

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/validation"
)

// MinPasswordLength is the shortest password accepted
const MinPasswordLength = 8

// bcrypt rejects longer inputs
const maxPasswordBytes = 72

// Service manages user accounts
type Service struct {
	storage   storage.Storage
	validator *validation.Validator
	recorder  *activity.Recorder
	clock     clock.Clock
	ids       ids.Generator
	logger    *slog.Logger
	hashCost  int
}

// New creates a new user Service
func New(
	storage storage.Storage,
	validator *validation.Validator,
	recorder *activity.Recorder,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		validator: validator,
		recorder:  recorder,
		clock:     clock,
		ids:       ids,
		logger:    logger,
		hashCost:  bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

// Create validates and stores a new account. The password is required and
// stored only as a bcrypt hash. Role defaults to official.
func (s *Service) Create(ctx context.Context, patch model.UserPatch) (*model.User, error) {
	now := s.clock.Now()
	u := &model.User{
		ID:        model.UserID(s.ids.NewID()),
		Role:      model.RoleOfficial,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(u)

	var errs model.FieldErrors
	if patch.Password == nil {
		errs.Add("password", model.CodeRequired, "is required")
	}

	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		errs = append(errs, s.validator.Check(u)...)
		if err := checkUsername(ctx, tx, u, &errs); err != nil {
			return err
		}
		if err := s.setPassword(u, patch.Password, &errs); err != nil {
			return err
		}
		if err := errs.Err(); err != nil {
			return err
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		return s.recorder.Entity(ctx, tx, model.KindUser, model.VerbCreated, string(u.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", string(u.ID)),
		slog.String("username", u.Username),
		slog.String("role", string(u.Role)),
	)
	return u, nil
}

func (s *Service) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

func (s *Service) List(ctx context.Context, f query.Filter, sort query.Sort) ([]*model.User, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return query.Users(users, f, sort)
}

// Update applies the supplied fields. Demoting or deactivating the last
// active superadmin fails with a referential conflict.
func (s *Service) Update(ctx context.Context, id model.UserID, patch model.UserPatch) (*model.User, error) {
	var updated *model.User
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		u, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		wasSuperadmin := u.IsActiveSuperadmin()
		patch.Apply(u)

		errs := s.validator.Check(u)
		if patch.Username != nil {
			if err := checkUsername(ctx, tx, u, &errs); err != nil {
				return err
			}
		}
		if patch.Password != nil {
			if err := s.setPassword(u, patch.Password, &errs); err != nil {
				return err
			}
		}
		if err := errs.Err(); err != nil {
			return err
		}

		if wasSuperadmin && !u.IsActiveSuperadmin() {
			if err := requireAnotherSuperadmin(ctx, tx, u.ID); err != nil {
				return err
			}
		}

		u.UpdatedAt = s.clock.Now()
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		updated = u
		return s.recorder.Entity(ctx, tx, model.KindUser, model.VerbUpdated, string(u.ID))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an account. The last active superadmin cannot be deleted.
func (s *Service) Delete(ctx context.Context, id model.UserID) error {
	err := s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		u, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if u.IsActiveSuperadmin() {
			if err := requireAnotherSuperadmin(ctx, tx, u.ID); err != nil {
				return err
			}
		}
		if err := tx.DeleteUser(ctx, id); err != nil {
			return err
		}
		return s.recorder.Entity(ctx, tx, model.KindUser, model.VerbDeleted, string(id))
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.String("user_id", string(id)))
	return nil
}

// EnsureBootstrapAdmin creates a superadmin when no accounts exist yet.
// It reports whether an account was created.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}

	role := model.RoleSuperadmin
	fullName := "Administrator"
	if _, err := s.Create(ctx, model.UserPatch{
		Username: &username,
		FullName: &fullName,
		Password: &password,
		Role:     &role,
	}); err != nil {
		return false, err
	}

	s.logger.Warn("bootstrap superadmin created", slog.String("username", model.NormalizeUsername(username)))
	return true, nil
}

func (s *Service) setPassword(u *model.User, password *string, errs *model.FieldErrors) error {
	if password == nil {
		return nil
	}
	switch {
	case utf8.RuneCountInString(*password) < MinPasswordLength:
		errs.Add("password", model.CodeOutOfRange, "must be at least 8 characters")
		return nil
	case len(*password) > maxPasswordBytes:
		errs.Add("password", model.CodeOutOfRange, "must be at most 72 bytes")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), s.hashCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// checkUsername enforces unique usernames
func checkUsername(ctx context.Context, tx storage.Tx, u *model.User, errs *model.FieldErrors) error {
	if u.Username == "" {
		return nil
	}
	users, err := tx.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, other := range users {
		if other.ID != u.ID && other.Username == u.Username {
			errs.Add("username", model.CodeNotUnique, "username already exists")
			return nil
		}
	}
	return nil
}

func requireAnotherSuperadmin(ctx context.Context, tx storage.Tx, id model.UserID) error {
	users, err := tx.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, other := range users {
		if other.ID != id && other.IsActiveSuperadmin() {
			return nil
		}
	}
	return model.NewConflictError("user %s is the last active superadmin", id)
}
