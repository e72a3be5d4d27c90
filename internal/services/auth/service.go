package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles authentication and session management
type Service struct {
	storage  storage.Storage
	recorder *activity.Recorder
	clock    clock.Clock
	ids      ids.Generator
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(
	storage storage.Storage,
	recorder *activity.Recorder,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		recorder:        recorder,
		clock:           clock,
		ids:             ids,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Login authenticates an active user, stamps last_login and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, *model.User, error) {
	username = model.NormalizeUsername(username)

	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, nil, err
	}
	var found *model.User
	for _, u := range users {
		if u.Username == username {
			found = u
			break
		}
	}
	if found == nil || !found.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	var user *model.User
	err = s.storage.RunInTransaction(ctx, func(tx storage.Tx) error {
		u, err := tx.GetUser(ctx, found.ID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		u.LastLogin = &now
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		user = u
		return s.recorder.Record(ctx, tx, model.ActivityLogEntry{
			Action:     model.ActionName(model.KindUser, model.VerbLogin),
			ActorID:    u.ID,
			EntityKind: model.KindUser,
			EntityID:   string(u.ID),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", slog.String("user_id", string(user.ID)))
	return s.createSession(user.ID), user, nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Authenticate resolves a token to its user. Sessions of deleted or
// deactivated users are dropped.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}

	u, err := s.storage.GetUser(ctx, session.UserID)
	if errors.Is(err, model.ErrUserNotFound) || (err == nil && !u.IsActive) {
		s.InvalidateSession(token)
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ActiveSessions returns the number of sessions held
func (s *Service) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) createSession(userID model.UserID) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     s.ids.NewToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// CleanExpiredSessions removes expired sessions and returns how many were dropped
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
