package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/sportsched/internal/archive"
	"github.com/mcoot/sportsched/internal/dependencies/mocks"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/assignment"
	"github.com/mcoot/sportsched/internal/services/auth"
	"github.com/mcoot/sportsched/internal/storage/memory"
	"github.com/mcoot/sportsched/internal/testutil"
)

// TestPassword is the password given to users created by CreateUser
const TestPassword = "correct-horse"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockIDs      *mocks.MockIDs
	ArchiveStore *archive.MemoryStore
}

// TestOptions adjusts the rules a TestApp is built with
type TestOptions struct {
	DeletePolicy model.DeletePolicy
	Assignments  assignment.Config
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithOptions(TestOptions{})
}

// NewTestAppWithOptions creates a test App with the given rules
func NewTestAppWithOptions(opts TestOptions) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()
	archiveStore := archive.NewMemoryStore()

	policy := opts.DeletePolicy
	if policy == "" {
		policy = model.DeleteBlock
	}

	app := newWithDependencies(store, mockClock, mockIDs, archiveStore, policy, opts.Assignments, auth.DefaultConfig(), testutil.NopLogger())
	app.Users.WithHashCost(bcrypt.MinCost)

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockIDs:      mockIDs,
		ArchiveStore: archiveStore,
	}
}

// CreateUser adds an active user with TestPassword
func (t *TestApp) CreateUser(ctx context.Context, username string, role model.Role) (*model.User, error) {
	password := TestPassword
	fullName := username
	return t.Users.Create(ctx, model.UserPatch{
		Username: &username,
		FullName: &fullName,
		Password: &password,
		Role:     &role,
	})
}

// Login creates a user with the given role and returns a session token for it
func (t *TestApp) Login(ctx context.Context, username string, role model.Role) (string, error) {
	if _, err := t.CreateUser(ctx, username, role); err != nil {
		return "", err
	}
	session, _, err := t.Auth.Login(ctx, username, TestPassword)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}
