package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/sportsched/internal/dependencies/mocks"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/storage/memory"
	"github.com/mcoot/sportsched/internal/testutil"
	"github.com/mcoot/sportsched/internal/validation"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDs
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDs()
	recorder := activity.NewRecorder(s.clock, s.ids)
	s.service = New(s.storage, validation.New(), recorder, s.clock, s.ids, testutil.NopLogger()).
		WithHashCost(bcrypt.MinCost)
	s.ctx = context.Background()
}

func ptr[T any](v T) *T { return &v }

func (s *ServiceSuite) create(username string, role model.Role) *model.User {
	u, err := s.service.Create(s.ctx, model.UserPatch{
		Username: ptr(username),
		FullName: ptr("User " + username),
		Password: ptr("password123"),
		Role:     ptr(role),
	})
	s.Require().NoError(err)
	return u
}

// Create tests

func (s *ServiceSuite) TestCreateHashesPassword() {
	u := s.create("alice", model.RoleAdmin)

	s.NotEmpty(u.PasswordHash)
	s.NotEqual("password123", u.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
}

func (s *ServiceSuite) TestCreateNormalizesUsername() {
	u, err := s.service.Create(s.ctx, model.UserPatch{
		Username: ptr("  Alice "),
		FullName: ptr("Alice"),
		Password: ptr("password123"),
	})
	s.Require().NoError(err)

	s.Equal("alice", u.Username)
	s.Equal(model.RoleOfficial, u.Role)
	s.True(u.IsActive)
	s.Nil(u.LastLogin)
}

func (s *ServiceSuite) TestCreateRequiresPassword() {
	_, err := s.service.Create(s.ctx, model.UserPatch{Username: ptr("alice"), FullName: ptr("Alice")})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("password", verr.Fields[0].Field)
	s.Equal(model.CodeRequired, verr.Fields[0].Code)
}

func (s *ServiceSuite) TestCreateRejectsShortPassword() {
	_, err := s.service.Create(s.ctx, model.UserPatch{Username: ptr("alice"), FullName: ptr("Alice"), Password: ptr("short")})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal(model.CodeOutOfRange, verr.Fields[0].Code)
}

func (s *ServiceSuite) TestCreateCollectsAllErrors() {
	_, err := s.service.Create(s.ctx, model.UserPatch{
		Email: ptr("bad"),
		Role:  ptr(model.Role("root")),
	})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Len(verr.Fields, 5) // password, username, full_name, email, role
}

func (s *ServiceSuite) TestUsernameMustBeUnique() {
	s.create("alice", model.RoleUser)

	_, err := s.service.Create(s.ctx, model.UserPatch{
		Username: ptr("ALICE"),
		FullName: ptr("Other Alice"),
		Password: ptr("password123"),
	})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal(model.CodeNotUnique, verr.Fields[0].Code)
}

// Update tests

func (s *ServiceSuite) TestUpdateChangesPassword() {
	u := s.create("alice", model.RoleUser)
	oldHash := u.PasswordHash

	updated, err := s.service.Update(s.ctx, u.ID, model.UserPatch{Password: ptr("new-password")})
	s.Require().NoError(err)

	s.NotEqual(oldHash, updated.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")))
}

func (s *ServiceSuite) TestUpdateRenameToTakenUsername() {
	s.create("alice", model.RoleUser)
	bob := s.create("bob", model.RoleUser)

	_, err := s.service.Update(s.ctx, bob.ID, model.UserPatch{Username: ptr("alice")})
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestCannotDemoteLastSuperadmin() {
	root := s.create("root", model.RoleSuperadmin)

	_, err := s.service.Update(s.ctx, root.ID, model.UserPatch{Role: ptr(model.RoleAdmin)})
	s.ErrorIs(err, model.ErrReferentialConflict)

	_, err = s.service.Update(s.ctx, root.ID, model.UserPatch{IsActive: ptr(false)})
	s.ErrorIs(err, model.ErrReferentialConflict)

	stored, _ := s.storage.GetUser(s.ctx, root.ID)
	s.Equal(model.RoleSuperadmin, stored.Role)
	s.True(stored.IsActive)
}

func (s *ServiceSuite) TestCanDemoteSuperadminWhenAnotherExists() {
	root := s.create("root", model.RoleSuperadmin)
	s.create("root2", model.RoleSuperadmin)

	updated, err := s.service.Update(s.ctx, root.ID, model.UserPatch{Role: ptr(model.RoleAdmin)})
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, updated.Role)
}

// Delete tests

func (s *ServiceSuite) TestDeleteSoleSuperadminFails() {
	root := s.create("root", model.RoleSuperadmin)

	err := s.service.Delete(s.ctx, root.ID)
	s.ErrorIs(err, model.ErrReferentialConflict)

	_, err = s.service.Get(s.ctx, root.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteNonSoleSuperadminSucceeds() {
	root := s.create("root", model.RoleSuperadmin)
	s.create("root2", model.RoleSuperadmin)

	s.Require().NoError(s.service.Delete(s.ctx, root.ID))

	_, err := s.service.Get(s.ctx, root.ID)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestInactiveSuperadminDoesNotCount() {
	root := s.create("root", model.RoleSuperadmin)
	dormant := s.create("dormant", model.RoleSuperadmin)
	_, err := s.service.Update(s.ctx, dormant.ID, model.UserPatch{IsActive: ptr(false)})
	s.Require().NoError(err)

	s.ErrorIs(s.service.Delete(s.ctx, root.ID), model.ErrReferentialConflict)
}

func (s *ServiceSuite) TestDeleteRecordsActivity() {
	u := s.create("alice", model.RoleUser)
	s.Require().NoError(s.service.Delete(s.ctx, u.ID))

	entries, _ := s.storage.ListActivity(s.ctx)
	s.Require().Len(entries, 2)
	s.Equal("user.deleted", entries[1].Action)
}

// List tests

func (s *ServiceSuite) TestListByRole() {
	s.create("alice", model.RoleAdmin)
	s.create("bob", model.RoleOfficial)

	out, err := s.service.List(s.ctx, query.Filter{Role: model.RoleAdmin}, query.Sort{})
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("alice", out[0].Username)
}

// Bootstrap tests

func (s *ServiceSuite) TestBootstrapCreatesSuperadminOnce() {
	created, err := s.service.EnsureBootstrapAdmin(s.ctx, "Admin", "changeme123")
	s.Require().NoError(err)
	s.True(created)

	users, _ := s.storage.ListUsers(s.ctx)
	s.Require().Len(users, 1)
	s.Equal("admin", users[0].Username)
	s.Equal(model.RoleSuperadmin, users[0].Role)

	created, err = s.service.EnsureBootstrapAdmin(s.ctx, "admin", "changeme123")
	s.Require().NoError(err)
	s.False(created)
}
