package location

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sportsched/internal/dependencies/mocks"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/storage"
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
	s.service = s.newService(model.DeleteBlock)
	s.ctx = context.Background()
}

func (s *ServiceSuite) newService(policy model.DeletePolicy) *Service {
	recorder := activity.NewRecorder(s.clock, s.ids)
	return New(s.storage, validation.New(), recorder, s.clock, s.ids, policy, testutil.NopLogger())
}

func ptr[T any](v T) *T { return &v }

func (s *ServiceSuite) create(name string) *model.Location {
	l, err := s.service.Create(s.ctx, model.LocationPatch{Name: ptr(name), City: ptr("Springfield")})
	s.Require().NoError(err)
	return l
}

func (s *ServiceSuite) seedGame(id model.GameID, l *model.Location, location string, status model.GameStatus) {
	err := s.storage.RunInTransaction(s.ctx, func(tx storage.Tx) error {
		g := &model.Game{ID: id, Location: location, Status: status, Date: "2025-10-01"}
		if l != nil {
			g.LocationID = l.ID
			g.Location = l.Name
		}
		return tx.SaveGame(s.ctx, g)
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCreateDefaultsToActive() {
	s.ids.QueueID("loc-1")

	l := s.create("Field A")

	s.Equal(model.LocationID("loc-1"), l.ID)
	s.True(l.IsActive)
	s.Equal("Springfield", l.City)
}

func (s *ServiceSuite) TestCreateValidatesFields() {
	_, err := s.service.Create(s.ctx, model.LocationPatch{
		Phone:    ptr("call me"),
		Email:    ptr("nobody"),
		Capacity: ptr(-5),
	})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Len(verr.Fields, 4)
}

func (s *ServiceSuite) TestNamesAreUniqueAmongActiveLocations() {
	s.create("Field A")

	_, err := s.service.Create(s.ctx, model.LocationPatch{Name: ptr("FIELD a")})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("name", verr.Fields[0].Field)
	s.Equal(model.CodeNotUnique, verr.Fields[0].Code)
}

func (s *ServiceSuite) TestInactiveLocationFreesName() {
	old := s.create("Field A")
	_, err := s.service.Update(s.ctx, old.ID, model.LocationPatch{IsActive: ptr(false)})
	s.Require().NoError(err)

	_, err = s.service.Create(s.ctx, model.LocationPatch{Name: ptr("Field A")})
	s.NoError(err)

	// Reactivating the old one now clashes
	_, err = s.service.Update(s.ctx, old.ID, model.LocationPatch{IsActive: ptr(true)})
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestUpdateKeepsOwnName() {
	l := s.create("Field A")

	updated, err := s.service.Update(s.ctx, l.ID, model.LocationPatch{Name: ptr("Field A"), Capacity: ptr(300)})
	s.Require().NoError(err)
	s.Equal(300, updated.Capacity)
}

func (s *ServiceSuite) TestRenameRefreshesLinkedGames() {
	l := s.create("Field A")
	s.seedGame("g-linked", l, "", model.GameScheduled)
	s.seedGame("g-free", nil, "Field A Annex", model.GameScheduled)

	s.clock.Advance(time.Hour)
	_, err := s.service.Update(s.ctx, l.ID, model.LocationPatch{Name: ptr("Riverside Field")})
	s.Require().NoError(err)

	linked, err := s.storage.GetGame(s.ctx, "g-linked")
	s.Require().NoError(err)
	s.Equal("Riverside Field", linked.Location)
	s.Equal(l.ID, linked.LocationID)
	s.Equal(s.clock.Now(), linked.UpdatedAt)

	free, err := s.storage.GetGame(s.ctx, "g-free")
	s.Require().NoError(err)
	s.Equal("Field A Annex", free.Location)

	var actions []string
	entries, _ := s.storage.ListActivity(s.ctx)
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	s.Equal([]string{"location.created", "location.updated", "game.updated"}, actions)
}

func (s *ServiceSuite) TestUpdateWithoutRenameLeavesGames() {
	l := s.create("Field A")
	s.seedGame("g-1", l, "", model.GameScheduled)

	_, err := s.service.Update(s.ctx, l.ID, model.LocationPatch{Capacity: ptr(120)})
	s.Require().NoError(err)

	g, err := s.storage.GetGame(s.ctx, "g-1")
	s.Require().NoError(err)
	s.Equal("Field A", g.Location)
	s.True(g.UpdatedAt.IsZero())
}

func (s *ServiceSuite) TestListSearch() {
	s.create("Field A")
	s.create("Arena")

	out, err := s.service.List(s.ctx, query.Filter{Search: "arena"}, query.Sort{})
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("Arena", out[0].Name)
}

func (s *ServiceSuite) TestDeleteUnreferenced() {
	l := s.create("Field A")

	s.Require().NoError(s.service.Delete(s.ctx, l.ID))

	_, err := s.service.Get(s.ctx, l.ID)
	s.ErrorIs(err, model.ErrLocationNotFound)
}

func (s *ServiceSuite) TestDeleteBlockedByLinkedGame() {
	l := s.create("Field A")
	s.seedGame("g-1", l, "", model.GameScheduled)

	err := s.service.Delete(s.ctx, l.ID)
	s.ErrorIs(err, model.ErrReferentialConflict)
}

func (s *ServiceSuite) TestDeleteBlockedByGameUsingName() {
	l := s.create("Field A")
	s.seedGame("g-1", nil, "field a", model.GameCompleted)

	err := s.service.Delete(s.ctx, l.ID)
	s.ErrorIs(err, model.ErrReferentialConflict)
}

func (s *ServiceSuite) TestDeleteIgnoresCancelledGames() {
	l := s.create("Field A")
	s.seedGame("g-1", l, "", model.GameCancelled)

	s.NoError(s.service.Delete(s.ctx, l.ID))

	_, err := s.storage.GetGame(s.ctx, "g-1")
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteCascadesGamesAndAssignments() {
	service := s.newService(model.DeleteCascade)
	l, err := service.Create(s.ctx, model.LocationPatch{Name: ptr("Field A")})
	s.Require().NoError(err)
	s.seedGame("g-1", l, "", model.GameScheduled)
	s.Require().NoError(s.storage.RunInTransaction(s.ctx, func(tx storage.Tx) error {
		return tx.SaveAssignment(s.ctx, &model.Assignment{ID: "a-1", GameID: "g-1", OfficialID: "o-1"})
	}))

	s.Require().NoError(service.Delete(s.ctx, l.ID))

	games, _ := s.storage.ListGames(s.ctx)
	s.Empty(games)
	assignments, _ := s.storage.ListAssignments(s.ctx)
	s.Empty(assignments)

	var actions []string
	entries, _ := s.storage.ListActivity(s.ctx)
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	s.Equal([]string{"location.created", "assignment.deleted", "game.deleted", "location.deleted"}, actions)
}
