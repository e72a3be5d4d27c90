// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
)

// Suite runs backend-agnostic storage checks. NewStorage must return an
// empty store; it is called once per test.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
}

var errAbort = errors.New("abort")

func (s *Suite) SetupTest() {
	s.store = s.NewStorage(s.T())
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *Suite) save(fn func(tx storage.Tx) error) {
	s.Require().NoError(s.store.RunInTransaction(s.ctx, fn))
}

func sampleGame(id model.GameID, date string) *model.Game {
	return &model.Game{
		ID:              id,
		Date:            date,
		HomeTeam:        "Eagles",
		AwayTeam:        "Hawks",
		Location:        "Field A",
		Sport:           "Soccer",
		OfficialsNeeded: 1,
		Status:          model.GameScheduled,
		CreatedAt:       time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *Suite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

func (s *Suite) TestSaveAndGetEachKind() {
	login := time.Date(2025, 9, 2, 8, 30, 0, 0, time.UTC)
	s.save(func(tx storage.Tx) error {
		s.Require().NoError(tx.SaveLocation(s.ctx, &model.Location{ID: "loc-1", Name: "Field A", Capacity: 200, IsActive: true}))
		s.Require().NoError(tx.SaveOfficial(s.ctx, &model.Official{ID: "off-1", Name: "J. Smith", Email: "j@x.com", Rating: 4.25}))
		s.Require().NoError(tx.SaveGame(s.ctx, sampleGame("game-1", "2025-10-01")))
		s.Require().NoError(tx.SaveUser(s.ctx, &model.User{ID: "user-1", Username: "admin", Role: model.RoleSuperadmin, LastLogin: &login}))
		return tx.SaveAssignment(s.ctx, &model.Assignment{ID: "asg-1", GameID: "game-1", OfficialID: "off-1", Position: model.PositionReferee, Status: model.AssignmentPending, Fee: 45.5})
	})

	loc, err := s.store.GetLocation(s.ctx, "loc-1")
	s.Require().NoError(err)
	s.Equal("Field A", loc.Name)
	s.Equal(200, loc.Capacity)

	off, err := s.store.GetOfficial(s.ctx, "off-1")
	s.Require().NoError(err)
	s.Equal(4.25, off.Rating)

	game, err := s.store.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal("2025-10-01", game.Date)
	s.True(game.CreatedAt.Equal(time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)))

	user, err := s.store.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(user.LastLogin)
	s.True(user.LastLogin.Equal(login))

	asg, err := s.store.GetAssignment(s.ctx, "asg-1")
	s.Require().NoError(err)
	s.Equal(model.AssignmentPending, asg.Status)
	s.Equal(45.5, asg.Fee)
}

func (s *Suite) TestGetMissingReturnsKindNotFound() {
	_, err := s.store.GetLocation(s.ctx, "nope")
	s.ErrorIs(err, model.ErrLocationNotFound)
	_, err = s.store.GetOfficial(s.ctx, "nope")
	s.ErrorIs(err, model.ErrOfficialNotFound)
	_, err = s.store.GetGame(s.ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.store.GetUser(s.ctx, "nope")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.store.GetAssignment(s.ctx, "nope")
	s.ErrorIs(err, model.ErrAssignmentNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestSaveOverwritesInPlace() {
	s.save(func(tx storage.Tx) error {
		return tx.SaveGame(s.ctx, sampleGame("game-1", "2025-10-01"))
	})
	s.save(func(tx storage.Tx) error {
		g, err := tx.GetGame(s.ctx, "game-1")
		if err != nil {
			return err
		}
		g.Status = model.GameCompleted
		return tx.SaveGame(s.ctx, g)
	})

	games, err := s.store.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameCompleted, games[0].Status)
}

func (s *Suite) TestListOrderedByID() {
	s.save(func(tx storage.Tx) error {
		for _, id := range []model.GameID{"game-c", "game-a", "game-b"} {
			if err := tx.SaveGame(s.ctx, sampleGame(id, "2025-10-01")); err != nil {
				return err
			}
		}
		return nil
	})

	games, err := s.store.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal(model.GameID("game-a"), games[0].ID)
	s.Equal(model.GameID("game-b"), games[1].ID)
	s.Equal(model.GameID("game-c"), games[2].ID)
}

func (s *Suite) TestListEmpty() {
	officials, err := s.store.ListOfficials(s.ctx)
	s.Require().NoError(err)
	s.Empty(officials)

	activity, err := s.store.ListActivity(s.ctx)
	s.Require().NoError(err)
	s.Empty(activity)
}

func (s *Suite) TestDelete() {
	s.save(func(tx storage.Tx) error {
		return tx.SaveOfficial(s.ctx, &model.Official{ID: "off-1", Name: "J. Smith"})
	})
	s.save(func(tx storage.Tx) error {
		return tx.DeleteOfficial(s.ctx, "off-1")
	})

	_, err := s.store.GetOfficial(s.ctx, "off-1")
	s.ErrorIs(err, model.ErrOfficialNotFound)
	officials, err := s.store.ListOfficials(s.ctx)
	s.Require().NoError(err)
	s.Empty(officials)
}

func (s *Suite) TestDeleteMissingReturnsNotFound() {
	err := s.store.RunInTransaction(s.ctx, func(tx storage.Tx) error {
		return tx.DeleteAssignment(s.ctx, "nope")
	})
	s.ErrorIs(err, model.ErrAssignmentNotFound)
}

func (s *Suite) TestFailedTransactionLeavesNoWrites() {
	s.save(func(tx storage.Tx) error {
		return tx.SaveGame(s.ctx, sampleGame("game-1", "2025-10-01"))
	})

	err := s.store.RunInTransaction(s.ctx, func(tx storage.Tx) error {
		if err := tx.SaveGame(s.ctx, sampleGame("game-2", "2025-10-02")); err != nil {
			return err
		}
		if err := tx.DeleteGame(s.ctx, "game-1"); err != nil {
			return err
		}
		if err := tx.AppendActivity(s.ctx, &model.ActivityLogEntry{ID: "act-1", Action: "game.created"}); err != nil {
			return err
		}
		return errAbort
	})
	s.ErrorIs(err, errAbort)

	games, err := s.store.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-1"), games[0].ID)

	activity, err := s.store.ListActivity(s.ctx)
	s.Require().NoError(err)
	s.Empty(activity)
}

func (s *Suite) TestTransactionReadsItsOwnWrites() {
	s.save(func(tx storage.Tx) error {
		return tx.SaveGame(s.ctx, sampleGame("game-1", "2025-10-01"))
	})

	s.save(func(tx storage.Tx) error {
		if err := tx.SaveGame(s.ctx, sampleGame("game-2", "2025-10-02")); err != nil {
			return err
		}
		if err := tx.DeleteGame(s.ctx, "game-1"); err != nil {
			return err
		}

		games, err := tx.ListGames(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(games, 1)
		s.Equal(model.GameID("game-2"), games[0].ID)

		_, err = tx.GetGame(s.ctx, "game-1")
		s.ErrorIs(err, model.ErrGameNotFound)

		if err := tx.AppendActivity(s.ctx, &model.ActivityLogEntry{ID: "act-1"}); err != nil {
			return err
		}
		activity, err := tx.ListActivity(s.ctx)
		s.Require().NoError(err)
		s.Len(activity, 1)
		return nil
	})
}

func (s *Suite) TestActivityAppendOrder() {
	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	s.save(func(tx storage.Tx) error {
		for i, id := range []string{"act-z", "act-a", "act-m"} {
			entry := &model.ActivityLogEntry{
				ID:         id,
				Action:     "assignment.transitioned",
				ActorID:    "user-1",
				EntityKind: model.KindAssignment,
				EntityID:   "asg-1",
				FromStatus: model.AssignmentPending,
				ToStatus:   model.AssignmentConfirmed,
				Timestamp:  base.Add(time.Duration(i) * time.Minute),
			}
			if err := tx.AppendActivity(s.ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	s.save(func(tx storage.Tx) error {
		return tx.AppendActivity(s.ctx, &model.ActivityLogEntry{ID: "act-b", Timestamp: base.Add(time.Hour)})
	})

	activity, err := s.store.ListActivity(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(activity, 4)
	s.Equal("act-z", activity[0].ID)
	s.Equal("act-a", activity[1].ID)
	s.Equal("act-m", activity[2].ID)
	s.Equal("act-b", activity[3].ID)
	s.Equal(model.AssignmentConfirmed, activity[0].ToStatus)
}

func (s *Suite) TestReadOnlyTransactionCommitsNothing() {
	err := s.store.RunInTransaction(s.ctx, func(tx storage.Tx) error {
		_, err := tx.ListUsers(s.ctx)
		return err
	})
	s.NoError(err)
}
