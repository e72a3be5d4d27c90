package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sportsched/internal/dependencies/mocks"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock)
	s.ctx = context.Background()
}

func (s *ServiceSuite) seed(fn func(tx storage.Tx) error) {
	s.Require().NoError(s.storage.RunInTransaction(s.ctx, fn))
}

func (s *ServiceSuite) seedSchedule() {
	s.seed(func(tx storage.Tx) error {
		games := []*model.Game{
			{ID: "g1", Date: "2025-09-30", Sport: "Soccer", Status: model.GameScheduled},
			{ID: "g2", Date: "2025-10-01", Sport: "Soccer", Status: model.GameScheduled},
			{ID: "g3", Date: "2025-10-05", Sport: "Basketball", Status: model.GameScheduled},
			{ID: "g4", Date: "2025-10-06", Sport: "Soccer", Status: model.GameCancelled},
			{ID: "g5", Date: "2025-10-07", Sport: "Baseball", Status: model.GameScheduled},
		}
		for _, g := range games {
			if err := tx.SaveGame(s.ctx, g); err != nil {
				return err
			}
		}
		officials := []*model.Official{
			{ID: "o1", Name: "Alice", Rating: 4.0, ExperienceLevel: model.ExperienceExpert, IsActive: true},
			{ID: "o2", Name: "Bob", Rating: 4.5, ExperienceLevel: model.ExperienceBeginner, IsActive: true},
			{ID: "o3", Name: "Cara", Rating: 3.0, ExperienceLevel: model.ExperienceExpert},
			{ID: "o4", Name: "Dan", Rating: 4.5, ExperienceLevel: model.ExperienceAdvanced, IsActive: true},
		}
		for _, o := range officials {
			if err := tx.SaveOfficial(s.ctx, o); err != nil {
				return err
			}
		}
		assignments := []*model.Assignment{
			{ID: "a1", GameID: "g1", OfficialID: "o1", Status: model.AssignmentPending},
			{ID: "a2", GameID: "g2", OfficialID: "o1", Status: model.AssignmentConfirmed},
			{ID: "a3", GameID: "g3", OfficialID: "o2", Status: model.AssignmentPending},
			{ID: "a4", GameID: "g3", OfficialID: "o3", Status: model.AssignmentDeclined},
			{ID: "a5", GameID: "g5", OfficialID: "o4", Status: model.AssignmentCompleted},
		}
		for _, a := range assignments {
			if err := tx.SaveAssignment(s.ctx, a); err != nil {
				return err
			}
		}
		return tx.SaveUser(s.ctx, &model.User{ID: "u1", Username: "admin", IsActive: true})
	})
}

// Empty store

func (s *ServiceSuite) TestEmptyStoreYieldsZeroes() {
	stats, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal(DashboardStats{}, *stats)

	bySport, err := s.service.GamesBySport(s.ctx)
	s.Require().NoError(err)
	s.Empty(bySport)

	byStatus, err := s.service.AssignmentsByStatus(s.ctx)
	s.Require().NoError(err)
	s.Len(byStatus, len(model.AssignmentStatuses))
	for _, c := range byStatus {
		s.Zero(c.Count)
	}

	byExperience, err := s.service.OfficialsByExperience(s.ctx)
	s.Require().NoError(err)
	s.Len(byExperience, len(model.ExperienceLevels))

	top, err := s.service.TopOfficials(s.ctx, 5)
	s.Require().NoError(err)
	s.Empty(top)

	recent, err := s.service.RecentActivity(s.ctx, 5)
	s.Require().NoError(err)
	s.Empty(recent)
}

// Populated store

func (s *ServiceSuite) TestDashboard() {
	s.seedSchedule()

	stats, err := s.service.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Equal(DashboardStats{
		UpcomingGames:      3, // g2 (today), g3, g5
		ActiveOfficials:    3,
		TotalAssignments:   5,
		PendingAssignments: 2,
		TotalGames:         5,
		ActiveUsers:        1,
	}, *stats)
}

func (s *ServiceSuite) TestGamesBySport() {
	s.seedSchedule()

	out, err := s.service.GamesBySport(s.ctx)
	s.Require().NoError(err)

	s.Equal([]Count{
		{Key: "Soccer", Count: 3},
		{Key: "Baseball", Count: 1},
		{Key: "Basketball", Count: 1},
	}, out)
}

func (s *ServiceSuite) TestAssignmentsByStatus() {
	s.seedSchedule()

	out, err := s.service.AssignmentsByStatus(s.ctx)
	s.Require().NoError(err)

	s.Equal([]Count{
		{Key: "pending", Count: 2},
		{Key: "confirmed", Count: 1},
		{Key: "declined", Count: 1},
		{Key: "completed", Count: 1},
	}, out)
}

func (s *ServiceSuite) TestOfficialsByExperience() {
	s.seedSchedule()

	out, err := s.service.OfficialsByExperience(s.ctx)
	s.Require().NoError(err)

	s.Equal([]Count{
		{Key: "Beginner", Count: 1},
		{Key: "Intermediate", Count: 0},
		{Key: "Advanced", Count: 1},
		{Key: "Expert", Count: 2},
	}, out)
}

func (s *ServiceSuite) TestTopOfficials() {
	s.seedSchedule()

	out, err := s.service.TopOfficials(s.ctx, 3)
	s.Require().NoError(err)

	// Alice has two; Bob and Dan tie on one and on rating so name decides;
	// Cara's only assignment was declined
	s.Require().Len(out, 3)
	s.Equal(model.OfficialID("o1"), out[0].OfficialID)
	s.Equal(2, out[0].Assignments)
	s.Equal(model.OfficialID("o2"), out[1].OfficialID)
	s.Equal(model.OfficialID("o4"), out[2].OfficialID)

	all, err := s.service.TopOfficials(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(all, 4)
	s.Equal(0, all[3].Assignments)

	none, err := s.service.TopOfficials(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *ServiceSuite) TestRecentActivityNewestFirst() {
	s.seed(func(tx storage.Tx) error {
		for _, id := range []string{"e1", "e2", "e3"} {
			if err := tx.AppendActivity(s.ctx, &model.ActivityLogEntry{ID: id, Action: "game.created"}); err != nil {
				return err
			}
		}
		return nil
	})

	out, err := s.service.RecentActivity(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal("e3", out[0].ID)
	s.Equal("e2", out[1].ID)
}

func (s *ServiceSuite) TestReportsAreIdempotent() {
	s.seedSchedule()

	first, _ := s.service.GamesBySport(s.ctx)
	second, _ := s.service.GamesBySport(s.ctx)
	s.Equal(first, second)

	games, _ := s.storage.ListGames(s.ctx)
	s.Len(games, 5)
}
