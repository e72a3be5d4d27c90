// Package report computes read-only aggregates over the entity store.
package report

import (
	"cmp"
	"context"
	"slices"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/official"
	"github.com/mcoot/sportsched/internal/storage"
)

// DashboardStats summarises the current schedule
type DashboardStats struct {
	UpcomingGames      int `json:"upcoming_games"`
	ActiveOfficials    int `json:"active_officials"`
	TotalAssignments   int `json:"total_assignments"`
	PendingAssignments int `json:"pending_assignments"`
	TotalGames         int `json:"total_games"`
	ActiveUsers        int `json:"active_users"`
}

// Count is one group of a grouping report
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// OfficialRank is one row of the top officials report
type OfficialRank struct {
	OfficialID  model.OfficialID `json:"official_id"`
	Name        string           `json:"name"`
	Assignments int              `json:"assignments"`
	Rating      float64          `json:"rating"`
}

// Service computes reports. Every method tolerates an empty store.
type Service struct {
	storage storage.Reader
	clock   clock.Clock
}

// New creates a new report Service
func New(storage storage.Reader, clock clock.Clock) *Service {
	return &Service{storage: storage, clock: clock}
}

// Dashboard counts upcoming scheduled games, active officials and assignments
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	games, err := s.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	officials, err := s.storage.ListOfficials(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	today := clock.Today(s.clock)
	stats := &DashboardStats{
		TotalGames:       len(games),
		TotalAssignments: len(assignments),
	}
	for _, g := range games {
		if g.Date >= today && g.Status == model.GameScheduled {
			stats.UpcomingGames++
		}
	}
	for _, o := range officials {
		if o.IsActive {
			stats.ActiveOfficials++
		}
	}
	for _, a := range assignments {
		if a.Status == model.AssignmentPending {
			stats.PendingAssignments++
		}
	}
	for _, u := range users {
		if u.IsActive {
			stats.ActiveUsers++
		}
	}
	return stats, nil
}

// GamesBySport groups games by sport, largest group first
func (s *Service) GamesBySport(ctx context.Context) ([]Count, error) {
	games, err := s.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, g := range games {
		counts[g.Sport]++
	}

	out := make([]Count, 0, len(counts))
	for sport, n := range counts {
		out = append(out, Count{Key: sport, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Key, b.Key))
	})
	return out, nil
}

// AssignmentsByStatus counts assignments for every status, in lifecycle order
func (s *Service) AssignmentsByStatus(ctx context.Context) ([]Count, error) {
	assignments, err := s.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	return countEnum(model.AssignmentStatuses, assignments, func(a *model.Assignment) model.AssignmentStatus {
		return a.Status
	}), nil
}

// OfficialsByExperience counts officials for every experience level
func (s *Service) OfficialsByExperience(ctx context.Context) ([]Count, error) {
	officials, err := s.storage.ListOfficials(ctx)
	if err != nil {
		return nil, err
	}
	return countEnum(model.ExperienceLevels, officials, func(o *model.Official) model.ExperienceLevel {
		return o.ExperienceLevel
	}), nil
}

func countEnum[E ~string, T any](values []E, items []T, key func(T) E) []Count {
	counts := make(map[E]int, len(values))
	for _, item := range items {
		counts[key(item)]++
	}
	out := make([]Count, len(values))
	for i, v := range values {
		out[i] = Count{Key: string(v), Count: counts[v]}
	}
	return out
}

// TopOfficials ranks officials by non-declined assignment count, then rating
func (s *Service) TopOfficials(ctx context.Context, n int) ([]OfficialRank, error) {
	if n <= 0 {
		return []OfficialRank{}, nil
	}

	officials, err := s.storage.ListOfficials(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}

	counts := official.CountAssignments(assignments)
	out := make([]OfficialRank, 0, len(officials))
	for _, o := range officials {
		out = append(out, OfficialRank{
			OfficialID:  o.ID,
			Name:        o.Name,
			Assignments: counts[o.ID],
			Rating:      o.Rating,
		})
	}
	slices.SortFunc(out, func(a, b OfficialRank) int {
		return cmp.Or(
			cmp.Compare(b.Assignments, a.Assignments),
			cmp.Compare(b.Rating, a.Rating),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.OfficialID, b.OfficialID),
		)
	})
	return out[:min(n, len(out))], nil
}

// RecentActivity returns the n newest activity entries, newest first
func (s *Service) RecentActivity(ctx context.Context, n int) ([]*model.ActivityLogEntry, error) {
	if n <= 0 {
		return []*model.ActivityLogEntry{}, nil
	}

	entries, err := s.storage.ListActivity(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*model.ActivityLogEntry, 0, min(n, len(entries)))
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
