package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sportsched/internal/model"
)

type ListSuite struct {
	suite.Suite
	games []*model.Game
}

func TestListSuite(t *testing.T) {
	suite.Run(t, new(ListSuite))
}

func (s *ListSuite) SetupTest() {
	s.games = []*model.Game{
		{ID: "g1", Date: "2025-10-01", Time: "18:00", Sport: "Soccer", League: "Metro", HomeTeam: "Eagles", AwayTeam: "Hawks", Status: model.GameScheduled},
		{ID: "g2", Date: "2025-10-01", Time: "20:00", Sport: "Basketball", League: "Metro", HomeTeam: "Bulls", AwayTeam: "Bears", Status: model.GameScheduled},
		{ID: "g3", Date: "2025-09-15", Sport: "Soccer", League: "County", HomeTeam: "Lions", AwayTeam: "Tigers", Status: model.GameCompleted},
		{ID: "g4", Date: "2025-11-20", Time: "10:00", Sport: "Soccer", League: "Metro", HomeTeam: "Owls", AwayTeam: "Eagles", Status: model.GameCancelled},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func gameIDs(games []*model.Game) []string {
	return ids(games, func(g *model.Game) string { return string(g.ID) })
}

func (s *ListSuite) TestGamesDefaultOrderIsMostRecentFirst() {
	out, err := Games(s.games, Filter{}, Sort{})
	s.Require().NoError(err)
	s.Equal([]string{"g4", "g2", "g1", "g3"}, gameIDs(out))
}

func (s *ListSuite) TestGamesSportFilterIgnoresDateRange() {
	out, err := Games(s.games, Filter{Sport: "Soccer"}, Sort{})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"g1", "g3", "g4"}, gameIDs(out))

	for _, g := range out {
		s.Equal("Soccer", g.Sport)
	}
}

func (s *ListSuite) TestGamesSportWithDateRange() {
	out, err := Games(s.games, Filter{Sport: "Soccer", DateFrom: "2025-09-01", DateTo: "2025-10-31"}, Sort{})
	s.Require().NoError(err)
	s.Equal([]string{"g1", "g3"}, gameIDs(out))
}

func (s *ListSuite) TestGamesDateRangeIsInclusive() {
	out, err := Games(s.games, Filter{DateFrom: "2025-10-01", DateTo: "2025-10-01"}, Sort{})
	s.Require().NoError(err)
	s.Equal([]string{"g2", "g1"}, gameIDs(out))
}

func (s *ListSuite) TestGamesLeagueIsExactMatch() {
	out, err := Games(s.games, Filter{League: "metro"}, Sort{})
	s.Require().NoError(err)
	s.Empty(out)
}

func (s *ListSuite) TestGamesSortOverride() {
	out, err := Games(s.games, Filter{}, Sort{Field: "home_team"})
	s.Require().NoError(err)
	s.Equal([]string{"g2", "g1", "g3", "g4"}, gameIDs(out))

	out, err = Games(s.games, Filter{}, Sort{Field: "date", Desc: false})
	s.Require().NoError(err)
	s.Equal([]string{"g3", "g1", "g2", "g4"}, gameIDs(out))
}

func (s *ListSuite) TestGamesUnknownSortField() {
	_, err := Games(s.games, Filter{}, Sort{Field: "colour"})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal(ParamSort, verr.Fields[0].Field)
}

func (s *ListSuite) TestGamesInvalidDates() {
	_, err := Games(s.games, Filter{DateFrom: "01/10/2025", DateTo: "2025-13-01"}, Sort{})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Len(verr.Fields, 2)
	s.Equal(model.CodeInvalidFormat, verr.Fields[0].Code)
}

func (s *ListSuite) TestGamesReversedRange() {
	_, err := Games(s.games, Filter{DateFrom: "2025-10-02", DateTo: "2025-10-01"}, Sort{})

	var verr *model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal(model.CodeOutOfRange, verr.Fields[0].Code)
}

func (s *ListSuite) TestGamesDoesNotMutateInput() {
	_, err := Games(s.games, Filter{}, Sort{Field: "sport"})
	s.Require().NoError(err)
	s.Equal([]string{"g1", "g2", "g3", "g4"}, gameIDs(s.games))
}

func TestOfficialsSearchIsCaseInsensitive(t *testing.T) {
	officials := []*model.Official{
		{ID: "o1", Name: "Jane Smith", Email: "jane@x.com", Certifications: "FIFA Grade 2", ExperienceLevel: model.ExperienceExpert, IsActive: true},
		{ID: "o2", Name: "Bob Jones", Email: "bob@x.com", Certifications: "USSF", ExperienceLevel: model.ExperienceBeginner},
		{ID: "o3", Name: "Alice Brown", Email: "SMITHY@x.com", ExperienceLevel: model.ExperienceExpert, IsActive: true},
	}

	out, err := Officials(officials, Filter{Search: "SMITH"}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"o3", "o1"}, ids(out, func(o *model.Official) string { return string(o.ID) }))

	out, err = Officials(officials, Filter{Search: "fifa"}, Sort{})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = Officials(officials, Filter{ExperienceLevel: model.ExperienceExpert}, Sort{Field: "name", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o3"}, ids(out, func(o *model.Official) string { return string(o.ID) }))

	inactive := false
	out, err = Officials(officials, Filter{Active: &inactive}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"o2"}, ids(out, func(o *model.Official) string { return string(o.ID) }))
}

func TestOfficialsRejectsUnknownExperience(t *testing.T) {
	_, err := Officials(nil, Filter{ExperienceLevel: "Legendary"}, Sort{})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.CodeInvalidEnumValue, verr.Fields[0].Code)
}

func TestAssignmentsFilterOnGameDate(t *testing.T) {
	details := []*model.AssignmentDetail{
		{Assignment: model.Assignment{ID: "a1", Status: model.AssignmentPending, GameID: "g1"}, GameDate: "2025-10-01"},
		{Assignment: model.Assignment{ID: "a2", Status: model.AssignmentConfirmed, GameID: "g2"}, GameDate: "2025-10-05"},
		{Assignment: model.Assignment{ID: "a3", Status: model.AssignmentPending, GameID: "g3"}, GameDate: "2025-09-01"},
	}
	idOf := func(d *model.AssignmentDetail) string { return string(d.ID) }

	out, err := Assignments(details, Filter{}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1", "a3"}, ids(out, idOf))

	out, err = Assignments(details, Filter{Status: "pending", DateFrom: "2025-09-15"}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids(out, idOf))

	out, err = Assignments(details, Filter{GameID: "g3"}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a3"}, ids(out, idOf))

	_, err = Assignments(details, Filter{Status: "scheduled"}, Sort{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUsersSearchAndRole(t *testing.T) {
	users := []*model.User{
		{ID: "u1", Username: "admin", FullName: "Site Admin", Role: model.RoleSuperadmin, IsActive: true},
		{ID: "u2", Username: "jdoe", FullName: "Jane Doe", Email: "jane@club.org", Role: model.RoleOfficial, IsActive: true},
		{ID: "u3", Username: "kdoe", FullName: "Jane Doe", Role: model.RoleUser},
	}
	idOf := func(u *model.User) string { return string(u.ID) }

	out, err := Users(users, Filter{}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3", "u1"}, ids(out, idOf))

	out, err = Users(users, Filter{Search: "CLUB"}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, ids(out, idOf))

	out, err = Users(users, Filter{Role: model.RoleSuperadmin}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids(out, idOf))

	_, err = Users(users, Filter{Role: "root"}, Sort{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestLocationsSearchNameAndCity(t *testing.T) {
	locations := []*model.Location{
		{ID: "l1", Name: "Field A", City: "Springfield", IsActive: true},
		{ID: "l2", Name: "Arena", City: "Shelbyville", IsActive: true},
		{ID: "l3", Name: "Old Ground", City: "Springfield"},
	}
	idOf := func(l *model.Location) string { return string(l.ID) }

	out, err := Locations(locations, Filter{Search: "springfield"}, Sort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l3"}, ids(out, idOf))

	out, err = Locations(locations, Filter{}, Sort{Field: "city", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l3", "l2"}, ids(out, idOf))
}

func TestFromValuesRoundTrip(t *testing.T) {
	active := true
	f := Filter{Search: "smith", DateFrom: "2025-01-01", Sport: "Soccer", Role: model.RoleAdmin, Active: &active}
	s := Sort{Field: "date", Desc: true}

	gotF, gotS, err := FromValues(f.Values(s))
	require.NoError(t, err)
	assert.Equal(t, f, gotF)
	assert.Equal(t, s, gotS)
}

func TestFromValuesRejectsBadActive(t *testing.T) {
	_, _, err := FromValues(url.Values{ParamActive: {"maybe"}})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, Sort{Field: "name"}, ParseSort("name"))
	assert.Equal(t, Sort{Field: "name", Desc: true}, ParseSort(" -name "))
	assert.Equal(t, Sort{}, ParseSort(""))
}
