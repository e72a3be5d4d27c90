package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mcoot/sportsched/internal/model"
)

type compareFunc[T any] func(a, b T) int

// sorter orders one kind: named override fields, a default order, and the ID tie-breaker
type sorter[T any] struct {
	fields    map[string]compareFunc[T]
	byDefault compareFunc[T]
	id        func(T) string
}

func (s sorter[T]) apply(items []T, override Sort) error {
	order := s.byDefault
	if override.Field != "" {
		field, ok := s.fields[override.Field]
		if !ok {
			return model.NewValidationError(ParamSort, model.CodeInvalid,
				fmt.Sprintf("unknown sort field %q (allowed: %s)", override.Field, strings.Join(s.fieldNames(), ", ")))
		}
		order = field
		if override.Desc {
			order = func(a, b T) int { return field(b, a) }
		}
	}

	slices.SortStableFunc(items, func(a, b T) int {
		if c := order(a, b); c != 0 {
			return c
		}
		return cmp.Compare(s.id(a), s.id(b))
	})
	return nil
}

func (s sorter[T]) fieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SortFields lists the sort fields accepted for kind
func SortFields(kind model.EntityKind) []string {
	switch kind {
	case model.KindGame:
		return gameSorter.fieldNames()
	case model.KindOfficial:
		return officialSorter.fieldNames()
	case model.KindAssignment:
		return assignmentSorter.fieldNames()
	case model.KindUser:
		return userSorter.fieldNames()
	case model.KindLocation:
		return locationSorter.fieldNames()
	}
	return nil
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Games

var gameSorter = sorter[*model.Game]{
	fields: map[string]compareFunc[*model.Game]{
		"date":       compareGameSchedule,
		"home_team":  func(a, b *model.Game) int { return cmp.Compare(a.HomeTeam, b.HomeTeam) },
		"away_team":  func(a, b *model.Game) int { return cmp.Compare(a.AwayTeam, b.AwayTeam) },
		"sport":      func(a, b *model.Game) int { return cmp.Compare(a.Sport, b.Sport) },
		"league":     func(a, b *model.Game) int { return cmp.Compare(a.League, b.League) },
		"location":   func(a, b *model.Game) int { return cmp.Compare(a.Location, b.Location) },
		"status":     func(a, b *model.Game) int { return cmp.Compare(a.Status, b.Status) },
		"created_at": func(a, b *model.Game) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	// Most recent first
	byDefault: func(a, b *model.Game) int { return compareGameSchedule(b, a) },
	id:        func(g *model.Game) string { return string(g.ID) },
}

func compareGameSchedule(a, b *model.Game) int {
	return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
}

// Games returns the games matching f in the requested order
func Games(games []*model.Game, f Filter, s Sort) ([]*model.Game, error) {
	if err := f.Validate(model.KindGame); err != nil {
		return nil, err
	}
	out := filter(games, func(g *model.Game) bool {
		return f.inDateRange(g.Date) &&
			(f.Sport == "" || g.Sport == f.Sport) &&
			(f.League == "" || g.League == f.League) &&
			(f.Status == "" || string(g.Status) == f.Status) &&
			f.matchesSearch(g.HomeTeam, g.AwayTeam, g.Location, g.Sport, g.League)
	})
	if err := gameSorter.apply(out, s); err != nil {
		return nil, err
	}
	return out, nil
}

// Officials

var officialSorter = sorter[*model.Official]{
	fields: map[string]compareFunc[*model.Official]{
		"name":   func(a, b *model.Official) int { return cmp.Compare(a.Name, b.Name) },
		"email":  func(a, b *model.Official) int { return cmp.Compare(a.Email, b.Email) },
		"rating": func(a, b *model.Official) int { return cmp.Compare(a.Rating, b.Rating) },
		"experience_level": func(a, b *model.Official) int {
			return cmp.Compare(experienceRank(a.ExperienceLevel), experienceRank(b.ExperienceLevel))
		},
		"total_assignments": func(a, b *model.Official) int { return cmp.Compare(a.TotalAssignments, b.TotalAssignments) },
		"created_at":        func(a, b *model.Official) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	byDefault: func(a, b *model.Official) int { return cmp.Compare(a.Name, b.Name) },
	id:        func(o *model.Official) string { return string(o.ID) },
}

func experienceRank(e model.ExperienceLevel) int {
	return slices.Index(model.ExperienceLevels, e)
}

// Officials returns the officials matching f in the requested order
func Officials(officials []*model.Official, f Filter, s Sort) ([]*model.Official, error) {
	if err := f.Validate(model.KindOfficial); err != nil {
		return nil, err
	}
	out := filter(officials, func(o *model.Official) bool {
		return (f.ExperienceLevel == "" || o.ExperienceLevel == f.ExperienceLevel) &&
			f.matchesActive(o.IsActive) &&
			f.matchesSearch(o.Name, o.Email, o.Certifications)
	})
	if err := officialSorter.apply(out, s); err != nil {
		return nil, err
	}
	return out, nil
}

// Assignments

var assignmentSorter = sorter[*model.AssignmentDetail]{
	fields: map[string]compareFunc[*model.AssignmentDetail]{
		"game_date":     compareAssignmentSchedule,
		"status":        func(a, b *model.AssignmentDetail) int { return cmp.Compare(a.Status, b.Status) },
		"position":      func(a, b *model.AssignmentDetail) int { return cmp.Compare(a.Position, b.Position) },
		"official_name": func(a, b *model.AssignmentDetail) int { return cmp.Compare(a.OfficialName, b.OfficialName) },
		"fee":           func(a, b *model.AssignmentDetail) int { return cmp.Compare(a.Fee, b.Fee) },
		"assigned_date": func(a, b *model.AssignmentDetail) int { return a.AssignedDate.Compare(b.AssignedDate) },
	},
	byDefault: func(a, b *model.AssignmentDetail) int { return compareAssignmentSchedule(b, a) },
	id:        func(d *model.AssignmentDetail) string { return string(d.ID) },
}

func compareAssignmentSchedule(a, b *model.AssignmentDetail) int {
	return cmp.Or(cmp.Compare(a.GameDate, b.GameDate), cmp.Compare(a.GameTime, b.GameTime))
}

// Assignments returns the assignments matching f in the requested order.
// Date bounds apply to the linked game's date.
func Assignments(details []*model.AssignmentDetail, f Filter, s Sort) ([]*model.AssignmentDetail, error) {
	if err := f.Validate(model.KindAssignment); err != nil {
		return nil, err
	}
	out := filter(details, func(d *model.AssignmentDetail) bool {
		return f.inDateRange(d.GameDate) &&
			(f.Status == "" || string(d.Status) == f.Status) &&
			(f.GameID == "" || d.GameID == f.GameID) &&
			(f.OfficialID == "" || d.OfficialID == f.OfficialID) &&
			f.matchesSearch(d.OfficialName, d.HomeTeam, d.AwayTeam, d.Location)
	})
	if err := assignmentSorter.apply(out, s); err != nil {
		return nil, err
	}
	return out, nil
}

// Users

var userSorter = sorter[*model.User]{
	fields: map[string]compareFunc[*model.User]{
		"username":   func(a, b *model.User) int { return cmp.Compare(a.Username, b.Username) },
		"full_name":  compareUserName,
		"role":       func(a, b *model.User) int { return cmp.Compare(a.Role, b.Role) },
		"created_at": func(a, b *model.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	byDefault: compareUserName,
	id:        func(u *model.User) string { return string(u.ID) },
}

func compareUserName(a, b *model.User) int {
	return cmp.Or(cmp.Compare(a.FullName, b.FullName), cmp.Compare(a.Username, b.Username))
}

// Users returns the users matching f in the requested order
func Users(users []*model.User, f Filter, s Sort) ([]*model.User, error) {
	if err := f.Validate(model.KindUser); err != nil {
		return nil, err
	}
	out := filter(users, func(u *model.User) bool {
		return (f.Role == "" || u.Role == f.Role) &&
			f.matchesActive(u.IsActive) &&
			f.matchesSearch(u.Username, u.FullName, u.Email)
	})
	if err := userSorter.apply(out, s); err != nil {
		return nil, err
	}
	return out, nil
}

// Locations

var locationSorter = sorter[*model.Location]{
	fields: map[string]compareFunc[*model.Location]{
		"name":       func(a, b *model.Location) int { return cmp.Compare(a.Name, b.Name) },
		"city":       func(a, b *model.Location) int { return cmp.Compare(a.City, b.City) },
		"capacity":   func(a, b *model.Location) int { return cmp.Compare(a.Capacity, b.Capacity) },
		"created_at": func(a, b *model.Location) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	byDefault: func(a, b *model.Location) int { return cmp.Compare(a.Name, b.Name) },
	id:        func(l *model.Location) string { return string(l.ID) },
}

// Locations returns the locations matching f in the requested order
func Locations(locations []*model.Location, f Filter, s Sort) ([]*model.Location, error) {
	if err := f.Validate(model.KindLocation); err != nil {
		return nil, err
	}
	out := filter(locations, func(l *model.Location) bool {
		return f.matchesActive(l.IsActive) && f.matchesSearch(l.Name, l.City)
	})
	if err := locationSorter.apply(out, s); err != nil {
		return nil, err
	}
	return out, nil
}
