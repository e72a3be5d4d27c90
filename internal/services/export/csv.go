package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mcoot/sportsched/internal/model"
)

// Column orders per entity kind. The header row is always written first.
var (
	GameColumns = []string{
		"id", "date", "time", "home_team", "away_team", "location", "sport",
		"league", "level", "officials_needed", "status", "notes",
	}
	OfficialColumns = []string{
		"id", "name", "email", "phone", "experience_level", "certifications",
		"rating", "availability", "is_active", "total_assignments",
	}
	AssignmentColumns = []string{
		"id", "game_id", "game_date", "home_team", "away_team", "official_id",
		"official_name", "position", "status", "assigned_date", "fee", "notes",
	}
	UserColumns = []string{
		"id", "username", "full_name", "email", "phone", "role", "is_active", "last_login",
	}
	LocationColumns = []string{
		"id", "name", "address", "city", "state", "zip", "contact_person",
		"phone", "email", "capacity", "notes",
	}
)

// Columns returns the column order for kind
func Columns(kind model.EntityKind) []string {
	switch kind {
	case model.KindGame:
		return GameColumns
	case model.KindOfficial:
		return OfficialColumns
	case model.KindAssignment:
		return AssignmentColumns
	case model.KindUser:
		return UserColumns
	case model.KindLocation:
		return LocationColumns
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeAll[T any](w io.Writer, header []string, items []T, row func(T) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write(row(item)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGames writes games as CSV
func WriteGames(w io.Writer, games []*model.Game) error {
	return writeAll(w, GameColumns, games, func(g *model.Game) []string {
		return []string{
			string(g.ID), g.Date, g.Time, g.HomeTeam, g.AwayTeam, g.Location, g.Sport,
			g.League, g.Level, strconv.Itoa(g.OfficialsNeeded), string(g.Status), g.Notes,
		}
	})
}

// WriteOfficials writes officials as CSV
func WriteOfficials(w io.Writer, officials []*model.Official) error {
	return writeAll(w, OfficialColumns, officials, func(o *model.Official) []string {
		return []string{
			string(o.ID), o.Name, o.Email, o.Phone, string(o.ExperienceLevel), o.Certifications,
			formatFloat(o.Rating), string(o.Availability), strconv.FormatBool(o.IsActive),
			strconv.Itoa(o.TotalAssignments),
		}
	})
}

// WriteAssignments writes assignments with their game and official details as CSV
func WriteAssignments(w io.Writer, details []*model.AssignmentDetail) error {
	return writeAll(w, AssignmentColumns, details, func(d *model.AssignmentDetail) []string {
		return []string{
			string(d.ID), string(d.GameID), d.GameDate, d.HomeTeam, d.AwayTeam, string(d.OfficialID),
			d.OfficialName, string(d.Position), string(d.Status), formatTime(d.AssignedDate),
			formatFloat(d.Fee), d.Notes,
		}
	})
}

// WriteUsers writes users as CSV. Password hashes are never exported.
func WriteUsers(w io.Writer, users []*model.User) error {
	return writeAll(w, UserColumns, users, func(u *model.User) []string {
		lastLogin := ""
		if u.LastLogin != nil {
			lastLogin = formatTime(*u.LastLogin)
		}
		return []string{
			string(u.ID), u.Username, u.FullName, u.Email, u.Phone, string(u.Role),
			strconv.FormatBool(u.IsActive), lastLogin,
		}
	})
}

// WriteLocations writes locations as CSV
func WriteLocations(w io.Writer, locations []*model.Location) error {
	return writeAll(w, LocationColumns, locations, func(l *model.Location) []string {
		return []string{
			string(l.ID), l.Name, l.Address, l.City, l.State, l.Zip, l.ContactPerson,
			l.Phone, l.Email, strconv.Itoa(l.Capacity), l.Notes,
		}
	})
}

// ParseOfficials reads officials written by WriteOfficials
func ParseOfficials(r io.Reader) ([]*model.Official, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header row")
	}
	if err := checkHeader(records[0], OfficialColumns); err != nil {
		return nil, err
	}

	out := make([]*model.Official, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		rating, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: rating: %w", line, err)
		}
		active, err := strconv.ParseBool(rec[8])
		if err != nil {
			return nil, fmt.Errorf("line %d: is_active: %w", line, err)
		}
		total, err := strconv.Atoi(rec[9])
		if err != nil {
			return nil, fmt.Errorf("line %d: total_assignments: %w", line, err)
		}
		out = append(out, &model.Official{
			ID:               model.OfficialID(rec[0]),
			Name:             rec[1],
			Email:            rec[2],
			Phone:            rec[3],
			ExperienceLevel:  model.ExperienceLevel(rec[4]),
			Certifications:   rec[5],
			Rating:           rating,
			Availability:     model.Availability(rec[7]),
			IsActive:         active,
			TotalAssignments: total,
		})
	}
	return out, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("header column %d is %q, want %q", i+1, got[i], want[i])
		}
	}
	return nil
}
