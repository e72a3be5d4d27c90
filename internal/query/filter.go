// Package query filters and orders entity lists.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/mcoot/sportsched/internal/model"
)

// Filter holds every supported predicate. Zero-valued fields match everything;
// fields that do not apply to a kind are ignored.
type Filter struct {
	// Search is a case-insensitive substring over each kind's text fields
	Search string

	// DateFrom and DateTo bound a game date (or an assignment's game date), inclusive
	DateFrom string
	DateTo   string

	Sport  string
	League string

	ExperienceLevel model.ExperienceLevel
	// Status matches a game status or an assignment status depending on the kind
	Status string
	Role   model.Role

	GameID     model.GameID
	OfficialID model.OfficialID

	Active *bool
}

// Sort overrides a list's default order
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort reads "field" or "-field" (descending)
func ParseSort(s string) Sort {
	s = strings.TrimSpace(s)
	if field, ok := strings.CutPrefix(s, "-"); ok {
		return Sort{Field: field, Desc: true}
	}
	return Sort{Field: s}
}

func (s Sort) String() string {
	if s.Field == "" {
		return ""
	}
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// Query parameter names
const (
	ParamSearch          = "search"
	ParamDateFrom        = "date_from"
	ParamDateTo          = "date_to"
	ParamSport           = "sport"
	ParamLeague          = "league"
	ParamExperienceLevel = "experience_level"
	ParamStatus          = "status"
	ParamRole            = "role"
	ParamGameID          = "game_id"
	ParamOfficialID      = "official_id"
	ParamActive          = "active"
	ParamSort            = "sort"
)

// FromValues reads a filter and sort from URL query parameters
func FromValues(v url.Values) (Filter, Sort, error) {
	f := Filter{
		Search:          strings.TrimSpace(v.Get(ParamSearch)),
		DateFrom:        strings.TrimSpace(v.Get(ParamDateFrom)),
		DateTo:          strings.TrimSpace(v.Get(ParamDateTo)),
		Sport:           strings.TrimSpace(v.Get(ParamSport)),
		League:          strings.TrimSpace(v.Get(ParamLeague)),
		ExperienceLevel: model.ExperienceLevel(strings.TrimSpace(v.Get(ParamExperienceLevel))),
		Status:          strings.TrimSpace(v.Get(ParamStatus)),
		Role:            model.Role(strings.TrimSpace(v.Get(ParamRole))),
		GameID:          model.GameID(strings.TrimSpace(v.Get(ParamGameID))),
		OfficialID:      model.OfficialID(strings.TrimSpace(v.Get(ParamOfficialID))),
	}

	if raw := strings.TrimSpace(v.Get(ParamActive)); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return Filter{}, Sort{}, model.NewValidationError(ParamActive, model.CodeInvalidFormat, "must be true or false")
		}
		f.Active = &active
	}

	return f, ParseSort(v.Get(ParamSort)), nil
}

// Values encodes the filter and sort as URL query parameters
func (f Filter) Values(s Sort) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(ParamSearch, f.Search)
	set(ParamDateFrom, f.DateFrom)
	set(ParamDateTo, f.DateTo)
	set(ParamSport, f.Sport)
	set(ParamLeague, f.League)
	set(ParamExperienceLevel, string(f.ExperienceLevel))
	set(ParamStatus, f.Status)
	set(ParamRole, string(f.Role))
	set(ParamGameID, string(f.GameID))
	set(ParamOfficialID, string(f.OfficialID))
	if f.Active != nil {
		v.Set(ParamActive, strconv.FormatBool(*f.Active))
	}
	set(ParamSort, s.String())
	return v
}

// Validate checks the predicates that apply to kind
func (f Filter) Validate(kind model.EntityKind) error {
	var errs model.FieldErrors

	if kind == model.KindGame || kind == model.KindAssignment {
		from, fromOK := checkDate(&errs, ParamDateFrom, f.DateFrom)
		to, toOK := checkDate(&errs, ParamDateTo, f.DateTo)
		if fromOK && toOK && f.DateFrom != "" && f.DateTo != "" && from.After(to) {
			errs.Add(ParamDateTo, model.CodeOutOfRange, "must not be before date_from")
		}
	}

	switch kind {
	case model.KindGame:
		if f.Status != "" && !model.GameStatus(f.Status).IsValid() {
			errs.Add(ParamStatus, model.CodeInvalidEnumValue, enumReason(model.GameStatuses))
		}
	case model.KindAssignment:
		if f.Status != "" && !model.AssignmentStatus(f.Status).IsValid() {
			errs.Add(ParamStatus, model.CodeInvalidEnumValue, enumReason(model.AssignmentStatuses))
		}
	case model.KindOfficial:
		if f.ExperienceLevel != "" && !f.ExperienceLevel.IsValid() {
			errs.Add(ParamExperienceLevel, model.CodeInvalidEnumValue, enumReason(model.ExperienceLevels))
		}
	case model.KindUser:
		if f.Role != "" && !f.Role.IsValid() {
			errs.Add(ParamRole, model.CodeInvalidEnumValue, enumReason(model.Roles))
		}
	}

	return errs.Err()
}

func checkDate(errs *model.FieldErrors, field, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(model.DateLayout, value)
	if err != nil {
		errs.Add(field, model.CodeInvalidFormat, "must be a date in YYYY-MM-DD form")
		return time.Time{}, false
	}
	return t, true
}

func enumReason[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return fmt.Sprintf("must be one of: %s", strings.Join(parts, ", "))
}

// inDateRange reports whether date lies within the filter's bounds.
// Dates are YYYY-MM-DD so string order is calendar order.
func (f Filter) inDateRange(date string) bool {
	if f.DateFrom != "" && date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && date > f.DateTo {
		return false
	}
	return true
}

func (f Filter) matchesActive(active bool) bool {
	return f.Active == nil || *f.Active == active
}

// matchesSearch reports whether any field contains the search term, ignoring case
func (f Filter) matchesSearch(fields ...string) bool {
	if f.Search == "" {
		return true
	}
	caser := cases.Fold()
	term := caser.String(f.Search)
	for _, field := range fields {
		if strings.Contains(caser.String(field), term) {
			return true
		}
	}
	return false
}
