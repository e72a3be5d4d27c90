package model

import "time"

// Layouts for calendar dates and times of day
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// GameID uniquely identifies a game
type GameID string

// Game is a scheduled fixture that needs officials
type Game struct {
	ID       GameID `json:"id"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"omitempty,datetime=15:04"`
	HomeTeam string `json:"home_team" validate:"required,max=200"`
	AwayTeam string `json:"away_team" validate:"required,max=200"`
	// Location holds the venue name as entered; LocationID is set when it
	// resolves to a known venue
	Location        string     `json:"location" validate:"required"`
	LocationID      LocationID `json:"location_id,omitempty"`
	Sport           string     `json:"sport" validate:"required"`
	League          string     `json:"league"`
	Level           string     `json:"level"`
	OfficialsNeeded int        `json:"officials_needed" validate:"gte=1"`
	Status          GameStatus `json:"status" validate:"required,enum"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// GamePatch carries the fields supplied on create or update
type GamePatch struct {
	Date            *string     `json:"date,omitempty"`
	Time            *string     `json:"time,omitempty"`
	HomeTeam        *string     `json:"home_team,omitempty"`
	AwayTeam        *string     `json:"away_team,omitempty"`
	Location        *string     `json:"location,omitempty"`
	Sport           *string     `json:"sport,omitempty"`
	League          *string     `json:"league,omitempty"`
	Level           *string     `json:"level,omitempty"`
	OfficialsNeeded *int        `json:"officials_needed,omitempty"`
	Status          *GameStatus `json:"status,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
}

// Apply merges the patch into g
func (p GamePatch) Apply(g *Game) {
	setString(&g.Date, p.Date)
	setString(&g.Time, p.Time)
	setString(&g.HomeTeam, p.HomeTeam)
	setString(&g.AwayTeam, p.AwayTeam)
	setString(&g.Location, p.Location)
	setString(&g.Sport, p.Sport)
	setString(&g.League, p.League)
	setString(&g.Level, p.Level)
	setValue(&g.OfficialsNeeded, p.OfficialsNeeded)
	setString(&g.Status, p.Status)
	setString(&g.Notes, p.Notes)
}

// IsArchived reports whether the game no longer holds on to its venue
func (g *Game) IsArchived() bool {
	return g.Status == GameCancelled
}
