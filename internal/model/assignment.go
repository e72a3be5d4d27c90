package model

import "time"

// AssignmentID uniquely identifies an assignment
type AssignmentID string

// Assignment links one official to one game at one position
type Assignment struct {
	ID           AssignmentID     `json:"id"`
	GameID       GameID           `json:"game_id" validate:"required"`
	OfficialID   OfficialID       `json:"official_id" validate:"required"`
	Position     Position         `json:"position" validate:"required,enum"`
	Status       AssignmentStatus `json:"status" validate:"required,enum"`
	AssignedDate time.Time        `json:"assigned_date"`
	Fee          float64          `json:"fee" validate:"gte=0"`
	Notes        string           `json:"notes"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// SameSlot reports whether a and b book the same official at the same
// position of the same game
func (a *Assignment) SameSlot(b *Assignment) bool {
	return a.GameID == b.GameID && a.OfficialID == b.OfficialID && a.Position == b.Position
}

// NewAssignment carries the fields accepted when creating an assignment
type NewAssignment struct {
	GameID     GameID     `json:"game_id"`
	OfficialID OfficialID `json:"official_id"`
	Position   *Position  `json:"position,omitempty"`
	Fee        *float64   `json:"fee,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// AssignmentPatch carries the mutable fields of an assignment.
// Status changes go through the transition operation instead.
type AssignmentPatch struct {
	Position *Position `json:"position,omitempty"`
	Fee      *float64  `json:"fee,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

// Apply merges the patch into a
func (p AssignmentPatch) Apply(a *Assignment) {
	setString(&a.Position, p.Position)
	setValue(&a.Fee, p.Fee)
	setString(&a.Notes, p.Notes)
}

// AssignmentDetail joins an assignment with the game and official it links
type AssignmentDetail struct {
	Assignment
	GameDate     string `json:"game_date"`
	GameTime     string `json:"game_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	Sport        string `json:"sport"`
	Location     string `json:"location"`
	OfficialName string `json:"official_name"`
}
