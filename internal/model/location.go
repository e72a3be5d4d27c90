package model

import (
	"strings"
	"time"
)

// LocationID uniquely identifies a venue
type LocationID string

// Location is a venue where games are played
type Location struct {
	ID            LocationID `json:"id"`
	Name          string     `json:"name" validate:"required,max=200"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Zip           string     `json:"zip"`
	ContactPerson string     `json:"contact_person"`
	Phone         string     `json:"phone" validate:"omitempty,phone"`
	Email         string     `json:"email" validate:"omitempty,mail"`
	Capacity      int        `json:"capacity" validate:"gte=0"`
	Notes         string     `json:"notes"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LocationPatch carries the fields supplied on create or update.
// Nil fields are left untouched.
type LocationPatch struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Zip           *string `json:"zip,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Capacity      *int    `json:"capacity,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// Apply merges the patch into l
func (p LocationPatch) Apply(l *Location) {
	setString(&l.Name, p.Name)
	setString(&l.Address, p.Address)
	setString(&l.City, p.City)
	setString(&l.State, p.State)
	setString(&l.Zip, p.Zip)
	setString(&l.ContactPerson, p.ContactPerson)
	setString(&l.Phone, p.Phone)
	setString(&l.Email, p.Email)
	setValue(&l.Capacity, p.Capacity)
	setString(&l.Notes, p.Notes)
	setValue(&l.IsActive, p.IsActive)
}

// lineEndings folds CRLF and lone CR to LF
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeText trims s and stores every line break as a single \n
func NormalizeText(s string) string {
	return lineEndings.Replace(strings.TrimSpace(s))
}

// setString assigns a normalized copy of v when supplied
func setString[S ~string](dst *S, v *S) {
	if v != nil {
		*dst = S(NormalizeText(string(*v)))
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
