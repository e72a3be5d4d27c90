package model

import "time"

// OfficialID uniquely identifies an official
type OfficialID string

// Official is a referee, umpire or judge who can be assigned to games
type Official struct {
	ID              OfficialID      `json:"id"`
	Name            string          `json:"name" validate:"required,max=200"`
	Email           string          `json:"email" validate:"required,mail"`
	Phone           string          `json:"phone" validate:"omitempty,phone"`
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"required,enum"`
	Certifications  string          `json:"certifications"`
	Rating          float64         `json:"rating" validate:"gte=0,lte=5"`
	Availability    Availability    `json:"availability" validate:"required,enum"`
	IsActive        bool            `json:"is_active"`
	// TotalAssignments is derived from assignment records on every read
	TotalAssignments int       `json:"total_assignments"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OfficialPatch carries the fields supplied on create or update
type OfficialPatch struct {
	Name            *string          `json:"name,omitempty"`
	Email           *string          `json:"email,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	ExperienceLevel *ExperienceLevel `json:"experience_level,omitempty"`
	Certifications  *string          `json:"certifications,omitempty"`
	Rating          *float64         `json:"rating,omitempty"`
	Availability    *Availability    `json:"availability,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// Apply merges the patch into o
func (p OfficialPatch) Apply(o *Official) {
	setString(&o.Name, p.Name)
	setString(&o.Email, p.Email)
	setString(&o.Phone, p.Phone)
	setString(&o.ExperienceLevel, p.ExperienceLevel)
	setString(&o.Certifications, p.Certifications)
	setValue(&o.Rating, p.Rating)
	setString(&o.Availability, p.Availability)
	setValue(&o.IsActive, p.IsActive)
}
