package model

import "time"

// Activity verbs
const (
	VerbCreated      = "created"
	VerbUpdated      = "updated"
	VerbDeleted      = "deleted"
	VerbTransitioned = "transitioned"
	VerbLogin        = "login"
)

// ActivityLogEntry is an append-only audit record of a mutation
type ActivityLogEntry struct {
	ID         string           `json:"id"`
	Action     string           `json:"action"`
	ActorID    UserID           `json:"actor_id"`
	EntityKind EntityKind       `json:"entity_kind"`
	EntityID   string           `json:"entity_id"`
	FromStatus AssignmentStatus `json:"from_status,omitempty"`
	ToStatus   AssignmentStatus `json:"to_status,omitempty"`
	Details    string           `json:"details,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// ActionName builds the dotted action label, e.g. "assignment.transitioned"
func ActionName(kind EntityKind, verb string) string {
	return string(kind) + "." + verb
}
