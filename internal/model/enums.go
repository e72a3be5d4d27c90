package model

import (
	"slices"
	"strings"
)

// ExperienceLevel grades an official's experience
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceAdvanced     ExperienceLevel = "Advanced"
	ExperienceExpert       ExperienceLevel = "Expert"
)

// ExperienceLevels lists every level in ascending order
var ExperienceLevels = []ExperienceLevel{
	ExperienceBeginner,
	ExperienceIntermediate,
	ExperienceAdvanced,
	ExperienceExpert,
}

func (e ExperienceLevel) IsValid() bool {
	return slices.Contains(ExperienceLevels, e)
}

// Availability describes when an official can work
type Availability string

const (
	AvailabilityFlexible     Availability = "Flexible"
	AvailabilityWeekendsOnly Availability = "Weekends Only"
	AvailabilityEvenings     Availability = "Evenings"
	AvailabilityLimited      Availability = "Limited"
)

var Availabilities = []Availability{
	AvailabilityFlexible,
	AvailabilityWeekendsOnly,
	AvailabilityEvenings,
	AvailabilityLimited,
}

func (a Availability) IsValid() bool {
	return slices.Contains(Availabilities, a)
}

// GameStatus is the lifecycle state of a game
type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameCompleted GameStatus = "completed"
	GameCancelled GameStatus = "cancelled"
)

var GameStatuses = []GameStatus{GameScheduled, GameCompleted, GameCancelled}

func (s GameStatus) IsValid() bool {
	return slices.Contains(GameStatuses, s)
}

// Role is a user's permission level
type Role string

const (
	RoleUser       Role = "user"
	RoleOfficial   Role = "official"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

var Roles = []Role{RoleUser, RoleOfficial, RoleAdmin, RoleSuperadmin}

func (r Role) IsValid() bool {
	return slices.Contains(Roles, r)
}

// CanManage reports whether the role may change scheduling data
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Position is the role an official fills at a game
type Position string

const (
	PositionOfficial  Position = "Official"
	PositionReferee   Position = "Referee"
	PositionUmpire    Position = "Umpire"
	PositionCrewChief Position = "Crew Chief"
	PositionLineJudge Position = "Line Judge"
)

var Positions = []Position{
	PositionOfficial,
	PositionReferee,
	PositionUmpire,
	PositionCrewChief,
	PositionLineJudge,
}

func (p Position) IsValid() bool {
	return slices.Contains(Positions, p)
}

// AssignmentStatus is the lifecycle state of an assignment
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentCompleted AssignmentStatus = "completed"
)

var AssignmentStatuses = []AssignmentStatus{
	AssignmentPending,
	AssignmentConfirmed,
	AssignmentDeclined,
	AssignmentCompleted,
}

// assignmentTransitions maps each status to the statuses it may move to.
// Statuses absent from the map are terminal.
var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentPending:   {AssignmentConfirmed, AssignmentDeclined},
	AssignmentConfirmed: {AssignmentCompleted, AssignmentDeclined},
}

func (s AssignmentStatus) IsValid() bool {
	return slices.Contains(AssignmentStatuses, s)
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	return slices.Contains(assignmentTransitions[s], next)
}

// IsTerminal reports whether no further transition is possible
func (s AssignmentStatus) IsTerminal() bool {
	return len(assignmentTransitions[s]) == 0
}

// IsActive reports whether the assignment still counts towards a game's crew
func (s AssignmentStatus) IsActive() bool {
	return s != AssignmentDeclined
}

// EntityKind names a persisted collection
type EntityKind string

const (
	KindLocation   EntityKind = "location"
	KindOfficial   EntityKind = "official"
	KindGame       EntityKind = "game"
	KindUser       EntityKind = "user"
	KindAssignment EntityKind = "assignment"
)

// EntityKinds lists every persisted collection
var EntityKinds = []EntityKind{KindLocation, KindOfficial, KindGame, KindUser, KindAssignment}

func (k EntityKind) IsValid() bool {
	return slices.Contains(EntityKinds, k)
}

// Plural returns the collection name used in URLs and file names
func (k EntityKind) Plural() string {
	return string(k) + "s"
}

// ParseEntityKind accepts singular or plural kind names
func ParseEntityKind(s string) (EntityKind, bool) {
	k := EntityKind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	return k, k.IsValid()
}

// DeletePolicy decides what happens to dependents when a record is deleted
type DeletePolicy string

const (
	DeleteBlock   DeletePolicy = "block"
	DeleteCascade DeletePolicy = "cascade"
)

func (p DeletePolicy) IsValid() bool {
	return p == DeleteBlock || p == DeleteCascade
}
