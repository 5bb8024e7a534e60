package dto

import "github.com/noah-isme/nursery-checkin-api/internal/models"

// AssignGroupRequest moves a child into a group.
type AssignGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// EligibilityResult is the pure verdict for a (child, group) pair. Eligible
// is true only when the age verdict is compatible and the group is not full.
type EligibilityResult struct {
	ChildID       string            `json:"child_id"`
	GroupID       string            `json:"group_id"`
	AgeMonths     int               `json:"age_months"`
	AgeVerdict    models.AgeVerdict `json:"age_verdict"`
	Full          bool              `json:"full"`
	ChildrenCount int               `json:"children_count"`
	Capacity      int               `json:"capacity"`
	Eligible      bool              `json:"eligible"`
}

// GroupRoster lists a group's current occupants with their ages.
type GroupRoster struct {
	Group    models.GroupDetail `json:"group"`
	Children []RosterChild      `json:"children"`
}

// RosterChild is one occupant line in a group roster.
type RosterChild struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AgeMonths int    `json:"age_months"`
}
