package models

import "time"

// ChildStatus marks whether a child is currently enrolled.
type ChildStatus string

const (
	ChildStatusActive   ChildStatus = "active"
	ChildStatusInactive ChildStatus = "inactive"
)

// Valid returns true when the status is a supported value.
func (s ChildStatus) Valid() bool {
	return s == ChildStatusActive || s == ChildStatusInactive
}

// Child represents a child enrolled in the nursery. Children are never hard
// deleted; leaving the nursery flips the status to inactive.
type Child struct {
	ID                 string      `db:"id" json:"id"`
	Code               string      `db:"code" json:"code"`
	FirstName          string      `db:"first_name" json:"first_name"`
	LastName           string      `db:"last_name" json:"last_name"`
	BirthDate          time.Time   `db:"birth_date" json:"birth_date"`
	Status             ChildStatus `db:"status" json:"status"`
	Section            *string     `db:"section" json:"section,omitempty"`
	GroupID            *string     `db:"group_id" json:"group_id,omitempty"`
	AssignedEducatorID *string     `db:"assigned_educator_id" json:"assigned_educator_id,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// ChildDetail extends a child with its group context for scan verdicts.
type ChildDetail struct {
	Child
	GroupName    *string `db:"group_name" json:"group_name,omitempty"`
	GroupSection *string `db:"group_section" json:"group_section,omitempty"`
}

// ChildFilter encapsulates allowed search parameters for listing children.
type ChildFilter struct {
	Search    string
	GroupID   string
	Section   string
	Status    *ChildStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
