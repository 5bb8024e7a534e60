package models

import "time"

// Group is a staffed sub-unit of a section with a capacity and an optional
// age band expressed in whole months. A group has zero or one assigned
// educator at a time.
type Group struct {
	ID                 string    `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Section            string    `db:"section" json:"section"`
	Capacity           int       `db:"capacity" json:"capacity"`
	AgeMinMonths       *int      `db:"age_min_months" json:"age_min_months,omitempty"`
	AgeMaxMonths       *int      `db:"age_max_months" json:"age_max_months,omitempty"`
	AssignedEducatorID *string   `db:"assigned_educator_id" json:"assigned_educator_id,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// HasAgeBand reports whether the group restricts ages at all.
func (g *Group) HasAgeBand() bool {
	return g.AgeMinMonths != nil || g.AgeMaxMonths != nil
}

// AgeVerdict classifies a child's age against a group's age band.
type AgeVerdict string

const (
	AgeCompatible AgeVerdict = "compatible"
	AgeTooYoung   AgeVerdict = "too_young"
	AgeTooOld     AgeVerdict = "too_old"
)

// GroupDetail carries a group with its live occupant count and educator name.
type GroupDetail struct {
	Group
	ChildrenCount int     `db:"children_count" json:"children_count"`
	EducatorName  *string `db:"educator_name" json:"educator_name,omitempty"`
}

// GroupFilter restricts group listings.
type GroupFilter struct {
	Section string
}

// SectionLoad aggregates one group's contribution to its section's staffing
// picture. Occupancy is counted from child rows, never maintained as a
// mutable counter.
type SectionLoad struct {
	GroupID       string `db:"group_id" json:"group_id"`
	GroupName     string `db:"group_name" json:"group_name"`
	Section       string `db:"section" json:"section"`
	ChildrenCount int    `db:"children_count" json:"children_count"`
	HasEducator   bool   `db:"has_educator" json:"has_educator"`
}
