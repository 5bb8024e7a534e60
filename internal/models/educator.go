package models

import "time"

// Educator represents a staff member who can be assigned to a group and who
// appears as the scanning staff on attendance writes.
type Educator struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EducatorFilter restricts educator listings.
type EducatorFilter struct {
	Active *bool
	Search string
}
