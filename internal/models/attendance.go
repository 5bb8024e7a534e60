package models

import "time"

// DailyAttendance is the single audit row per child per calendar day,
// upserted on (child_id, attendance_date). A re-entry after a temporary exit
// overwrites the arrival fields instead of adding a second row.
type DailyAttendance struct {
	ID                 string     `db:"id" json:"id"`
	ChildID            string     `db:"child_id" json:"child_id"`
	AttendanceDate     time.Time  `db:"attendance_date" json:"attendance_date"`
	IsPresent          bool       `db:"is_present" json:"is_present"`
	ArrivalTime        *time.Time `db:"arrival_time" json:"arrival_time,omitempty"`
	DepartureTime      *time.Time `db:"departure_time" json:"departure_time,omitempty"`
	ArrivalScannedBy   *string    `db:"arrival_scanned_by" json:"arrival_scanned_by,omitempty"`
	DepartureScannedBy *string    `db:"departure_scanned_by" json:"departure_scanned_by,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// DailyAttendanceRecord extends the row with child metadata for registers.
type DailyAttendanceRecord struct {
	DailyAttendance
	ChildFirstName string  `db:"child_first_name" json:"child_first_name"`
	ChildLastName  string  `db:"child_last_name" json:"child_last_name"`
	GroupID        *string `db:"group_id" json:"group_id,omitempty"`
	GroupName      *string `db:"group_name" json:"group_name,omitempty"`
}

// DailyAttendanceFilter defines register query filters.
type DailyAttendanceFilter struct {
	Date      time.Time
	GroupID   string
	Section   string
	Present   *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// AttendanceDaySummary counts presence for one date.
type AttendanceDaySummary struct {
	Date        time.Time `json:"date"`
	Present     int       `json:"present"`
	Departed    int       `json:"departed"`
	TotalActive int       `json:"total_active"`
}
