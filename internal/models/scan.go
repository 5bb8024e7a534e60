package models

import "time"

// ScanType distinguishes arrival and departure scans.
type ScanType string

const (
	ScanTypeArrival   ScanType = "arrival"
	ScanTypeDeparture ScanType = "departure"
)

// Valid returns true when the scan type is supported.
func (t ScanType) Valid() bool {
	return t == ScanTypeArrival || t == ScanTypeDeparture
}

// ScanEvent is an immutable log entry recording a code being presented at
// the door. Rows are append-only; the most recent one (scan_time descending)
// drives the suggested next action and the cooldown check.
type ScanEvent struct {
	ID        string    `db:"id" json:"id"`
	ChildID   string    `db:"child_id" json:"child_id"`
	ScanType  ScanType  `db:"scan_type" json:"scan_type"`
	ScanTime  time.Time `db:"scan_time" json:"scan_time"`
	ScannedBy string    `db:"scanned_by" json:"scanned_by"`
}
