package dto

import (
	"time"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
)

// ScanRequest is the payload for processing a presented code. Action is
// optional; when omitted the engine records the suggested action.
type ScanRequest struct {
	Code   string  `json:"code" validate:"required"`
	Action *string `json:"action" validate:"omitempty,scan_type"`
}

// ScanResult reports the verdict for an accepted scan.
type ScanResult struct {
	Action          models.ScanType         `json:"action"`
	SuggestedAction models.ScanType         `json:"suggested_action"`
	ScanTime        time.Time               `json:"scan_time"`
	Child           *models.ChildDetail     `json:"child"`
	Attendance      *models.DailyAttendance `json:"attendance"`
	Message         string                  `json:"message"`
}

// ScanSuggestion previews the next expected action without committing.
type ScanSuggestion struct {
	Child            *models.ChildDetail `json:"child"`
	SuggestedAction  models.ScanType     `json:"suggested_action"`
	LastScan         *models.ScanEvent   `json:"last_scan,omitempty"`
	CooldownRemaining *int64             `json:"cooldown_remaining_seconds,omitempty"`
}
