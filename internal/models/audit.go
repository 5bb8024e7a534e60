package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionScanAccepted  = "SCAN_ACCEPTED"
	AuditActionGroupAssign   = "GROUP_ASSIGN"
	AuditActionGroupUnassign = "GROUP_UNASSIGN"
	AuditActionChildCreate   = "CHILD_CREATE"
	AuditActionChildStatus   = "CHILD_STATUS_CHANGE"
)

// AuditLog represents an audit trail record for mutating operations.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	StaffID    *string   `db:"staff_id" json:"staff_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
