package models

// ComplianceStatus classifies a section's staffing adequacy.
type ComplianceStatus string

const (
	ComplianceCompliant ComplianceStatus = "compliant"
	ComplianceWarning   ComplianceStatus = "warning"
	ComplianceCritical  ComplianceStatus = "critical"
)

// SectionCompliance is the computed staffing verdict for one section. It is
// recomputed from current data on every request and never stored.
type SectionCompliance struct {
	Section           string           `json:"section"`
	Status            ComplianceStatus `json:"status"`
	Ratio             int              `json:"ratio"`
	TotalChildren     int              `json:"total_children"`
	RequiredEducators int              `json:"required_educators"`
	PresentEducators  int              `json:"present_educators"`
	Groups            []SectionLoad    `json:"groups,omitempty"`
}
