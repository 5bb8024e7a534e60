package dto

// CreateChildRequest enrolls a new child record.
type CreateChildRequest struct {
	Code      string  `json:"code" validate:"required"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	BirthDate string  `json:"birth_date" validate:"required"`
	Section   *string `json:"section"`
	GroupID   *string `json:"group_id"`
}

// ChangeChildStatusRequest flips a child between active and inactive.
// Children are never hard deleted.
type ChangeChildStatusRequest struct {
	Status string `json:"status" validate:"required,child_status"`
}
