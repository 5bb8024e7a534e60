package models

import "github.com/golang-jwt/jwt/v5"

// StaffRole represents the available roles for the RBAC system.
type StaffRole string

const (
	RoleAdmin    StaffRole = "ADMIN"
	RoleEducator StaffRole = "EDUCATOR"
	RoleParent   StaffRole = "PARENT"
)

// JWTClaims carries the acting staff identity attached by the identity
// service. This API only verifies tokens; it never issues them.
type JWTClaims struct {
	StaffID  string    `json:"staff_id"`
	Role     StaffRole `json:"role"`
	FullName string    `json:"full_name"`
	jwt.RegisteredClaims
}
