package models

import (
	"time"
)

// Role determines which dashboard a user lands on
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Dashboard returns the landing page for the role
func (r Role) Dashboard() Destination {
	if r == RoleAdmin {
		return DestinationAdminDashboard
	}
	return DestinationUserDashboard
}

// User is the signed-in account
type User struct {
	Name      string
	FirstName string
	LastName  string
	Email     string
	Age       int
	Role      Role
	LoginTime time.Time

	// Contact fields are only collected for RoleUser
	ContactNumber    *string
	EmergencyContact *string
}
