package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Regular employee
	RoleManager  Role = "manager"  // Approves team leave at the first stage
	RoleHR       Role = "hr"       // Approves leave at the second stage, manages records
	RoleAdmin    Role = "admin"    // Full access, can short-circuit any approval
)

// Roles lists every known role. Authorization switches over Role must
// handle all of these.
var Roles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	EmployeeID *string
}

// IsAdmin checks if user has full administrative access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove checks if user can act on leave requests
func (u *User) CanApprove() bool {
	switch u.Role {
	case RoleManager, RoleHR, RoleAdmin:
		return true
	case RoleEmployee:
		return false
	}
	return false
}

// CanManageRecords checks if user can manage HR master data
func (u *User) CanManageRecords() bool {
	return u.Role == RoleHR || u.Role == RoleAdmin
}
