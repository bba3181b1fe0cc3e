package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusOnLeave    EmploymentStatus = "on_leave"
	StatusTerminated EmploymentStatus = "terminated"
)

func (s EmploymentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

type Employee struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	EmployeeCode string           `json:"employee_code"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Phone        *string          `json:"phone,omitempty"`
	Position     string           `json:"position"`
	DepartmentID *string          `json:"department_id,omitempty"`
	ManagerID    *string          `json:"manager_id,omitempty"`
	JoinDate     time.Time        `json:"join_date"`
	BaseSalary   decimal.Decimal  `json:"base_salary"`
	Status       EmploymentStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Joined fields, populated by list and detail queries.
	FullName       string  `json:"full_name,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
	ManagerName    *string `json:"manager_name,omitempty"`
	Email          string  `json:"email,omitempty"`
}

func (e *Employee) DisplayName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
