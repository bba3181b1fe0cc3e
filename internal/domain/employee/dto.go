package employee

import (
	"github.com/shopspring/decimal"

	"github.com/staffhub/hrm-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	UserID       string          `json:"user_id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Phone        *string         `json:"phone,omitempty"`
	Position     string          `json:"position"`
	DepartmentID *string         `json:"department_id,omitempty"`
	ManagerID    *string         `json:"manager_id,omitempty"`
	JoinDate     string          `json:"join_date"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}

	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position is required",
		})
	}

	if !validator.IsValidDate(r.JoinDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "join_date",
			Message: "join_date must be in YYYY-MM-DD format",
		})
	}

	if r.Phone != nil && !validator.IsNumeric(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must contain digits only",
		})
	}

	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID           string            `json:"-"`
	FirstName    *string           `json:"first_name,omitempty"`
	LastName     *string           `json:"last_name,omitempty"`
	Phone        *string           `json:"phone,omitempty"`
	Position     *string           `json:"position,omitempty"`
	DepartmentID *string           `json:"department_id,omitempty"`
	ManagerID    *string           `json:"manager_id,omitempty"`
	BaseSalary   *decimal.Decimal  `json:"base_salary,omitempty"`
	Status       *EmploymentStatus `json:"status,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "employee id is required",
		})
	}

	if r.Status != nil && !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of active, on_leave, terminated",
		})
	}

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary must not be negative",
		})
	}

	if r.Phone != nil && !validator.IsNumeric(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must contain digits only",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListEmployeesFilter struct {
	DepartmentID *string
	ManagerID    *string
	Status       *EmploymentStatus
	Search       string
	Limit        int
	Offset       int
}
