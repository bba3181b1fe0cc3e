package attendance

import "github.com/staffhub/hrm-backend-go/internal/pkg/validator"

type MarkAttendanceRequest struct {
	EmployeeID string           `json:"employee_id"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
	Notes      *string          `json:"notes,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, half_day, leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListFilter narrows attendance listings. Dates are inclusive.
type ListFilter struct {
	EmployeeID  *string
	EmployeeIDs []string
	From        *string
	To          *string
	Status      *AttendanceStatus
	Limit       int
	Offset      int
}

// MonthlySummary aggregates one employee's attendance for payroll.
type MonthlySummary struct {
	EmployeeID  string
	PresentDays int
	LeaveDays   int
	HalfDays    int
	LateDays    int
	AbsentDays  int
}
