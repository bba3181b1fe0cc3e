package attendance

import "time"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusHalfDay AttendanceStatus = "half_day"
	StatusLeave   AttendanceStatus = "leave"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusLeave:
		return true
	}
	return false
}

// Attendance is one row per employee per calendar date. Rows are either
// recorded from check-in/check-out, marked manually by HR, or
// synthesized from an approved leave request.
type Attendance struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Date       time.Time `json:"date"`

	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`

	Status    AttendanceStatus `json:"status"`
	WorkHours float64          `json:"work_hours"`

	IsLeave        bool    `json:"is_leave"`
	LeaveTypeID    *string `json:"leave_type_id,omitempty"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
	IsHalfDay      bool    `json:"is_half_day"`
	HalfDaySession *string `json:"half_day_session,omitempty"`

	Notes    *string `json:"notes,omitempty"`
	MarkedBy *string `json:"marked_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined for responses.
	EmployeeName  string  `json:"employee_name,omitempty"`
	EmployeeCode  string  `json:"employee_code,omitempty"`
	LeaveTypeName *string `json:"leave_type_name,omitempty"`
}

// DeriveStatus maps worked hours to an attendance status after
// check-out. A full day is 8 hours, half day 4.
func DeriveStatus(workHours float64) AttendanceStatus {
	switch {
	case workHours >= 8:
		return StatusPresent
	case workHours >= 4:
		return StatusHalfDay
	case workHours > 0:
		return StatusLate
	default:
		return StatusAbsent
	}
}
