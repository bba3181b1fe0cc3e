package leave

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// LeaveType entity
type LeaveType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`

	AnnualQuota           float64 `json:"annual_quota"`
	IsPaid                bool    `json:"is_paid"`
	RequiresDocumentation bool    `json:"requires_documentation"`
	MaxConsecutiveDays    int     `json:"max_consecutive_days"` // 0 = unlimited

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeaveBalance is the per-year ledger row for one employee and leave type.
// Available quota is always derived, never stored.
type LeaveBalance struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`

	TotalQuota     float64 `json:"total_quota"`
	Used           float64 `json:"used"`
	Pending        float64 `json:"pending"`
	CarriedForward float64 `json:"carried_forward"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined for responses.
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	LeaveTypeCode string  `json:"leave_type_code,omitempty"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	Color         *string `json:"color,omitempty"`
}

func (b *LeaveBalance) Available() float64 {
	return b.TotalQuota + b.CarriedForward - b.Used - b.Pending
}

type LeaveRequestStatus string

const (
	StatusPending   LeaveRequestStatus = "pending"
	StatusApproved  LeaveRequestStatus = "approved"
	StatusRejected  LeaveRequestStatus = "rejected"
	StatusCancelled LeaveRequestStatus = "cancelled"
)

func (s LeaveRequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s LeaveRequestStatus) Terminal() bool {
	return s != StatusPending
}

// ApproverRole identifies which approval stage a request is waiting on.
type ApproverRole string

const (
	ApproverManager ApproverRole = "manager"
	ApproverHR      ApproverRole = "hr"

	// ApproverAdmin never appears as a current approver; it only labels
	// chain entries written by an admin bypass.
	ApproverAdmin ApproverRole = "admin"
)

type HalfDaySession string

const (
	SessionMorning   HalfDaySession = "morning"
	SessionAfternoon HalfDaySession = "afternoon"
)

type ApprovalStepStatus string

const (
	StepPending  ApprovalStepStatus = "pending"
	StepApproved ApprovalStepStatus = "approved"
	StepRejected ApprovalStepStatus = "rejected"
)

// ApprovalStep is one entry in a request's approval chain.
type ApprovalStep struct {
	ApproverID   *string            `json:"approver_id,omitempty"`
	ApproverName string             `json:"approver_name,omitempty"`
	Role         ApproverRole       `json:"role"`
	Status       ApprovalStepStatus `json:"status"`
	Comments     *string            `json:"comments,omitempty"`
	ActionDate   *time.Time         `json:"action_date,omitempty"`
}

// ApprovalChain is the ordered approval record, stored as JSONB. Only
// the manager stage is seeded at creation; stages reached later append
// their entry when the approver acts. At most one entry is pending at
// a time.
type ApprovalChain []ApprovalStep

// PendingIndex returns the index of the pending entry for role, or -1.
func (c ApprovalChain) PendingIndex(role ApproverRole) int {
	for i, step := range c {
		if step.Role == role && step.Status == StepPending {
			return i
		}
	}
	return -1
}

// Value implements driver.Valuer for database storage
func (c ApprovalChain) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal(ApprovalChain{})
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for database retrieval
func (c *ApprovalChain) Scan(value interface{}) error {
	if value == nil {
		*c = ApprovalChain{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan ApprovalChain: invalid type")
	}

	return json.Unmarshal(bytes, c)
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	IsHalfDay      bool            `json:"is_half_day"`
	HalfDaySession *HalfDaySession `json:"half_day_session,omitempty"`
	TotalDays      float64         `json:"total_days"`

	Reason        string  `json:"reason"`
	AttachmentURL *string `json:"attachment_url,omitempty"`

	Status          LeaveRequestStatus `json:"status"`
	ApprovalChain   ApprovalChain      `json:"approval_chain"`
	CurrentApprover *ApproverRole      `json:"current_approver,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`

	AttendanceCreated bool `json:"attendance_created"`

	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined for responses.
	EmployeeName  string  `json:"employee_name,omitempty"`
	EmployeeCode  string  `json:"employee_code,omitempty"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	LeaveTypeCode string  `json:"leave_type_code,omitempty"`
	Color         *string `json:"color,omitempty"`
}

// WaitingOn reports whether the request is pending at the given stage.
func (r *LeaveRequest) WaitingOn(role ApproverRole) bool {
	return r.Status == StatusPending && r.CurrentApprover != nil && *r.CurrentApprover == role
}
