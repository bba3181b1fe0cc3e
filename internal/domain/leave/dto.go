package leave

import (
	"github.com/staffhub/hrm-backend-go/internal/pkg/validator"
)

type CreateLeaveTypeRequest struct {
	Name                  string  `json:"name"`
	Code                  string  `json:"code"`
	Description           *string `json:"description,omitempty"`
	Color                 *string `json:"color,omitempty"`
	AnnualQuota           float64 `json:"annual_quota"`
	IsPaid                bool    `json:"is_paid"`
	RequiresDocumentation bool    `json:"requires_documentation"`
	MaxConsecutiveDays    int     `json:"max_consecutive_days"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsValidCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 2-10 uppercase letters",
		})
	}

	if r.AnnualQuota < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "annual_quota",
			Message: "annual_quota must not be negative",
		})
	}

	if r.MaxConsecutiveDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_consecutive_days",
			Message: "max_consecutive_days must not be negative",
		})
	}

	if r.Color != nil && !validator.IsValidHexColor(*r.Color) {
		errs = append(errs, validator.ValidationError{
			Field:   "color",
			Message: "color must be a hex color like #AABBCC",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                    string   `json:"-"`
	Name                  *string  `json:"name,omitempty"`
	Description           *string  `json:"description,omitempty"`
	Color                 *string  `json:"color,omitempty"`
	AnnualQuota           *float64 `json:"annual_quota,omitempty"`
	IsPaid                *bool    `json:"is_paid,omitempty"`
	RequiresDocumentation *bool    `json:"requires_documentation,omitempty"`
	MaxConsecutiveDays    *int     `json:"max_consecutive_days,omitempty"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "leave type id is required",
		})
	}

	if r.AnnualQuota != nil && *r.AnnualQuota < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "annual_quota",
			Message: "annual_quota must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateLeaveRequestRequest struct {
	LeaveTypeID    string          `json:"leave_type_id"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	IsHalfDay      bool            `json:"is_half_day"`
	HalfDaySession *HalfDaySession `json:"half_day_session,omitempty"`
	Reason         string          `json:"reason"`
	AttachmentURL  *string         `json:"attachment_url,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id must be a valid UUID",
		})
	}

	if !validator.IsValidDate(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidDate(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.IsHalfDay && r.HalfDaySession == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day_session",
			Message: "half_day_session is required for half day leave",
		})
	}

	if r.HalfDaySession != nil &&
		*r.HalfDaySession != SessionMorning && *r.HalfDaySession != SessionAfternoon {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day_session",
			Message: "half_day_session must be morning or afternoon",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ApprovalActionRequest carries the approver's comment for approve and
// reject. Reject requires a reason, approve does not.
type ApprovalActionRequest struct {
	ID       string  `json:"-"`
	Comments *string `json:"comments,omitempty"`
}

type RejectLeaveRequestRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateBalanceRequest struct {
	EmployeeID     string   `json:"-"`
	LeaveTypeID    string   `json:"leave_type_id"`
	Year           int      `json:"year"`
	TotalQuota     *float64 `json:"total_quota,omitempty"`
	Used           *float64 `json:"used,omitempty"`
	Pending        *float64 `json:"pending,omitempty"`
	CarriedForward *float64 `json:"carried_forward,omitempty"`
}

func (r *UpdateBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id must be a valid UUID",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	counters := []struct {
		field string
		value *float64
	}{
		{"total_quota", r.TotalQuota},
		{"used", r.Used},
		{"pending", r.Pending},
		{"carried_forward", r.CarriedForward},
	}
	for _, c := range counters {
		if c.value != nil && *c.value < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   c.field,
				Message: c.field + " must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListRequestsFilter narrows leave request listings. StatusIn empty
// means all statuses. EmployeeIDs nil means no employee restriction.
type ListRequestsFilter struct {
	EmployeeID  *string
	EmployeeIDs []string
	StatusIn    []LeaveRequestStatus
	ApproverIn  []ApproverRole
	LeaveTypeID *string
	Month       *int
	Year        *int
	Limit       int
	Offset      int
}
