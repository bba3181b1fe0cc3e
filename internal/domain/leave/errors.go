package leave

import "errors"

var (
	ErrLeaveTypeNotFound   = errors.New("leave type not found")
	ErrLeaveTypeNameExists = errors.New("leave type name already exists")
	ErrLeaveTypeCodeExists = errors.New("leave type code already exists")
	ErrLeaveTypeInactive   = errors.New("leave type is inactive")

	ErrBalanceNotInitialized = errors.New("leave balance not initialized for this year")
	ErrBalanceNotFound       = errors.New("leave balance not found")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")

	ErrRequestNotFound    = errors.New("leave request not found")
	ErrRequestNotPending  = errors.New("leave request is not pending")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrNoWorkingDays      = errors.New("requested range contains no working days")
	ErrMaxConsecutiveDays = errors.New("request exceeds maximum consecutive days for this leave type")
	ErrNotRequestOwner    = errors.New("leave request belongs to another employee")
	ErrNotCurrentApprover = errors.New("request is not waiting on your approval")
	ErrNotTeamMember      = errors.New("employee is not part of your team")
)
