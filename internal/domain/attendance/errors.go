package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrNotCheckedIn       = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrAttendanceExists   = errors.New("attendance record already exists for this date")
	ErrLeaveDayLocked     = errors.New("date is covered by an approved leave")
)
