package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
)

// AttendanceSynthesizer writes leave-covered attendance rows for an
// approved request. It runs after the approval transaction commits and
// never influences the approval outcome.
type AttendanceSynthesizer struct {
	attendanceRepository   attendance.AttendanceRepository
	leaveRequestRepository leave.LeaveRequestRepository
	logger                 *slog.Logger
}

func NewAttendanceSynthesizer(
	attendanceRepository attendance.AttendanceRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	logger *slog.Logger,
) *AttendanceSynthesizer {
	return &AttendanceSynthesizer{
		attendanceRepository:   attendanceRepository,
		leaveRequestRepository: leaveRequestRepository,
		logger:                 logger,
	}
}

// Synthesize creates one attendance row per weekday of the request's
// range, skipping dates that already have a row. The attendance_created
// flag makes the whole operation run at most once per request; it is
// set even after a partial failure so approval side effects are never
// replayed wholesale.
func (s *AttendanceSynthesizer) Synthesize(ctx context.Context, lr *leave.LeaveRequest) error {
	if lr.AttendanceCreated {
		return nil
	}

	var firstErr error
	for d := lr.StartDate; !d.After(lr.EndDate); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		att := &attendance.Attendance{
			EmployeeID:     lr.EmployeeID,
			Date:           d,
			Status:         attendance.StatusLeave,
			IsLeave:        true,
			LeaveTypeID:    &lr.LeaveTypeID,
			LeaveRequestID: &lr.ID,
		}

		// Half-day details belong to the start date only.
		if lr.IsHalfDay && d.Equal(lr.StartDate) {
			att.IsHalfDay = true
			if lr.HalfDaySession != nil {
				session := string(*lr.HalfDaySession)
				att.HalfDaySession = &session
			}
		}

		created, err := s.attendanceRepository.CreateIfAbsent(ctx, att)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Error("attendance synthesis failed for date",
				slog.String("leave_request_id", lr.ID),
				slog.String("date", d.Format("2006-01-02")),
				slog.Any("error", err))
			continue
		}
		if !created {
			s.logger.Debug("attendance row already present, skipping",
				slog.String("leave_request_id", lr.ID),
				slog.String("date", d.Format("2006-01-02")))
		}
	}

	if err := s.leaveRequestRepository.MarkAttendanceCreated(ctx, lr.ID); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	} else {
		lr.AttendanceCreated = true
	}

	return firstErr
}
