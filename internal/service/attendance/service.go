package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

type AttendanceServiceImpl struct {
	attendanceRepository attendance.AttendanceRepository
	employeeRepository   employee.EmployeeRepository

	// now is swappable for tests.
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepository: attendanceRepository,
		employeeRepository:   employeeRepository,
		now:                  time.Now,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, actor *attendance.Actor) (*attendance.Attendance, error) {
	if actor.EmployeeID == nil {
		return nil, employee.ErrProfileNotLinked
	}

	now := s.now()
	today := dateOnly(now)

	existing, err := s.attendanceRepository.GetByEmployeeAndDate(ctx, *actor.EmployeeID, today)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.IsLeave {
			return nil, attendance.ErrLeaveDayLocked
		}
		return nil, attendance.ErrAlreadyCheckedIn
	}

	att := &attendance.Attendance{
		EmployeeID: *actor.EmployeeID,
		Date:       today,
		CheckIn:    &now,
		Status:     attendance.StatusAbsent,
	}

	created, err := s.attendanceRepository.CreateIfAbsent(ctx, att)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, attendance.ErrAlreadyCheckedIn
	}

	return att, nil
}

// CheckOut implements attendance.AttendanceService. Worked hours drive
// the status: a full day is 8 hours, at least 4 counts as half day,
// anything above zero is recorded as late.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, actor *attendance.Actor) (*attendance.Attendance, error) {
	if actor.EmployeeID == nil {
		return nil, employee.ErrProfileNotLinked
	}

	now := s.now()
	today := dateOnly(now)

	att, err := s.attendanceRepository.GetByEmployeeAndDate(ctx, *actor.EmployeeID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, attendance.ErrNotCheckedIn
		}
		return nil, err
	}
	if att.CheckIn == nil {
		return nil, attendance.ErrNotCheckedIn
	}
	if att.CheckOut != nil {
		return nil, attendance.ErrAlreadyCheckedOut
	}

	att.CheckOut = &now
	att.WorkHours = now.Sub(*att.CheckIn).Hours()
	att.Status = attendance.DeriveStatus(att.WorkHours)

	if err := s.attendanceRepository.Update(ctx, att); err != nil {
		return nil, err
	}

	return att, nil
}

// Mark implements attendance.AttendanceService. Manual marking is the
// HR correction path and requires no check-in.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, actor *attendance.Actor, req *attendance.MarkAttendanceRequest) (*attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.employeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	att := &attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     req.Status,
		Notes:      req.Notes,
		MarkedBy:   &actor.UserID,
	}

	created, err := s.attendanceRepository.CreateIfAbsent(ctx, att)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, attendance.ErrAttendanceExists
	}

	return att, nil
}

// List implements attendance.AttendanceService. Employees see only
// their own rows; managers see their team and themselves; HR and admin
// see everything.
func (s *AttendanceServiceImpl) List(ctx context.Context, actor *attendance.Actor, filter *attendance.ListFilter) ([]attendance.Attendance, int, error) {
	switch actor.Role {
	case user.RoleEmployee:
		if actor.EmployeeID == nil {
			return nil, 0, employee.ErrProfileNotLinked
		}
		filter.EmployeeID = actor.EmployeeID
		filter.EmployeeIDs = nil
	case user.RoleManager:
		if actor.EmployeeID == nil {
			return nil, 0, employee.ErrProfileNotLinked
		}
		team, err := s.employeeRepository.ListByManager(ctx, *actor.EmployeeID)
		if err != nil {
			return nil, 0, err
		}
		ids := make([]string, 0, len(team)+1)
		ids = append(ids, *actor.EmployeeID)
		for _, member := range team {
			ids = append(ids, member.ID)
		}
		filter.EmployeeID = nil
		filter.EmployeeIDs = ids
	case user.RoleHR, user.RoleAdmin:
	}

	return s.attendanceRepository.List(ctx, filter)
}

// GetMyToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyToday(ctx context.Context, actor *attendance.Actor) (*attendance.Attendance, error) {
	if actor.EmployeeID == nil {
		return nil, employee.ErrProfileNotLinked
	}
	return s.attendanceRepository.GetByEmployeeAndDate(ctx, *actor.EmployeeID, dateOnly(s.now()))
}
