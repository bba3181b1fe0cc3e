package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.date,
		   a.check_in, a.check_out,
		   a.status, a.work_hours,
		   a.is_leave, a.leave_type_id, a.leave_request_id,
		   a.is_half_day, a.half_day_session,
		   a.notes, a.marked_by,
		   a.created_at, a.updated_at,
		   e.first_name || ' ' || e.last_name AS employee_name,
		   e.employee_code,
		   lt.name AS leave_type_name
	FROM attendances a
	JOIN employees e ON a.employee_id = e.id
	LEFT JOIN leave_types lt ON a.leave_type_id = lt.id
`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row, att *attendance.Attendance) error {
	return row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&att.CheckIn, &att.CheckOut,
		&att.Status, &att.WorkHours,
		&att.IsLeave, &att.LeaveTypeID, &att.LeaveRequestID,
		&att.IsHalfDay, &att.HalfDaySession,
		&att.Notes, &att.MarkedBy,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
		&att.EmployeeCode,
		&att.LeaveTypeName,
	)
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, att *attendance.Attendance) error {
	created, err := r.CreateIfAbsent(ctx, att)
	if err != nil {
		return err
	}
	if !created {
		return attendance.ErrAttendanceExists
	}
	return nil
}

// CreateIfAbsent implements attendance.AttendanceRepository. The unique
// constraint on (employee_id, date) turns duplicate inserts into a
// clean no-op, which both check-in retries and the leave synthesizer
// depend on.
func (r *attendanceRepositoryImpl) CreateIfAbsent(ctx context.Context, att *attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if att.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return false, err
		}
		att.ID = id.String()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date,
			check_in, check_out,
			status, work_hours,
			is_leave, leave_type_id, leave_request_id,
			is_half_day, half_day_session,
			notes, marked_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	commandTag, err := q.Exec(ctx, query,
		att.ID, att.EmployeeID, att.Date,
		att.CheckIn, att.CheckOut,
		att.Status, att.WorkHours,
		att.IsLeave, att.LeaveTypeID, att.LeaveRequestID,
		att.IsHalfDay, att.HalfDaySession,
		att.Notes, att.MarkedBy,
	)
	if err != nil {
		return false, err
	}

	return commandTag.RowsAffected() > 0, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id), &att)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, err
	}

	return &att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx,
		attendanceSelect+" WHERE a.employee_id = $1 AND a.date = $2", employeeID, date), &att)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, err
	}

	return &att, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter *attendance.ListFilter) ([]attendance.Attendance, int, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.EmployeeIDs != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = ANY($%d)", argPos))
		args = append(args, filter.EmployeeIDs)
		argPos++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := attendanceSelect + " WHERE " + where + " ORDER BY a.date DESC, e.employee_code"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att); err != nil {
			return nil, 0, err
		}
		records = append(records, att)
	}

	return records, total, rows.Err()
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, att *attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in = $2,
			check_out = $3,
			status = $4,
			work_hours = $5,
			notes = $6,
			marked_by = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		att.ID, att.CheckIn, att.CheckOut, att.Status, att.WorkHours, att.Notes, att.MarkedBy,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// SummarizeMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SummarizeMonth(ctx context.Context, employeeID string, month time.Month, year int) (*attendance.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'leave'),
			COUNT(*) FILTER (WHERE status = 'half_day'),
			COUNT(*) FILTER (WHERE status = 'late'),
			COUNT(*) FILTER (WHERE status = 'absent')
		FROM attendances
		WHERE employee_id = $1
		  AND EXTRACT(MONTH FROM date) = $2
		  AND EXTRACT(YEAR FROM date) = $3
	`

	summary := attendance.MonthlySummary{EmployeeID: employeeID}
	err := q.QueryRow(ctx, query, employeeID, int(month), year).Scan(
		&summary.PresentDays, &summary.LeaveDays, &summary.HalfDays,
		&summary.LateDays, &summary.AbsentDays,
	)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
