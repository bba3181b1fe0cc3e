package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

const leaveRequestSelect = `
	SELECT lr.id, lr.employee_id, lr.leave_type_id,
		   lr.start_date, lr.end_date,
		   lr.is_half_day, lr.half_day_session, lr.total_days,
		   lr.reason, lr.attachment_url,
		   lr.status, lr.approval_chain, lr.current_approver, lr.rejection_reason,
		   lr.attendance_created,
		   lr.submitted_at, lr.created_at, lr.updated_at,
		   e.first_name || ' ' || e.last_name AS employee_name,
		   e.employee_code,
		   lt.name AS leave_type_name, lt.code AS leave_type_code, lt.color
	FROM leave_requests lr
	JOIN employees e ON lr.employee_id = e.id
	JOIN leave_types lt ON lr.leave_type_id = lt.id
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row, lr *leave.LeaveRequest) error {
	return row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID,
		&lr.StartDate, &lr.EndDate,
		&lr.IsHalfDay, &lr.HalfDaySession, &lr.TotalDays,
		&lr.Reason, &lr.AttachmentURL,
		&lr.Status, &lr.ApprovalChain, &lr.CurrentApprover, &lr.RejectionReason,
		&lr.AttendanceCreated,
		&lr.SubmittedAt, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName,
		&lr.EmployeeCode,
		&lr.LeaveTypeName, &lr.LeaveTypeCode, &lr.Color,
	)
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, lr *leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	if lr.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		lr.ID = id.String()
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date,
			is_half_day, half_day_session, total_days,
			reason, attachment_url,
			status, approval_chain, current_approver,
			attendance_created,
			submitted_at, created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5,
			$6, $7, $8,
			$9, $10,
			$11, $12, $13,
			FALSE,
			NOW(), NOW(), NOW()
		) RETURNING submitted_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lr.ID, lr.EmployeeID, lr.LeaveTypeID,
		lr.StartDate, lr.EndDate,
		lr.IsHalfDay, lr.HalfDaySession, lr.TotalDays,
		lr.Reason, lr.AttachmentURL,
		lr.Status, lr.ApprovalChain, lr.CurrentApprover,
	).Scan(&lr.SubmittedAt, &lr.CreatedAt, &lr.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var lr leave.LeaveRequest
	err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+" WHERE lr.id = $1", id), &lr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leave.ErrRequestNotFound
		}
		return nil, err
	}

	return &lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter *leave.ListRequestsFilter) ([]leave.LeaveRequest, int, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.EmployeeIDs != nil {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = ANY($%d)", argPos))
		args = append(args, filter.EmployeeIDs)
		argPos++
	}
	if len(filter.StatusIn) > 0 {
		statuses := make([]string, 0, len(filter.StatusIn))
		for _, s := range filter.StatusIn {
			statuses = append(statuses, string(s))
		}
		conditions = append(conditions, fmt.Sprintf("lr.status = ANY($%d)", argPos))
		args = append(args, statuses)
		argPos++
	}
	if len(filter.ApproverIn) > 0 {
		roles := make([]string, 0, len(filter.ApproverIn))
		for _, r := range filter.ApproverIn {
			roles = append(roles, string(r))
		}
		conditions = append(conditions, fmt.Sprintf("lr.current_approver = ANY($%d)", argPos))
		args = append(args, roles)
		argPos++
	}
	if filter.LeaveTypeID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.leave_type_id = $%d", argPos))
		args = append(args, *filter.LeaveTypeID)
		argPos++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM lr.start_date) = $%d", argPos))
		args = append(args, *filter.Month)
		argPos++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM lr.start_date) = $%d", argPos))
		args = append(args, *filter.Year)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM leave_requests lr WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := leaveRequestSelect + " WHERE " + where + " ORDER BY lr.submitted_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var lr leave.LeaveRequest
		if err := scanLeaveRequest(rows, &lr); err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}

	return requests, total, rows.Err()
}

// UpdateStatus implements leave.LeaveRequestRepository. The guard on
// status = 'pending' keeps transitions single-shot: a request already
// moved to a terminal state by a concurrent actor is not updated again.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, lr *leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
			approval_chain = $3,
			current_approver = $4,
			rejection_reason = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	commandTag, err := q.Exec(ctx, query,
		lr.ID, lr.Status, lr.ApprovalChain, lr.CurrentApprover, lr.RejectionReason,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrRequestNotPending
	}

	return nil
}

// MarkAttendanceCreated implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) MarkAttendanceCreated(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx,
		`UPDATE leave_requests SET attendance_created = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}
