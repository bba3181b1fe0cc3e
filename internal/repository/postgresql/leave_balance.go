package postgresql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.total_quota, lb.used, lb.pending, lb.carried_forward,
			   lb.created_at, lb.updated_at,
			   lt.name, lt.code, lt.color
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.leave_type_id = $2 AND lb.year = $3
	`

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.TotalQuota, &b.Used, &b.Pending, &b.CarriedForward,
		&b.CreatedAt, &b.UpdatedAt,
		&b.LeaveTypeName, &b.LeaveTypeCode, &b.Color,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leave.ErrBalanceNotInitialized
		}
		return nil, err
	}

	return &b, nil
}

// ListByEmployee implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.total_quota, lb.used, lb.pending, lb.carried_forward,
			   lb.created_at, lb.updated_at,
			   lt.name, lt.code, lt.color
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&b.TotalQuota, &b.Used, &b.Pending, &b.CarriedForward,
			&b.CreatedAt, &b.UpdatedAt,
			&b.LeaveTypeName, &b.LeaveTypeCode, &b.Color,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// InitializeMissing implements leave.LeaveBalanceRepository. Existing
// rows are left untouched; the unique index on (employee_id,
// leave_type_id, year) backs the ON CONFLICT clause.
func (r *leaveBalanceRepositoryImpl) InitializeMissing(ctx context.Context, employeeID string, year int, types []leave.LeaveType) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			total_quota, used, pending, carried_forward,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, 0, 0, 0, NOW(), NOW())
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	created := 0
	for _, lt := range types {
		id, err := uuid.NewV7()
		if err != nil {
			return created, err
		}

		commandTag, err := q.Exec(ctx, query, id.String(), employeeID, lt.ID, year, lt.AnnualQuota)
		if err != nil {
			return created, err
		}
		created += int(commandTag.RowsAffected())
	}

	return created, nil
}

// Reserve implements leave.LeaveBalanceRepository. The guard in the
// WHERE clause makes the reservation atomic: two concurrent requests
// cannot both pass it for the same remaining quota.
func (r *leaveBalanceRepositoryImpl) Reserve(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending = pending + $4,
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		  AND total_quota + carried_forward - used - pending - $4 >= 0
	`

	commandTag, err := q.Exec(ctx, query, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		// Distinguish a missing ledger row from an exhausted one.
		var exists bool
		err := q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM leave_balances WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3)`,
			employeeID, leaveTypeID, year,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return leave.ErrBalanceNotInitialized
		}
		return leave.ErrInsufficientBalance
	}

	return nil
}

// Finalize implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Finalize(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending = pending - $4,
			used = used + $4,
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
			AND pending >= $4
	`

	commandTag, err := q.Exec(ctx, query, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}

// Release implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Release(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending = GREATEST(pending - $4, 0),
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	commandTag, err := q.Exec(ctx, query, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}

// AdminUpdate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) AdminUpdate(ctx context.Context, req *leave.UpdateBalanceRequest) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET total_quota = COALESCE($4, total_quota),
			used = COALESCE($5, used),
			pending = COALESCE($6, pending),
			carried_forward = COALESCE($7, carried_forward),
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.LeaveTypeID, req.Year,
		req.TotalQuota, req.Used, req.Pending, req.CarriedForward,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leave.ErrBalanceNotFound
		}
		return nil, err
	}

	return r.Get(ctx, req.EmployeeID, req.LeaveTypeID, req.Year)
}
