package postgresql

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, lt *leave.LeaveType) error {
	q := GetQuerier(ctx, r.db)

	if lt.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		lt.ID = id.String()
	}

	query := `
		INSERT INTO leave_types (
			id, name, code, description, color,
			annual_quota, is_paid, requires_documentation, max_consecutive_days,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, NOW(), NOW())
		RETURNING is_active, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lt.ID, lt.Name, lt.Code, lt.Description, lt.Color,
		lt.AnnualQuota, lt.IsPaid, lt.RequiresDocumentation, lt.MaxConsecutiveDays,
	).Scan(&lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "code") {
				return leave.ErrLeaveTypeCodeExists
			}
			return leave.ErrLeaveTypeNameExists
		}
		return err
	}

	return nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (*leave.LeaveType, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByCode implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByCode(ctx context.Context, code string) (*leave.LeaveType, error) {
	return r.getOne(ctx, "code = $1", code)
}

func (r *leaveTypeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (*leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, description, color,
			   annual_quota, is_paid, requires_documentation, max_consecutive_days,
			   is_active, created_at, updated_at
		FROM leave_types
		WHERE ` + where

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, arg).Scan(
		&lt.ID, &lt.Name, &lt.Code, &lt.Description, &lt.Color,
		&lt.AnnualQuota, &lt.IsPaid, &lt.RequiresDocumentation, &lt.MaxConsecutiveDays,
		&lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leave.ErrLeaveTypeNotFound
		}
		return nil, err
	}

	return &lt, nil
}

// List implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, description, color,
			   annual_quota, is_paid, requires_documentation, max_consecutive_days,
			   is_active, created_at, updated_at
		FROM leave_types
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]leave.LeaveType, 0)
	for rows.Next() {
		var lt leave.LeaveType
		if err := rows.Scan(
			&lt.ID, &lt.Name, &lt.Code, &lt.Description, &lt.Color,
			&lt.AnnualQuota, &lt.IsPaid, &lt.RequiresDocumentation, &lt.MaxConsecutiveDays,
			&lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		types = append(types, lt)
	}

	return types, rows.Err()
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Update(ctx context.Context, req *leave.UpdateLeaveTypeRequest) (*leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_types
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			color = COALESCE($4, color),
			annual_quota = COALESCE($5, annual_quota),
			is_paid = COALESCE($6, is_paid),
			requires_documentation = COALESCE($7, requires_documentation),
			max_consecutive_days = COALESCE($8, max_consecutive_days),
			is_active = COALESCE($9, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		req.ID, req.Name, req.Description, req.Color,
		req.AnnualQuota, req.IsPaid, req.RequiresDocumentation, req.MaxConsecutiveDays,
		req.IsActive,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leave.ErrLeaveTypeNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, leave.ErrLeaveTypeNameExists
		}
		return nil, err
	}

	return r.GetByID(ctx, id)
}
