package postgresql

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staffhub/hrm-backend-go/internal/domain/department"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, dept *department.Department) error {
	q := GetQuerier(ctx, r.db)

	if dept.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		dept.ID = id.String()
	}

	query := `
		INSERT INTO departments (id, name, code, description, manager_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		RETURNING is_active, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		dept.ID, dept.Name, dept.Code, dept.Description, dept.ManagerID,
	).Scan(&dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "code") {
				return department.ErrDepartmentCodeExists
			}
			return department.ErrDepartmentNameExists
		}
		return err
	}

	return nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (*department.Department, error) {
	return r.getOne(ctx, "d.id = $1", id)
}

// GetByCode implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByCode(ctx context.Context, code string) (*department.Department, error) {
	return r.getOne(ctx, "d.code = $1", code)
}

func (r *departmentRepositoryImpl) getOne(ctx context.Context, where string, arg any) (*department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.code, d.description, d.manager_id, d.is_active,
			   d.created_at, d.updated_at,
			   CASE WHEN e.id IS NULL THEN NULL
					ELSE e.first_name || ' ' || e.last_name END AS manager_name,
			   (SELECT COUNT(*) FROM employees m WHERE m.department_id = d.id) AS employee_count
		FROM departments d
		LEFT JOIN employees e ON d.manager_id = e.id
		WHERE ` + where

	var dept department.Department
	err := q.QueryRow(ctx, query, arg).Scan(
		&dept.ID, &dept.Name, &dept.Code, &dept.Description, &dept.ManagerID, &dept.IsActive,
		&dept.CreatedAt, &dept.UpdatedAt,
		&dept.ManagerName, &dept.EmployeeCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, err
	}

	return &dept, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.code, d.description, d.manager_id, d.is_active,
			   d.created_at, d.updated_at,
			   CASE WHEN e.id IS NULL THEN NULL
					ELSE e.first_name || ' ' || e.last_name END AS manager_name,
			   (SELECT COUNT(*) FROM employees m WHERE m.department_id = d.id) AS employee_count
		FROM departments d
		LEFT JOIN employees e ON d.manager_id = e.id
	`
	if activeOnly {
		query += " WHERE d.is_active = TRUE"
	}
	query += " ORDER BY d.name"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	depts := make([]department.Department, 0)
	for rows.Next() {
		var dept department.Department
		if err := rows.Scan(
			&dept.ID, &dept.Name, &dept.Code, &dept.Description, &dept.ManagerID, &dept.IsActive,
			&dept.CreatedAt, &dept.UpdatedAt,
			&dept.ManagerName, &dept.EmployeeCount,
		); err != nil {
			return nil, err
		}
		depts = append(depts, dept)
	}

	return depts, rows.Err()
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, req *department.UpdateDepartmentRequest) (*department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			manager_id = COALESCE($4, manager_id),
			is_active = COALESCE($5, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		req.ID, req.Name, req.Description, req.ManagerID, req.IsActive,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, department.ErrDepartmentNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, department.ErrDepartmentNameExists
		}
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// CountMembers implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) CountMembers(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE department_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}

	return nil
}
