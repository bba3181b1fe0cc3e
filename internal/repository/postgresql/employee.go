package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

const employeeSelect = `
	SELECT e.id, e.user_id, e.employee_code, e.first_name, e.last_name, e.phone,
		   e.position, e.department_id, e.manager_id, e.join_date, e.base_salary,
		   e.status, e.created_at, e.updated_at,
		   e.first_name || ' ' || e.last_name AS full_name,
		   d.name AS department_name,
		   CASE WHEN m.id IS NULL THEN NULL
				ELSE m.first_name || ' ' || m.last_name END AS manager_name,
		   u.email
	FROM employees e
	LEFT JOIN departments d ON e.department_id = d.id
	LEFT JOIN employees m ON e.manager_id = m.id
	JOIN users u ON e.user_id = u.id
`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row, emp *employee.Employee) error {
	return row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Phone,
		&emp.Position, &emp.DepartmentID, &emp.ManagerID, &emp.JoinDate, &emp.BaseSalary,
		&emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
		&emp.FullName,
		&emp.DepartmentName,
		&emp.ManagerName,
		&emp.Email,
	)
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp *employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	if emp.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		emp.ID = id.String()
	}

	query := `
		INSERT INTO employees (
			id, user_id, employee_code, first_name, last_name, phone,
			position, department_id, manager_id, join_date, base_salary, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID, emp.UserID, emp.EmployeeCode, emp.FirstName, emp.LastName, emp.Phone,
		emp.Position, emp.DepartmentID, emp.ManagerID, emp.JoinDate, emp.BaseSalary, emp.Status,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "user_id") {
				return employee.ErrUserAlreadyLinked
			}
			return employee.ErrEmployeeCodeExists
		}
		return err
	}

	return nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	return r.getOne(ctx, "e.id = $1", id)
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	return r.getOne(ctx, "e.user_id = $1", userID)
}

// GetByCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return r.getOne(ctx, "e.employee_code = $1", code)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var emp employee.Employee
	err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE "+where, arg), &emp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &emp, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter *employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argPos))
		args = append(args, *filter.DepartmentID)
		argPos++
	}
	if filter.ManagerID != nil {
		conditions = append(conditions, fmt.Sprintf("e.manager_id = $%d", argPos))
		args = append(args, *filter.ManagerID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.employee_code ILIKE $%d)",
			argPos, argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM employees e WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := employeeSelect + " WHERE " + where + " ORDER BY e.employee_code"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var emp employee.Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}

	return employees, total, rows.Err()
}

// ListByManager implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+" WHERE e.manager_id = $1 ORDER BY e.employee_code", managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var emp employee.Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, req *employee.UpdateEmployeeRequest) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			phone = COALESCE($4, phone),
			position = COALESCE($5, position),
			department_id = COALESCE($6, department_id),
			manager_id = COALESCE($7, manager_id),
			base_salary = COALESCE($8, base_salary),
			status = COALESCE($9, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		req.ID, req.FirstName, req.LastName, req.Phone, req.Position,
		req.DepartmentID, req.ManagerID, req.BaseSalary, req.Status,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// NextCodeSequence implements employee.EmployeeRepository. The returned
// sequence is the highest existing numeric suffix for the prefix plus
// one, computed in SQL so concurrent creates at worst collide on the
// unique index and retry.
func (r *employeeRepositoryImpl) NextCodeSequence(ctx context.Context, prefix string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(employee_code FROM LENGTH($1) + 2) AS INT)), 0) + 1
		FROM employees
		WHERE employee_code LIKE $1 || '-%'
	`

	var next int
	if err := q.QueryRow(ctx, query, prefix).Scan(&next); err != nil {
		return 0, err
	}

	return next, nil
}
