package postgresql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staffhub/hrm-backend-go/internal/domain/payroll"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

const salaryStructureSelect = `
	SELECT s.id, s.employee_id, s.basic_salary, s.allowances, s.deductions,
		   s.effective_on, s.created_at, s.updated_at,
		   e.first_name || ' ' || e.last_name AS employee_name,
		   e.employee_code
	FROM salary_structures s
	JOIN employees e ON s.employee_id = e.id
`

type salaryStructureRepositoryImpl struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) payroll.SalaryStructureRepository {
	return &salaryStructureRepositoryImpl{db: db}
}

func scanSalaryStructure(row pgx.Row, ss *payroll.SalaryStructure) error {
	return row.Scan(
		&ss.ID, &ss.EmployeeID, &ss.BasicSalary, &ss.Allowances, &ss.Deductions,
		&ss.EffectiveOn, &ss.CreatedAt, &ss.UpdatedAt,
		&ss.EmployeeName,
		&ss.EmployeeCode,
	)
}

// Create implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) Create(ctx context.Context, ss *payroll.SalaryStructure) error {
	q := GetQuerier(ctx, r.db)

	if ss.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		ss.ID = id.String()
	}

	query := `
		INSERT INTO salary_structures (
			id, employee_id, basic_salary, allowances, deductions, effective_on,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ss.ID, ss.EmployeeID, ss.BasicSalary, ss.Allowances, ss.Deductions, ss.EffectiveOn,
	).Scan(&ss.CreatedAt, &ss.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.ErrSalaryStructureExists
		}
		return err
	}

	return nil
}

// GetByEmployee implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string) (*payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	var ss payroll.SalaryStructure
	err := scanSalaryStructure(q.QueryRow(ctx, salaryStructureSelect+" WHERE s.employee_id = $1", employeeID), &ss)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payroll.ErrSalaryStructureNotFound
		}
		return nil, err
	}

	return &ss, nil
}

// Update implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) Update(ctx context.Context, ss *payroll.SalaryStructure) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_structures
		SET basic_salary = $2,
			allowances = $3,
			deductions = $4,
			effective_on = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		ss.ID, ss.BasicSalary, ss.Allowances, ss.Deductions, ss.EffectiveOn,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.ErrSalaryStructureNotFound
	}

	return nil
}

// List implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) List(ctx context.Context) ([]payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, salaryStructureSelect+" ORDER BY e.employee_code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	structures := make([]payroll.SalaryStructure, 0)
	for rows.Next() {
		var ss payroll.SalaryStructure
		if err := scanSalaryStructure(rows, &ss); err != nil {
			return nil, err
		}
		structures = append(structures, ss)
	}

	return structures, rows.Err()
}
