package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staffhub/hrm-backend-go/internal/domain/payroll"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
)

const payrollSelect = `
	SELECT p.id, p.employee_id, p.month, p.year,
		   p.working_days, p.present_days, p.leave_days, p.half_days, p.late_days,
		   p.basic_salary, p.total_allowances, p.total_deductions,
		   p.gross_salary, p.net_salary,
		   p.status, p.generated_by, p.approved_by,
		   p.paid_at, p.payment_method, p.transaction_id,
		   p.created_at, p.updated_at,
		   e.first_name || ' ' || e.last_name AS employee_name,
		   e.employee_code
	FROM payroll_records p
	JOIN employees e ON p.employee_id = e.id
`

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

func scanPayroll(row pgx.Row, pr *payroll.PayrollRecord) error {
	return row.Scan(
		&pr.ID, &pr.EmployeeID, &pr.Month, &pr.Year,
		&pr.WorkingDays, &pr.PresentDays, &pr.LeaveDays, &pr.HalfDays, &pr.LateDays,
		&pr.BasicSalary, &pr.TotalAllowances, &pr.TotalDeductions,
		&pr.GrossSalary, &pr.NetSalary,
		&pr.Status, &pr.GeneratedBy, &pr.ApprovedBy,
		&pr.PaidAt, &pr.PaymentMethod, &pr.TransactionID,
		&pr.CreatedAt, &pr.UpdatedAt,
		&pr.EmployeeName,
		&pr.EmployeeCode,
	)
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, pr *payroll.PayrollRecord) error {
	q := GetQuerier(ctx, r.db)

	if pr.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		pr.ID = id.String()
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, month, year,
			working_days, present_days, leave_days, half_days, late_days,
			basic_salary, total_allowances, total_deductions,
			gross_salary, net_salary,
			status, generated_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		pr.ID, pr.EmployeeID, pr.Month, pr.Year,
		pr.WorkingDays, pr.PresentDays, pr.LeaveDays, pr.HalfDays, pr.LateDays,
		pr.BasicSalary, pr.TotalAllowances, pr.TotalDeductions,
		pr.GrossSalary, pr.NetSalary,
		pr.Status, pr.GeneratedBy,
	).Scan(&pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.ErrPayrollExists
		}
		return err
	}

	return nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	var pr payroll.PayrollRecord
	err := scanPayroll(q.QueryRow(ctx, payrollSelect+" WHERE p.id = $1", id), &pr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payroll.ErrPayrollNotFound
		}
		return nil, err
	}

	return &pr, nil
}

// GetByEmployeeAndPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	var pr payroll.PayrollRecord
	err := scanPayroll(q.QueryRow(ctx,
		payrollSelect+" WHERE p.employee_id = $1 AND p.month = $2 AND p.year = $3",
		employeeID, month, year), &pr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payroll.ErrPayrollNotFound
		}
		return nil, err
	}

	return &pr, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter *payroll.ListPayrollFilter) ([]payroll.PayrollRecord, int, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.EmployeeIDs != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = ANY($%d)", argPos))
		args = append(args, filter.EmployeeIDs)
		argPos++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("p.month = $%d", argPos))
		args = append(args, *filter.Month)
		argPos++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", argPos))
		args = append(args, *filter.Year)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM payroll_records p WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := payrollSelect + " WHERE " + where + " ORDER BY p.year DESC, p.month DESC, e.employee_code"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]payroll.PayrollRecord, 0)
	for rows.Next() {
		var pr payroll.PayrollRecord
		if err := scanPayroll(rows, &pr); err != nil {
			return nil, 0, err
		}
		records = append(records, pr)
	}

	return records, total, rows.Err()
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateStatus(ctx context.Context, pr *payroll.PayrollRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = $2,
			approved_by = $3,
			paid_at = $4,
			payment_method = $5,
			transaction_id = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		pr.ID, pr.Status, pr.ApprovedBy, pr.PaidAt, pr.PaymentMethod, pr.TransactionID,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}
