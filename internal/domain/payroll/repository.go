package payroll

import "context"

type SalaryStructureRepository interface {
	Create(ctx context.Context, ss *SalaryStructure) error
	GetByEmployee(ctx context.Context, employeeID string) (*SalaryStructure, error)
	Update(ctx context.Context, ss *SalaryStructure) error
	List(ctx context.Context) ([]SalaryStructure, error)
}

type PayrollRepository interface {
	Create(ctx context.Context, pr *PayrollRecord) error
	GetByID(ctx context.Context, id string) (*PayrollRecord, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*PayrollRecord, error)
	List(ctx context.Context, filter *ListPayrollFilter) ([]PayrollRecord, int, error)
	UpdateStatus(ctx context.Context, pr *PayrollRecord) error
}
