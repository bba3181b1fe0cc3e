package payroll

import (
	"context"

	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

type Actor struct {
	UserID     string
	EmployeeID *string
	Role       user.Role
}

type SalaryStructureService interface {
	Upsert(ctx context.Context, req *UpsertSalaryStructureRequest) (*SalaryStructure, error)
	GetByEmployee(ctx context.Context, employeeID string) (*SalaryStructure, error)
	List(ctx context.Context) ([]SalaryStructure, error)
}

type PayrollService interface {
	Generate(ctx context.Context, actor *Actor, req *GeneratePayrollRequest) (*GenerateResult, error)
	GetByID(ctx context.Context, actor *Actor, id string) (*PayrollRecord, error)
	List(ctx context.Context, actor *Actor, filter *ListPayrollFilter) ([]PayrollRecord, int, error)
	Approve(ctx context.Context, actor *Actor, id string) (*PayrollRecord, error)
	MarkPaid(ctx context.Context, actor *Actor, req *MarkPaidRequest) (*PayrollRecord, error)
}
