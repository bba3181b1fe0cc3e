package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/payroll"
)

type SalaryStructureServiceImpl struct {
	salaryRepository   payroll.SalaryStructureRepository
	employeeRepository employee.EmployeeRepository
}

func NewSalaryStructureService(
	salaryRepository payroll.SalaryStructureRepository,
	employeeRepository employee.EmployeeRepository,
) payroll.SalaryStructureService {
	return &SalaryStructureServiceImpl{
		salaryRepository:   salaryRepository,
		employeeRepository: employeeRepository,
	}
}

// Upsert implements payroll.SalaryStructureService. One structure per
// employee; a second upsert replaces the components.
func (s *SalaryStructureServiceImpl) Upsert(ctx context.Context, req *payroll.UpsertSalaryStructureRequest) (*payroll.SalaryStructure, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.employeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	effectiveOn, err := time.Parse("2006-01-02", req.EffectiveOn)
	if err != nil {
		return nil, err
	}

	existing, err := s.salaryRepository.GetByEmployee(ctx, req.EmployeeID)
	if err != nil && !errors.Is(err, payroll.ErrSalaryStructureNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.BasicSalary = req.BasicSalary
		existing.Allowances = req.Allowances
		existing.Deductions = req.Deductions
		existing.EffectiveOn = effectiveOn
		if err := s.salaryRepository.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	ss := &payroll.SalaryStructure{
		EmployeeID:  req.EmployeeID,
		BasicSalary: req.BasicSalary,
		Allowances:  req.Allowances,
		Deductions:  req.Deductions,
		EffectiveOn: effectiveOn,
	}
	if err := s.salaryRepository.Create(ctx, ss); err != nil {
		return nil, err
	}

	return ss, nil
}

// GetByEmployee implements payroll.SalaryStructureService.
func (s *SalaryStructureServiceImpl) GetByEmployee(ctx context.Context, employeeID string) (*payroll.SalaryStructure, error) {
	return s.salaryRepository.GetByEmployee(ctx, employeeID)
}

// List implements payroll.SalaryStructureService.
func (s *SalaryStructureServiceImpl) List(ctx context.Context) ([]payroll.SalaryStructure, error) {
	return s.salaryRepository.List(ctx)
}
