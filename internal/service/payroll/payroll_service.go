package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/payroll"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

type PayrollServiceImpl struct {
	payrollRepository    payroll.PayrollRepository
	salaryRepository     payroll.SalaryStructureRepository
	employeeRepository   employee.EmployeeRepository
	attendanceRepository attendance.AttendanceRepository
	logger               *slog.Logger
}

func NewPayrollService(
	payrollRepository payroll.PayrollRepository,
	salaryRepository payroll.SalaryStructureRepository,
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepository:    payrollRepository,
		salaryRepository:     salaryRepository,
		employeeRepository:   employeeRepository,
		attendanceRepository: attendanceRepository,
		logger:               logger,
	}
}

// workingDaysInMonth counts the Monday to Friday days of a month.
func workingDaysInMonth(month time.Month, year int) int {
	days := 0
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// Generate implements payroll.PayrollService. Employees that already
// have a record for the period are skipped rather than failing the
// whole run.
func (s *PayrollServiceImpl) Generate(ctx context.Context, actor *payroll.Actor, req *payroll.GeneratePayrollRequest) (*payroll.GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	active := employee.StatusActive
	employees, _, err := s.employeeRepository.List(ctx, &employee.ListEmployeesFilter{Status: &active})
	if err != nil {
		return nil, err
	}

	month := time.Month(req.Month)
	workingDays := workingDaysInMonth(month, req.Year)

	result := &payroll.GenerateResult{}
	for i := range employees {
		emp := &employees[i]

		record, err := s.generateOne(ctx, actor, emp, month, req.Year, workingDays)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollExists) {
				result.Skipped = append(result.Skipped, emp.EmployeeCode)
				continue
			}
			if errors.Is(err, payroll.ErrSalaryStructureNotFound) {
				s.logger.Warn("no salary structure, skipping employee",
					slog.String("employee_code", emp.EmployeeCode))
				result.Skipped = append(result.Skipped, emp.EmployeeCode)
				continue
			}
			return nil, err
		}

		if record != nil {
			result.Generated++
		}
	}

	return result, nil
}

func (s *PayrollServiceImpl) generateOne(ctx context.Context, actor *payroll.Actor, emp *employee.Employee, month time.Month, year, workingDays int) (*payroll.PayrollRecord, error) {
	if existing, err := s.payrollRepository.GetByEmployeeAndPeriod(ctx, emp.ID, int(month), year); err == nil && existing != nil {
		return nil, payroll.ErrPayrollExists
	} else if err != nil && !errors.Is(err, payroll.ErrPayrollNotFound) {
		return nil, err
	}

	ss, err := s.salaryRepository.GetByEmployee(ctx, emp.ID)
	if err != nil {
		return nil, err
	}

	summary, err := s.attendanceRepository.SummarizeMonth(ctx, emp.ID, month, year)
	if err != nil {
		return nil, err
	}

	totalAllowances := ss.Allowances.Total()
	totalDeductions := ss.Deductions.Total()
	gross := ss.BasicSalary.Add(totalAllowances)
	net := payroll.ProratedNet(gross, totalDeductions, workingDays,
		summary.PresentDays, summary.HalfDays, summary.LateDays)

	record := &payroll.PayrollRecord{
		EmployeeID:      emp.ID,
		Month:           int(month),
		Year:            year,
		WorkingDays:     workingDays,
		PresentDays:     summary.PresentDays,
		LeaveDays:       summary.LeaveDays,
		HalfDays:        summary.HalfDays,
		LateDays:        summary.LateDays,
		BasicSalary:     ss.BasicSalary,
		TotalAllowances: totalAllowances,
		TotalDeductions: totalDeductions,
		GrossSalary:     gross,
		NetSalary:       net,
		Status:          payroll.StatusPending,
		GeneratedBy:     actor.UserID,
	}

	if err := s.payrollRepository.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// GetByID implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, actor *payroll.Actor, id string) (*payroll.PayrollRecord, error) {
	record, err := s.payrollRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == user.RoleEmployee {
		if actor.EmployeeID == nil || *actor.EmployeeID != record.EmployeeID {
			return nil, payroll.ErrPayrollNotFound
		}
	}

	return record, nil
}

// List implements payroll.PayrollService. Employees only ever see their
// own records.
func (s *PayrollServiceImpl) List(ctx context.Context, actor *payroll.Actor, filter *payroll.ListPayrollFilter) ([]payroll.PayrollRecord, int, error) {
	switch actor.Role {
	case user.RoleEmployee, user.RoleManager:
		if actor.EmployeeID == nil {
			return nil, 0, employee.ErrProfileNotLinked
		}
		filter.EmployeeID = actor.EmployeeID
		filter.EmployeeIDs = nil
	case user.RoleHR, user.RoleAdmin:
	}

	return s.payrollRepository.List(ctx, filter)
}

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, actor *payroll.Actor, id string) (*payroll.PayrollRecord, error) {
	record, err := s.payrollRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.Status != payroll.StatusPending {
		return nil, payroll.ErrPayrollNotPending
	}

	record.Status = payroll.StatusApproved
	record.ApprovedBy = &actor.UserID

	if err := s.payrollRepository.UpdateStatus(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, actor *payroll.Actor, req *payroll.MarkPaidRequest) (*payroll.PayrollRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.payrollRepository.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if record.Status != payroll.StatusApproved {
		return nil, payroll.ErrPayrollNotApproved
	}

	now := time.Now()
	record.Status = payroll.StatusPaid
	record.PaidAt = &now
	record.PaymentMethod = &req.PaymentMethod
	record.TransactionID = req.TransactionID

	if err := s.payrollRepository.UpdateStatus(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}
