package leave

import (
	"context"

	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
	"github.com/staffhub/hrm-backend-go/internal/repository/postgresql"
)

type BalanceServiceImpl struct {
	leaveTypeRepository    leave.LeaveTypeRepository
	leaveBalanceRepository leave.LeaveBalanceRepository
	employeeRepository     employee.EmployeeRepository

	// withTx is swappable for tests.
	withTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewLeaveBalanceService(
	db *database.DB,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	employeeRepository employee.EmployeeRepository,
) leave.LeaveBalanceService {
	return &BalanceServiceImpl{
		leaveTypeRepository:    leaveTypeRepository,
		leaveBalanceRepository: leaveBalanceRepository,
		employeeRepository:     employeeRepository,
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// Initialize implements leave.LeaveBalanceService. Existing ledger rows
// are never touched, so calling this twice for the same year is safe.
func (s *BalanceServiceImpl) Initialize(ctx context.Context, employeeID string, year int) (int, error) {
	if _, err := s.employeeRepository.GetByID(ctx, employeeID); err != nil {
		return 0, err
	}

	types, err := s.leaveTypeRepository.List(ctx, true)
	if err != nil {
		return 0, err
	}

	var created int
	err = s.withTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.leaveBalanceRepository.InitializeMissing(txCtx, employeeID, year, types)
		return txErr
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// GetMyBalance implements leave.LeaveBalanceService.
func (s *BalanceServiceImpl) GetMyBalance(ctx context.Context, actor *leave.Actor, year int) ([]leave.LeaveBalance, error) {
	if actor.EmployeeID == nil {
		return nil, employee.ErrProfileNotLinked
	}
	return s.leaveBalanceRepository.ListByEmployee(ctx, *actor.EmployeeID, year)
}

// GetEmployeeBalance implements leave.LeaveBalanceService.
func (s *BalanceServiceImpl) GetEmployeeBalance(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	if _, err := s.employeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.leaveBalanceRepository.ListByEmployee(ctx, employeeID, year)
}

// AdminUpdate implements leave.LeaveBalanceService. The overwrite
// bypasses the workflow on purpose; it is the HR escape hatch for
// corrections.
func (s *BalanceServiceImpl) AdminUpdate(ctx context.Context, req *leave.UpdateBalanceRequest) (*leave.LeaveBalance, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.leaveBalanceRepository.AdminUpdate(ctx, req)
}
