package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/staffhub/hrm-backend-go/internal/domain/department"
	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
	"github.com/staffhub/hrm-backend-go/internal/repository/postgresql"
)

// Employees without a department get codes under this prefix.
const defaultCodePrefix = "EMP"

type EmployeeServiceImpl struct {
	db                   *database.DB
	employeeRepository   employee.EmployeeRepository
	departmentRepository department.DepartmentRepository
	userRepository       user.UserRepository
}

func NewEmployeeService(
	db *database.DB,
	employeeRepository employee.EmployeeRepository,
	departmentRepository department.DepartmentRepository,
	userRepository user.UserRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:                   db,
		employeeRepository:   employeeRepository,
		departmentRepository: departmentRepository,
		userRepository:       userRepository,
	}
}

// Create implements employee.EmployeeService. The employee code is
// derived from the department code plus the next free sequence number,
// inside a transaction so two creates cannot claim the same code.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req *employee.CreateEmployeeRequest) (*employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepository.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return nil, fmt.Errorf("parse join_date: %w", err)
	}

	var emp *employee.Employee
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		prefix := defaultCodePrefix
		if req.DepartmentID != nil {
			dept, err := s.departmentRepository.GetByID(txCtx, *req.DepartmentID)
			if err != nil {
				return err
			}
			prefix = dept.Code
		}

		if req.ManagerID != nil {
			if _, err := s.employeeRepository.GetByID(txCtx, *req.ManagerID); err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					return employee.ErrInvalidManager
				}
				return err
			}
		}

		seq, err := s.employeeRepository.NextCodeSequence(txCtx, prefix)
		if err != nil {
			return err
		}

		emp = &employee.Employee{
			UserID:       req.UserID,
			EmployeeCode: fmt.Sprintf("%s-%03d", prefix, seq),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Position:     req.Position,
			DepartmentID: req.DepartmentID,
			ManagerID:    req.ManagerID,
			JoinDate:     joinDate,
			BaseSalary:   req.BaseSalary,
			Status:       employee.StatusActive,
		}

		return s.employeeRepository.Create(txCtx, emp)
	})
	if err != nil {
		return nil, err
	}

	return s.employeeRepository.GetByID(ctx, emp.ID)
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	return s.employeeRepository.GetByID(ctx, id)
}

// GetByUserID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	emp, err := s.employeeRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, employee.ErrProfileNotLinked
		}
		return nil, err
	}
	return emp, nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter *employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
	return s.employeeRepository.List(ctx, filter)
}

// ListByManager implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	return s.employeeRepository.ListByManager(ctx, managerID)
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req *employee.UpdateEmployeeRequest) (*employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.ManagerID != nil {
		if *req.ManagerID == req.ID {
			return nil, employee.ErrSelfManager
		}
		if _, err := s.employeeRepository.GetByID(ctx, *req.ManagerID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return nil, employee.ErrInvalidManager
			}
			return nil, err
		}
	}

	return s.employeeRepository.Update(ctx, req)
}

// Terminate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Terminate(ctx context.Context, id string) error {
	status := employee.StatusTerminated
	_, err := s.employeeRepository.Update(ctx, &employee.UpdateEmployeeRequest{
		ID:     id,
		Status: &status,
	})
	return err
}
