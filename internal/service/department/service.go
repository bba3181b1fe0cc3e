package department

import (
	"context"

	"github.com/staffhub/hrm-backend-go/internal/domain/department"
)

type DepartmentServiceImpl struct {
	departmentRepository department.DepartmentRepository
}

func NewDepartmentService(departmentRepository department.DepartmentRepository) department.DepartmentService {
	return &DepartmentServiceImpl{departmentRepository: departmentRepository}
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req *department.CreateDepartmentRequest) (*department.Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dept := &department.Department{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	}

	if err := s.departmentRepository.Create(ctx, dept); err != nil {
		return nil, err
	}

	return dept, nil
}

// GetByID implements department.DepartmentService.
func (s *DepartmentServiceImpl) GetByID(ctx context.Context, id string) (*department.Department, error) {
	return s.departmentRepository.GetByID(ctx, id)
}

// List implements department.DepartmentService.
func (s *DepartmentServiceImpl) List(ctx context.Context, activeOnly bool) ([]department.Department, error) {
	return s.departmentRepository.List(ctx, activeOnly)
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, req *department.UpdateDepartmentRequest) (*department.Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.departmentRepository.Update(ctx, req)
}

// Delete implements department.DepartmentService. A department that
// still has employees is deactivated instead of removed.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id string) error {
	count, err := s.departmentRepository.CountMembers(ctx, id)
	if err != nil {
		return err
	}

	if count > 0 {
		inactive := false
		_, err := s.departmentRepository.Update(ctx, &department.UpdateDepartmentRequest{
			ID:       id,
			IsActive: &inactive,
		})
		return err
	}

	return s.departmentRepository.Delete(ctx, id)
}
