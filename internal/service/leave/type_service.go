package leave

import (
	"context"

	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
)

type TypeServiceImpl struct {
	leaveTypeRepository leave.LeaveTypeRepository
}

func NewLeaveTypeService(leaveTypeRepository leave.LeaveTypeRepository) leave.LeaveTypeService {
	return &TypeServiceImpl{leaveTypeRepository: leaveTypeRepository}
}

// Create implements leave.LeaveTypeService.
func (s *TypeServiceImpl) Create(ctx context.Context, req *leave.CreateLeaveTypeRequest) (*leave.LeaveType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lt := &leave.LeaveType{
		Name:                  req.Name,
		Code:                  req.Code,
		Description:           req.Description,
		Color:                 req.Color,
		AnnualQuota:           req.AnnualQuota,
		IsPaid:                req.IsPaid,
		RequiresDocumentation: req.RequiresDocumentation,
		MaxConsecutiveDays:    req.MaxConsecutiveDays,
	}

	if err := s.leaveTypeRepository.Create(ctx, lt); err != nil {
		return nil, err
	}

	return lt, nil
}

// GetByID implements leave.LeaveTypeService.
func (s *TypeServiceImpl) GetByID(ctx context.Context, id string) (*leave.LeaveType, error) {
	return s.leaveTypeRepository.GetByID(ctx, id)
}

// List implements leave.LeaveTypeService.
func (s *TypeServiceImpl) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	return s.leaveTypeRepository.List(ctx, activeOnly)
}

// Update implements leave.LeaveTypeService.
func (s *TypeServiceImpl) Update(ctx context.Context, req *leave.UpdateLeaveTypeRequest) (*leave.LeaveType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.leaveTypeRepository.Update(ctx, req)
}

// Deactivate implements leave.LeaveTypeService. Leave types are never
// hard-deleted: balances and requests keep referencing them.
func (s *TypeServiceImpl) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := s.leaveTypeRepository.Update(ctx, &leave.UpdateLeaveTypeRequest{
		ID:       id,
		IsActive: &inactive,
	})
	return err
}
