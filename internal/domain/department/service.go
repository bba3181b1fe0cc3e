package department

import "context"

type DepartmentService interface {
	Create(ctx context.Context, req *CreateDepartmentRequest) (*Department, error)
	GetByID(ctx context.Context, id string) (*Department, error)
	List(ctx context.Context, activeOnly bool) ([]Department, error)
	Update(ctx context.Context, req *UpdateDepartmentRequest) (*Department, error)
	Delete(ctx context.Context, id string) error
}
