package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, dept *Department) error
	GetByID(ctx context.Context, id string) (*Department, error)
	GetByCode(ctx context.Context, code string) (*Department, error)
	List(ctx context.Context, activeOnly bool) ([]Department, error)
	Update(ctx context.Context, req *UpdateDepartmentRequest) (*Department, error)
	CountMembers(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}
