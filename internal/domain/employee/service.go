package employee

import "context"

type EmployeeService interface {
	Create(ctx context.Context, req *CreateEmployeeRequest) (*Employee, error)
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByUserID(ctx context.Context, userID string) (*Employee, error)
	List(ctx context.Context, filter *ListEmployeesFilter) ([]Employee, int, error)
	ListByManager(ctx context.Context, managerID string) ([]Employee, error)
	Update(ctx context.Context, req *UpdateEmployeeRequest) (*Employee, error)
	Terminate(ctx context.Context, id string) error
}
