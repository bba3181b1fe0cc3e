package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, emp *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByUserID(ctx context.Context, userID string) (*Employee, error)
	GetByCode(ctx context.Context, code string) (*Employee, error)
	List(ctx context.Context, filter *ListEmployeesFilter) ([]Employee, int, error)
	ListByManager(ctx context.Context, managerID string) ([]Employee, error)
	Update(ctx context.Context, req *UpdateEmployeeRequest) (*Employee, error)
	NextCodeSequence(ctx context.Context, prefix string) (int, error)
}
