package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByRole(ctx context.Context, role Role) ([]User, error)
	Update(ctx context.Context, req *UpdateUserRequest) (*User, error)
	List(ctx context.Context) ([]User, error)
}
