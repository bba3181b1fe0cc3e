package user

import "context"

type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, req *UpdateUserRequest) (*User, error)
}
