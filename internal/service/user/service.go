package user

import (
	"context"

	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

type UserServiceImpl struct {
	userRepository user.UserRepository
}

func NewUserService(userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{userRepository: userRepository}
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.userRepository.GetByID(ctx, id)
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.User, error) {
	return s.userRepository.List(ctx)
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req *user.UpdateUserRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.userRepository.Update(ctx, req)
}
