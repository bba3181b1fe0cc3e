package auth

import "context"

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
