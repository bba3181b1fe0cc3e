package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	jwtpkg "github.com/staffhub/hrm-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	userRepository user.UserRepository
	jwtService     jwtpkg.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwtpkg.Service) auth.AuthService {
	return &AuthServiceImpl{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// Register implements auth.AuthService. Role assignment is gated at the
// router level (admin only).
func (s *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.Role(req.Role),
		IsActive:     true,
	}

	if err := s.userRepository.Create(ctx, newUser); err != nil {
		return auth.LoginResponse{}, err
	}

	return s.issueTokens(newUser)
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if !u.IsActive {
		return auth.LoginResponse{}, auth.ErrAccountDisabled
	}

	return s.issueTokens(u)
}

// Refresh implements auth.AuthService.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.RefreshResponse, error) {
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.RefreshResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := s.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return auth.RefreshResponse{}, auth.ErrTokenExpired
		}
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	u, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.RefreshResponse{}, auth.ErrInvalidToken
	}
	if !u.IsActive {
		return auth.RefreshResponse{}, auth.ErrAccountDisabled
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.Role)
	if err != nil {
		return auth.RefreshResponse{}, fmt.Errorf("generate access token: %w", err)
	}

	return auth.RefreshResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrInvalidToken
	}
	s.jwtService.RevokeToken(refreshToken)
	return nil
}

func (s *AuthServiceImpl) issueTokens(u *user.User) (auth.LoginResponse, error) {
	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("generate refresh token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User: user.UserResponse{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Role:       u.Role,
			IsActive:   u.IsActive,
			EmployeeID: u.EmployeeID,
		},
	}, nil
}
