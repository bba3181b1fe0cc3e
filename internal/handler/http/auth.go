package http

import (
	"encoding/json"
	"net/http"

	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/middleware"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/response"
	"github.com/staffhub/hrm-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
	userService user.UserService
	jwtService  jwt.Service
}

func NewAuthHandler(authService auth.AuthService, userService user.UserService, jwtService jwt.Service) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register implements AuthHandler.
func (h *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.jwtService.RefreshTokenCookie(result.RefreshToken, result.RefreshTokenExpiresAt))
	response.Created(w, "User registered", result)
}

// Login implements AuthHandler.
func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.jwtService.RefreshTokenCookie(result.RefreshToken, result.RefreshTokenExpiresAt))
	response.Success(w, result)
}

// Refresh implements AuthHandler.
func (h *AuthHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Logout implements AuthHandler.
func (h *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	// Expire the cookie regardless of whether one was presented.
	expired := h.jwtService.RefreshTokenCookie("", 0)
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	response.SuccessWithMessage(w, "Logged out", nil)
}

// Me implements AuthHandler.
func (h *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromRequest(r)
	if principal == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	u, err := h.userService.GetByID(r.Context(), principal.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user.UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		EmployeeID: u.EmployeeID,
	})
}
