package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/response"
)

func roleFromContext(r *http.Request) (user.Role, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", false
	}

	role := user.Role(roleStr)
	return role, role.Valid()
}

// RequireAdmin requires the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromContext(r)
		if !ok || role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireHROrAdmin requires the hr or admin role.
func RequireHROrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromContext(r)
		if !ok {
			response.HandleError(w, user.ErrHROrAdminRequired)
			return
		}

		switch role {
		case user.RoleHR, user.RoleAdmin:
			next.ServeHTTP(w, r)
		case user.RoleEmployee, user.RoleManager:
			response.HandleError(w, user.ErrHROrAdminRequired)
		}
	})
}

// RequirePermission gates a route on an entry in the role permission
// table rather than a hard-coded role set.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := roleFromContext(r)
			if !ok || !user.HasPermission(role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
