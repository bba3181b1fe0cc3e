package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/response"
)

// Principal is the authenticated caller extracted from JWT claims.
type Principal struct {
	UserID     string
	EmployeeID *string
	Role       user.Role
}

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// PrincipalFromRequest resolves the authenticated caller from the JWT
// claims. Returns nil when the token is missing or malformed.
func PrincipalFromRequest(r *http.Request) *Principal {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return nil
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}

	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if !role.Valid() {
		return nil
	}

	p := &Principal{
		UserID: userID,
		Role:   role,
	}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		p.EmployeeID = &employeeID
	}

	return p
}
