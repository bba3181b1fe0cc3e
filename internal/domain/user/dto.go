package user

import "github.com/staffhub/hrm-backend-go/internal/pkg/validator"

type UpdateUserRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "user id is required",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid address",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Role != nil && !Role(*r.Role).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of employee, manager, hr, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UserResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	IsActive   bool    `json:"is_active"`
	EmployeeID *string `json:"employee_id,omitempty"`
}
