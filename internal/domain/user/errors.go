package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailExists            = errors.New("email already registered")
	ErrInvalidRole            = errors.New("invalid role")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrApproverRoleRequired   = errors.New("manager, hr or admin role required")
	ErrHROrAdminRequired      = errors.New("hr or admin role required")
)
