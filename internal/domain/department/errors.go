package department

import "errors"

var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentNameExists = errors.New("department name already exists")
	ErrDepartmentCodeExists = errors.New("department code already exists")
	ErrDepartmentHasMembers = errors.New("department still has employees assigned")
)
