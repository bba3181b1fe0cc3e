package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrUserAlreadyLinked  = errors.New("user already linked to an employee")
	ErrInvalidManager     = errors.New("manager does not exist")
	ErrSelfManager        = errors.New("employee cannot be their own manager")
	ErrEmployeeTerminated = errors.New("employee is terminated")
	ErrProfileNotLinked   = errors.New("user has no employee profile")
)
