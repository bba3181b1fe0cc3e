package payroll

import "errors"

var (
	ErrSalaryStructureNotFound = errors.New("salary structure not found")
	ErrSalaryStructureExists   = errors.New("salary structure already exists for employee")
	ErrPayrollNotFound         = errors.New("payroll record not found")
	ErrPayrollExists           = errors.New("payroll record already exists for this month")
	ErrPayrollNotPending       = errors.New("payroll record is not pending")
	ErrPayrollNotApproved      = errors.New("payroll record is not approved")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
)
