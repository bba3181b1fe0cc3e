package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/staffhub/hrm-backend-go/internal/pkg/validator"
)

type UpsertSalaryStructureRequest struct {
	EmployeeID  string           `json:"employee_id"`
	BasicSalary decimal.Decimal  `json:"basic_salary"`
	Allowances  SalaryComponents `json:"allowances"`
	Deductions  SalaryComponents `json:"deductions"`
	EffectiveOn string           `json:"effective_on"`
}

func (r *UpsertSalaryStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if r.BasicSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "basic_salary",
			Message: "basic_salary must not be negative",
		})
	}

	if !validator.IsValidDate(r.EffectiveOn) {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_on",
			Message: "effective_on must be in YYYY-MM-DD format",
		})
	}

	for _, c := range r.Allowances {
		if validator.IsEmpty(c.Name) || c.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "allowances",
				Message: "each allowance needs a name and a non-negative amount",
			})
			break
		}
	}

	for _, c := range r.Deductions {
		if validator.IsEmpty(c.Name) || c.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "deductions",
				Message: "each deduction needs a name and a non-negative amount",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GeneratePayrollRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// GenerateResult reports the outcome of a payroll run. Skipped lists
// employees that already had a record for the period.
type GenerateResult struct {
	Generated int      `json:"generated"`
	Skipped   []string `json:"skipped,omitempty"`
}

type MarkPaidRequest struct {
	ID            string  `json:"-"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.PaymentMethod, PaymentMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "payment_method",
			Message: "payment_method must be one of bank_transfer, cash, check",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListPayrollFilter struct {
	EmployeeID  *string
	EmployeeIDs []string
	Month       *int
	Year        *int
	Status      *PayrollStatus
	Limit       int
	Offset      int
}
