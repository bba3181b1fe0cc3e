package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryComponent is a named allowance or deduction line.
type SalaryComponent struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SalaryComponents is stored as JSONB on the salary structure.
type SalaryComponents []SalaryComponent

// Value implements driver.Valuer for database storage
func (sc SalaryComponents) Value() (driver.Value, error) {
	if sc == nil {
		return json.Marshal(SalaryComponents{})
	}
	return json.Marshal(sc)
}

// Scan implements sql.Scanner for database retrieval
func (sc *SalaryComponents) Scan(value interface{}) error {
	if value == nil {
		*sc = SalaryComponents{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan SalaryComponents: invalid type")
	}

	return json.Unmarshal(bytes, sc)
}

// Total sums component amounts.
func (sc SalaryComponents) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range sc {
		total = total.Add(c.Amount)
	}
	return total
}

// SalaryStructure holds one employee's salary breakdown.
type SalaryStructure struct {
	ID          string           `json:"id"`
	EmployeeID  string           `json:"employee_id"`
	BasicSalary decimal.Decimal  `json:"basic_salary"`
	Allowances  SalaryComponents `json:"allowances"`
	Deductions  SalaryComponents `json:"deductions"`
	EffectiveOn time.Time        `json:"effective_on"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
}

type PayrollStatus string

const (
	StatusPending  PayrollStatus = "pending"
	StatusApproved PayrollStatus = "approved"
	StatusPaid     PayrollStatus = "paid"
	StatusRejected PayrollStatus = "rejected"
)

func (s PayrollStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid, StatusRejected:
		return true
	}
	return false
}

// PaymentMethods lists the accepted values for MarkPaidRequest.
var PaymentMethods = []string{"bank_transfer", "cash", "check"}

// PayrollRecord is the computed pay for one employee for one month.
type PayrollRecord struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`

	WorkingDays int `json:"working_days"`
	PresentDays int `json:"present_days"`
	LeaveDays   int `json:"leave_days"`
	HalfDays    int `json:"half_days"`
	LateDays    int `json:"late_days"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	NetSalary       decimal.Decimal `json:"net_salary"`

	Status        PayrollStatus `json:"status"`
	GeneratedBy   string        `json:"generated_by"`
	ApprovedBy    *string       `json:"approved_by,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	TransactionID *string       `json:"transaction_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
}

// ProratedNet computes net pay from the gross, deductions and the
// attendance ratio (present + 0.5*half + late over working days). The
// result is never negative.
func ProratedNet(gross, deductions decimal.Decimal, workingDays, presentDays, halfDays, lateDays int) decimal.Decimal {
	if workingDays <= 0 {
		return decimal.Zero
	}

	attended := decimal.NewFromInt(int64(presentDays + lateDays)).
		Add(decimal.NewFromFloat(0.5).Mul(decimal.NewFromInt(int64(halfDays))))
	ratio := attended.Div(decimal.NewFromInt(int64(workingDays)))
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}

	net := gross.Mul(ratio).Sub(deductions).Round(2)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
