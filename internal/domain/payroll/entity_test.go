package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProratedNet(t *testing.T) {
	cases := []struct {
		name        string
		gross       string
		deductions  string
		workingDays int
		present     int
		half        int
		late        int
		want        string
	}{
		{"full attendance", "5000", "500", 22, 22, 0, 0, "4500"},
		{"half the month", "5000", "0", 22, 11, 0, 0, "2500"},
		{"half days count half", "4400", "0", 22, 20, 2, 0, "4200"},
		{"late days count full", "4400", "0", 22, 20, 0, 2, "4400"},
		{"ratio capped at one", "5000", "0", 20, 25, 0, 0, "5000"},
		{"deductions floor at zero", "1000", "2000", 22, 22, 0, 0, "0"},
		{"no working days", "5000", "0", 0, 0, 0, 0, "0"},
		{"rounded to cents", "1000", "0", 3, 1, 0, 0, "333.33"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gross := decimal.RequireFromString(c.gross)
			deductions := decimal.RequireFromString(c.deductions)
			want := decimal.RequireFromString(c.want)

			got := ProratedNet(gross, deductions, c.workingDays, c.present, c.half, c.late)
			if !got.Equal(want) {
				t.Errorf("ProratedNet() = %s, want %s", got, want)
			}
		})
	}
}

func TestSalaryComponentsTotal(t *testing.T) {
	components := SalaryComponents{
		{Name: "Transport", Amount: decimal.RequireFromString("150.50")},
		{Name: "Meal", Amount: decimal.RequireFromString("200")},
	}

	if got := components.Total(); !got.Equal(decimal.RequireFromString("350.50")) {
		t.Errorf("Total() = %s, want 350.50", got)
	}
	if got := SalaryComponents(nil).Total(); !got.IsZero() {
		t.Errorf("empty Total() = %s, want 0", got)
	}
}

func TestSalaryComponentsValueScan(t *testing.T) {
	components := SalaryComponents{
		{Name: "Housing", Amount: decimal.RequireFromString("1200")},
	}

	raw, err := components.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var decoded SalaryComponents
	if err := decoded.Scan(raw.([]byte)); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "Housing" || !decoded[0].Amount.Equal(components[0].Amount) {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}
