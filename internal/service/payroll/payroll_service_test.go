package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/payroll"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

const (
	empAID      = "0190bbbb-0000-7000-8000-000000000001"
	empBID      = "0190bbbb-0000-7000-8000-000000000002"
	hrUserID    = "0190cccc-0000-7000-8000-000000000004"
	adminUserID = "0190cccc-0000-7000-8000-000000000005"
)

type fakePayrollRepo struct {
	records map[string]*payroll.PayrollRecord
	seq     int
}

func (r *fakePayrollRepo) Create(ctx context.Context, pr *payroll.PayrollRecord) error {
	for _, existing := range r.records {
		if existing.EmployeeID == pr.EmployeeID && existing.Month == pr.Month && existing.Year == pr.Year {
			return payroll.ErrPayrollExists
		}
	}
	r.seq++
	pr.ID = fmt.Sprintf("0190eeee-0000-7000-8000-%012d", r.seq)
	cp := *pr
	r.records[pr.ID] = &cp
	return nil
}

func (r *fakePayrollRepo) GetByID(ctx context.Context, id string) (*payroll.PayrollRecord, error) {
	pr, ok := r.records[id]
	if !ok {
		return nil, payroll.ErrPayrollNotFound
	}
	cp := *pr
	return &cp, nil
}

func (r *fakePayrollRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*payroll.PayrollRecord, error) {
	for _, pr := range r.records {
		if pr.EmployeeID == employeeID && pr.Month == month && pr.Year == year {
			cp := *pr
			return &cp, nil
		}
	}
	return nil, payroll.ErrPayrollNotFound
}

func (r *fakePayrollRepo) List(ctx context.Context, filter *payroll.ListPayrollFilter) ([]payroll.PayrollRecord, int, error) {
	var out []payroll.PayrollRecord
	for _, pr := range r.records {
		if filter.EmployeeID != nil && pr.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, *pr)
	}
	return out, len(out), nil
}

func (r *fakePayrollRepo) UpdateStatus(ctx context.Context, pr *payroll.PayrollRecord) error {
	if _, ok := r.records[pr.ID]; !ok {
		return payroll.ErrPayrollNotFound
	}
	cp := *pr
	r.records[pr.ID] = &cp
	return nil
}

type fakeSalaryRepo struct {
	structures map[string]*payroll.SalaryStructure
}

func (r *fakeSalaryRepo) Create(ctx context.Context, ss *payroll.SalaryStructure) error {
	r.structures[ss.EmployeeID] = ss
	return nil
}

func (r *fakeSalaryRepo) GetByEmployee(ctx context.Context, employeeID string) (*payroll.SalaryStructure, error) {
	ss, ok := r.structures[employeeID]
	if !ok {
		return nil, payroll.ErrSalaryStructureNotFound
	}
	cp := *ss
	return &cp, nil
}

func (r *fakeSalaryRepo) Update(ctx context.Context, ss *payroll.SalaryStructure) error {
	r.structures[ss.EmployeeID] = ss
	return nil
}

func (r *fakeSalaryRepo) List(ctx context.Context) ([]payroll.SalaryStructure, error) {
	var out []payroll.SalaryStructure
	for _, ss := range r.structures {
		out = append(out, *ss)
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, emp *employee.Employee) error { return nil }

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	for i := range r.employees {
		if r.employees[i].ID == id {
			cp := r.employees[i]
			return &cp, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(ctx context.Context, filter *employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if filter.Status != nil && emp.Status != *filter.Status {
			continue
		}
		out = append(out, emp)
	}
	return out, len(out), nil
}

func (r *fakeEmployeeRepo) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, req *employee.UpdateEmployeeRequest) (*employee.Employee, error) {
	return r.GetByID(ctx, req.ID)
}

func (r *fakeEmployeeRepo) NextCodeSequence(ctx context.Context, prefix string) (int, error) {
	return 1, nil
}

type fakeAttendanceRepo struct {
	summaries map[string]*attendance.MonthlySummary
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, att *attendance.Attendance) error {
	return nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (*attendance.Attendance, error) {
	return nil, attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return nil, attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) List(ctx context.Context, filter *attendance.ListFilter) ([]attendance.Attendance, int, error) {
	return nil, 0, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, att *attendance.Attendance) error {
	return nil
}

func (r *fakeAttendanceRepo) CreateIfAbsent(ctx context.Context, att *attendance.Attendance) (bool, error) {
	return true, nil
}

func (r *fakeAttendanceRepo) SummarizeMonth(ctx context.Context, employeeID string, month time.Month, year int) (*attendance.MonthlySummary, error) {
	if s, ok := r.summaries[employeeID]; ok {
		return s, nil
	}
	return &attendance.MonthlySummary{EmployeeID: employeeID}, nil
}

func ptr[T any](v T) *T { return &v }

type payrollFixture struct {
	service  *PayrollServiceImpl
	payrolls *fakePayrollRepo
	salaries *fakeSalaryRepo
	atts     *fakeAttendanceRepo
}

func newPayrollFixture() *payrollFixture {
	payrolls := &fakePayrollRepo{records: map[string]*payroll.PayrollRecord{}}
	salaries := &fakeSalaryRepo{structures: map[string]*payroll.SalaryStructure{
		empAID: {
			EmployeeID:  empAID,
			BasicSalary: decimal.RequireFromString("4000"),
			Allowances: payroll.SalaryComponents{
				{Name: "Transport", Amount: decimal.RequireFromString("400")},
			},
			Deductions: payroll.SalaryComponents{
				{Name: "Insurance", Amount: decimal.RequireFromString("200")},
			},
		},
	}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: empAID, EmployeeCode: "ENG-001", Status: employee.StatusActive},
		{ID: empBID, EmployeeCode: "ENG-002", Status: employee.StatusActive},
	}}
	atts := &fakeAttendanceRepo{summaries: map[string]*attendance.MonthlySummary{}}

	service := &PayrollServiceImpl{
		payrollRepository:    payrolls,
		salaryRepository:     salaries,
		employeeRepository:   employees,
		attendanceRepository: atts,
		logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return &payrollFixture{service: service, payrolls: payrolls, salaries: salaries, atts: atts}
}

func hrPayrollActor() *payroll.Actor {
	return &payroll.Actor{UserID: hrUserID, Role: user.RoleHR}
}

func TestWorkingDaysInMonth(t *testing.T) {
	cases := []struct {
		month time.Month
		year  int
		want  int
	}{
		{time.September, 2026, 22},
		{time.August, 2026, 21},
		{time.February, 2026, 20},
	}
	for _, c := range cases {
		if got := workingDaysInMonth(c.month, c.year); got != c.want {
			t.Errorf("workingDaysInMonth(%s %d) = %d, want %d", c.month, c.year, got, c.want)
		}
	}
}

func TestGenerate_ProratesFromAttendance(t *testing.T) {
	f := newPayrollFixture()

	// Full attendance in September 2026 (22 working days).
	f.atts.summaries[empAID] = &attendance.MonthlySummary{
		EmployeeID:  empAID,
		PresentDays: 20,
		HalfDays:    2,
		LateDays:    0,
	}

	result, err := f.service.Generate(context.Background(), hrPayrollActor(), &payroll.GeneratePayrollRequest{
		Month: 9,
		Year:  2026,
	})
	require.NoError(t, err)

	// Employee B has no salary structure and is skipped.
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, []string{"ENG-002"}, result.Skipped)

	record, err := f.payrolls.GetByEmployeeAndPeriod(context.Background(), empAID, 9, 2026)
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusPending, record.Status)
	assert.Equal(t, hrUserID, record.GeneratedBy)
	assert.Equal(t, 22, record.WorkingDays)
	assert.True(t, record.GrossSalary.Equal(decimal.RequireFromString("4400")), "gross = %s", record.GrossSalary)

	// (20 + 0.5*2) / 22 of 4400 minus 200 in deductions.
	assert.True(t, record.NetSalary.Equal(decimal.RequireFromString("4000")), "net = %s", record.NetSalary)
}

func TestGenerate_SkipsExistingRecords(t *testing.T) {
	f := newPayrollFixture()

	_, err := f.service.Generate(context.Background(), hrPayrollActor(), &payroll.GeneratePayrollRequest{Month: 9, Year: 2026})
	require.NoError(t, err)

	result, err := f.service.Generate(context.Background(), hrPayrollActor(), &payroll.GeneratePayrollRequest{Month: 9, Year: 2026})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Generated)
	assert.Contains(t, result.Skipped, "ENG-001")
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	f := newPayrollFixture()

	_, err := f.service.Generate(context.Background(), hrPayrollActor(), &payroll.GeneratePayrollRequest{Month: 13, Year: 2026})
	require.Error(t, err)
}

func TestStatusLifecycle(t *testing.T) {
	f := newPayrollFixture()
	f.atts.summaries[empAID] = &attendance.MonthlySummary{EmployeeID: empAID, PresentDays: 22}

	_, err := f.service.Generate(context.Background(), hrPayrollActor(), &payroll.GeneratePayrollRequest{Month: 9, Year: 2026})
	require.NoError(t, err)
	record, err := f.payrolls.GetByEmployeeAndPeriod(context.Background(), empAID, 9, 2026)
	require.NoError(t, err)

	admin := &payroll.Actor{UserID: adminUserID, Role: user.RoleAdmin}

	t.Run("cannot pay before approval", func(t *testing.T) {
		_, err := f.service.MarkPaid(context.Background(), admin, &payroll.MarkPaidRequest{
			ID:            record.ID,
			PaymentMethod: "bank_transfer",
		})
		assert.ErrorIs(t, err, payroll.ErrPayrollNotApproved)
	})

	t.Run("approve", func(t *testing.T) {
		approved, err := f.service.Approve(context.Background(), admin, record.ID)
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, approved.Status)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, adminUserID, *approved.ApprovedBy)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		_, err := f.service.Approve(context.Background(), admin, record.ID)
		assert.ErrorIs(t, err, payroll.ErrPayrollNotPending)
	})

	t.Run("mark paid", func(t *testing.T) {
		paid, err := f.service.MarkPaid(context.Background(), hrPayrollActor(), &payroll.MarkPaidRequest{
			ID:            record.ID,
			PaymentMethod: "bank_transfer",
			TransactionID: ptr("TRX-1042"),
		})
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, paid.Status)
		require.NotNil(t, paid.PaidAt)
		require.NotNil(t, paid.PaymentMethod)
		assert.Equal(t, "bank_transfer", *paid.PaymentMethod)
	})
}

func TestGetByID_EmployeeScope(t *testing.T) {
	f := newPayrollFixture()
	f.atts.summaries[empAID] = &attendance.MonthlySummary{EmployeeID: empAID, PresentDays: 22}

	_, err := f.service.Generate(context.Background(), hrPayrollActor(), &payroll.GeneratePayrollRequest{Month: 9, Year: 2026})
	require.NoError(t, err)
	record, err := f.payrolls.GetByEmployeeAndPeriod(context.Background(), empAID, 9, 2026)
	require.NoError(t, err)

	owner := &payroll.Actor{UserID: "u", EmployeeID: ptr(empAID), Role: user.RoleEmployee}
	got, err := f.service.GetByID(context.Background(), owner, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	stranger := &payroll.Actor{UserID: "u2", EmployeeID: ptr(empBID), Role: user.RoleEmployee}
	_, err = f.service.GetByID(context.Background(), stranger, record.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}
