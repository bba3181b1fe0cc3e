package leave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

const sickTypeID = "0190aaaa-0000-7000-8000-000000000002"

func newBalanceFixture() (*BalanceServiceImpl, *fakeBalanceRepo) {
	types := &fakeTypeRepo{types: map[string]*leave.LeaveType{
		annualTypeID: {
			ID:          annualTypeID,
			Name:        "Annual Leave",
			Code:        "AL",
			AnnualQuota: 12,
			IsActive:    true,
		},
		sickTypeID: {
			ID:          sickTypeID,
			Name:        "Sick Leave",
			Code:        "SL",
			AnnualQuota: 10,
			IsActive:    false,
		},
	}}

	employees := &fakeEmployeeRepo{employees: map[string]*employee.Employee{
		empID: {
			ID:     empID,
			UserID: empUserID,
			Status: employee.StatusActive,
		},
	}}

	balances := &fakeBalanceRepo{balances: map[balanceKey]*leave.LeaveBalance{}}

	svc := &BalanceServiceImpl{
		leaveTypeRepository:    types,
		leaveBalanceRepository: balances,
		employeeRepository:     employees,
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
	return svc, balances
}

func TestInitialize_SeedsActiveTypesOnly(t *testing.T) {
	svc, balances := newBalanceFixture()

	created, err := svc.Initialize(context.Background(), empID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	b, ok := balances.balances[balanceKey{empID, annualTypeID, 2026}]
	require.True(t, ok)
	assert.Equal(t, float64(12), b.TotalQuota)

	_, ok = balances.balances[balanceKey{empID, sickTypeID, 2026}]
	assert.False(t, ok, "inactive leave types must not be seeded")
}

func TestInitialize_Idempotent(t *testing.T) {
	svc, balances := newBalanceFixture()

	created, err := svc.Initialize(context.Background(), empID, 2026)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// A re-run must not reset counters on the existing row.
	balances.balances[balanceKey{empID, annualTypeID, 2026}].Used = 3

	created, err = svc.Initialize(context.Background(), empID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, float64(3), balances.balances[balanceKey{empID, annualTypeID, 2026}].Used)
}

func TestInitialize_PerYearRows(t *testing.T) {
	svc, balances := newBalanceFixture()

	for _, year := range []int{2026, 2027} {
		created, err := svc.Initialize(context.Background(), empID, year)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
	}
	assert.Len(t, balances.balances, 2)
}

func TestInitialize_UnknownEmployee(t *testing.T) {
	svc, _ := newBalanceFixture()

	_, err := svc.Initialize(context.Background(), otherID, 2026)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetMyBalance_RequiresLinkedProfile(t *testing.T) {
	svc, _ := newBalanceFixture()

	actor := &leave.Actor{UserID: hrUserID, Role: user.RoleHR}
	_, err := svc.GetMyBalance(context.Background(), actor, 2026)
	assert.ErrorIs(t, err, employee.ErrProfileNotLinked)
}
