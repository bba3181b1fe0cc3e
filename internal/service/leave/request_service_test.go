package leave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

const (
	annualTypeID = "0190aaaa-0000-7000-8000-000000000001"

	empID     = "0190bbbb-0000-7000-8000-000000000001"
	mgrID     = "0190bbbb-0000-7000-8000-000000000002"
	soloEmpID = "0190bbbb-0000-7000-8000-000000000003"
	otherID   = "0190bbbb-0000-7000-8000-000000000004"

	empUserID   = "0190cccc-0000-7000-8000-000000000001"
	mgrUserID   = "0190cccc-0000-7000-8000-000000000002"
	soloUserID  = "0190cccc-0000-7000-8000-000000000003"
	hrUserID    = "0190cccc-0000-7000-8000-000000000004"
	adminUserID = "0190cccc-0000-7000-8000-000000000005"
	otherUserID = "0190cccc-0000-7000-8000-000000000006"
)

// ---- in-memory fakes ----

type fakeTypeRepo struct {
	types map[string]*leave.LeaveType
}

func (r *fakeTypeRepo) Create(ctx context.Context, lt *leave.LeaveType) error {
	r.types[lt.ID] = lt
	return nil
}

func (r *fakeTypeRepo) GetByID(ctx context.Context, id string) (*leave.LeaveType, error) {
	lt, ok := r.types[id]
	if !ok {
		return nil, leave.ErrLeaveTypeNotFound
	}
	cp := *lt
	return &cp, nil
}

func (r *fakeTypeRepo) GetByCode(ctx context.Context, code string) (*leave.LeaveType, error) {
	for _, lt := range r.types {
		if lt.Code == code {
			cp := *lt
			return &cp, nil
		}
	}
	return nil, leave.ErrLeaveTypeNotFound
}

func (r *fakeTypeRepo) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, lt := range r.types {
		if activeOnly && !lt.IsActive {
			continue
		}
		out = append(out, *lt)
	}
	return out, nil
}

func (r *fakeTypeRepo) Update(ctx context.Context, req *leave.UpdateLeaveTypeRequest) (*leave.LeaveType, error) {
	return r.GetByID(ctx, req.ID)
}

type balanceKey struct {
	employeeID  string
	leaveTypeID string
	year        int
}

type fakeBalanceRepo struct {
	balances map[balanceKey]*leave.LeaveBalance
}

func (r *fakeBalanceRepo) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	b, ok := r.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return nil, leave.ErrBalanceNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBalanceRepo) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for k, b := range r.balances {
		if k.employeeID == employeeID && k.year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) InitializeMissing(ctx context.Context, employeeID string, year int, types []leave.LeaveType) (int, error) {
	created := 0
	for _, lt := range types {
		key := balanceKey{employeeID, lt.ID, year}
		if _, ok := r.balances[key]; ok {
			continue
		}
		r.balances[key] = &leave.LeaveBalance{
			EmployeeID:  employeeID,
			LeaveTypeID: lt.ID,
			Year:        year,
			TotalQuota:  lt.AnnualQuota,
		}
		created++
	}
	return created, nil
}

func (r *fakeBalanceRepo) Reserve(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	b, ok := r.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return leave.ErrBalanceNotInitialized
	}
	if b.Available() < days {
		return leave.ErrInsufficientBalance
	}
	b.Pending += days
	return nil
}

func (r *fakeBalanceRepo) Finalize(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	b, ok := r.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok || b.Pending < days {
		return leave.ErrBalanceNotFound
	}
	b.Pending -= days
	b.Used += days
	return nil
}

func (r *fakeBalanceRepo) Release(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error {
	b, ok := r.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	b.Pending -= days
	if b.Pending < 0 {
		b.Pending = 0
	}
	return nil
}

func (r *fakeBalanceRepo) AdminUpdate(ctx context.Context, req *leave.UpdateBalanceRequest) (*leave.LeaveBalance, error) {
	return r.Get(ctx, req.EmployeeID, req.LeaveTypeID, req.Year)
}

type fakeRequestRepo struct {
	requests map[string]*leave.LeaveRequest
	seq      int
}

func cloneRequest(lr *leave.LeaveRequest) *leave.LeaveRequest {
	cp := *lr
	cp.ApprovalChain = append(leave.ApprovalChain(nil), lr.ApprovalChain...)
	return &cp
}

func (r *fakeRequestRepo) Create(ctx context.Context, lr *leave.LeaveRequest) error {
	r.seq++
	lr.ID = fmt.Sprintf("0190dddd-0000-7000-8000-%012d", r.seq)
	lr.CreatedAt = time.Now()
	r.requests[lr.ID] = cloneRequest(lr)
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	lr, ok := r.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	return cloneRequest(lr), nil
}

func (r *fakeRequestRepo) List(ctx context.Context, filter *leave.ListRequestsFilter) ([]leave.LeaveRequest, int, error) {
	var out []leave.LeaveRequest
	for _, lr := range r.requests {
		if filter.EmployeeID != nil && lr.EmployeeID != *filter.EmployeeID {
			continue
		}
		if len(filter.EmployeeIDs) > 0 && !containsString(filter.EmployeeIDs, lr.EmployeeID) {
			continue
		}
		if len(filter.StatusIn) > 0 && !containsStatus(filter.StatusIn, lr.Status) {
			continue
		}
		if len(filter.ApproverIn) > 0 {
			if lr.CurrentApprover == nil || !containsRole(filter.ApproverIn, *lr.CurrentApprover) {
				continue
			}
		}
		out = append(out, *cloneRequest(lr))
	}
	return out, len(out), nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, lr *leave.LeaveRequest) error {
	stored, ok := r.requests[lr.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if stored.Status != leave.StatusPending {
		return leave.ErrRequestNotPending
	}
	lr.AttendanceCreated = stored.AttendanceCreated
	r.requests[lr.ID] = cloneRequest(lr)
	return nil
}

func (r *fakeRequestRepo) MarkAttendanceCreated(ctx context.Context, id string) error {
	lr, ok := r.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}
	lr.AttendanceCreated = true
	return nil
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsStatus(list []leave.LeaveRequestStatus, v leave.LeaveRequestStatus) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsRole(list []leave.ApproverRole, v leave.ApproverRole) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

type fakeEmployeeRepo struct {
	employees map[string]*employee.Employee
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, emp *employee.Employee) error {
	r.employees[emp.ID] = emp
	return nil
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	cp := *emp
	return &cp, nil
}

func (r *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.UserID == userID {
			cp := *emp
			return &cp, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(ctx context.Context, filter *employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		out = append(out, *emp)
	}
	return out, len(out), nil
}

func (r *fakeEmployeeRepo) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.ManagerID != nil && *emp.ManagerID == managerID {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, req *employee.UpdateEmployeeRequest) (*employee.Employee, error) {
	return r.GetByID(ctx, req.ID)
}

func (r *fakeEmployeeRepo) NextCodeSequence(ctx context.Context, prefix string) (int, error) {
	return 1, nil
}

type fakeUserRepo struct {
	users map[string]*user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, req *user.UpdateUserRequest) (*user.User, error) {
	return r.GetByID(ctx, req.ID)
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	rows       map[string]*attendance.Attendance
	failCreate bool
}

func attKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, att *attendance.Attendance) error {
	_, err := r.CreateIfAbsent(ctx, att)
	return err
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (*attendance.Attendance, error) {
	return nil, attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	att, ok := r.rows[attKey(employeeID, date)]
	if !ok {
		return nil, attendance.ErrAttendanceNotFound
	}
	cp := *att
	return &cp, nil
}

func (r *fakeAttendanceRepo) List(ctx context.Context, filter *attendance.ListFilter) ([]attendance.Attendance, int, error) {
	var out []attendance.Attendance
	for _, att := range r.rows {
		out = append(out, *att)
	}
	return out, len(out), nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, att *attendance.Attendance) error {
	r.rows[attKey(att.EmployeeID, att.Date)] = att
	return nil
}

func (r *fakeAttendanceRepo) CreateIfAbsent(ctx context.Context, att *attendance.Attendance) (bool, error) {
	if r.failCreate {
		return false, errors.New("insert failed")
	}
	key := attKey(att.EmployeeID, att.Date)
	if _, ok := r.rows[key]; ok {
		return false, nil
	}
	r.rows[key] = att
	return true, nil
}

func (r *fakeAttendanceRepo) SummarizeMonth(ctx context.Context, employeeID string, month time.Month, year int) (*attendance.MonthlySummary, error) {
	return &attendance.MonthlySummary{EmployeeID: employeeID}, nil
}

// ---- fixture ----

type requestFixture struct {
	service  *RequestServiceImpl
	types    *fakeTypeRepo
	balances *fakeBalanceRepo
	requests *fakeRequestRepo
	atts     *fakeAttendanceRepo
}

func ptr[T any](v T) *T { return &v }

func newRequestFixture() *requestFixture {
	types := &fakeTypeRepo{types: map[string]*leave.LeaveType{
		annualTypeID: {
			ID:          annualTypeID,
			Name:        "Annual Leave",
			Code:        "AL",
			AnnualQuota: 12,
			IsPaid:      true,
			IsActive:    true,
		},
	}}

	employees := &fakeEmployeeRepo{employees: map[string]*employee.Employee{
		empID: {
			ID:        empID,
			UserID:    empUserID,
			FirstName: "Eka",
			LastName:  "Putri",
			ManagerID: ptr(mgrID),
			Status:    employee.StatusActive,
		},
		mgrID: {
			ID:        mgrID,
			UserID:    mgrUserID,
			FirstName: "Mia",
			LastName:  "Manager",
			Status:    employee.StatusActive,
		},
		soloEmpID: {
			ID:        soloEmpID,
			UserID:    soloUserID,
			FirstName: "Solo",
			LastName:  "Worker",
			Status:    employee.StatusActive,
		},
		otherID: {
			ID:        otherID,
			UserID:    otherUserID,
			FirstName: "Omar",
			LastName:  "Other",
			Status:    employee.StatusActive,
		},
	}}

	users := &fakeUserRepo{users: map[string]*user.User{
		empUserID:   {ID: empUserID, Name: "Eka Putri", Role: user.RoleEmployee, IsActive: true},
		mgrUserID:   {ID: mgrUserID, Name: "Mia Manager", Role: user.RoleManager, IsActive: true},
		soloUserID:  {ID: soloUserID, Name: "Solo Worker", Role: user.RoleEmployee, IsActive: true},
		hrUserID:    {ID: hrUserID, Name: "Hana HR", Role: user.RoleHR, IsActive: true},
		adminUserID: {ID: adminUserID, Name: "Ada Admin", Role: user.RoleAdmin, IsActive: true},
		otherUserID: {ID: otherUserID, Name: "Omar Other", Role: user.RoleEmployee, IsActive: true},
	}}

	balances := &fakeBalanceRepo{balances: map[balanceKey]*leave.LeaveBalance{}}
	for _, id := range []string{empID, soloEmpID, otherID} {
		balances.balances[balanceKey{id, annualTypeID, 2026}] = &leave.LeaveBalance{
			EmployeeID:  id,
			LeaveTypeID: annualTypeID,
			Year:        2026,
			TotalQuota:  12,
		}
	}

	requests := &fakeRequestRepo{requests: map[string]*leave.LeaveRequest{}}
	atts := &fakeAttendanceRepo{rows: map[string]*attendance.Attendance{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := &RequestServiceImpl{
		leaveTypeRepository:    types,
		leaveBalanceRepository: balances,
		leaveRequestRepository: requests,
		employeeRepository:     employees,
		userRepository:         users,
		synthesizer:            NewAttendanceSynthesizer(atts, requests, logger),
		logger:                 logger,
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}

	return &requestFixture{
		service:  service,
		types:    types,
		balances: balances,
		requests: requests,
		atts:     atts,
	}
}

func employeeActor() *leave.Actor {
	return &leave.Actor{UserID: empUserID, EmployeeID: ptr(empID), Role: user.RoleEmployee}
}

func managerActor() *leave.Actor {
	return &leave.Actor{UserID: mgrUserID, EmployeeID: ptr(mgrID), Role: user.RoleManager}
}

func hrActor() *leave.Actor {
	return &leave.Actor{UserID: hrUserID, Role: user.RoleHR}
}

func adminActor() *leave.Actor {
	return &leave.Actor{UserID: adminUserID, Role: user.RoleAdmin}
}

func createWeekRequest(t *testing.T, f *requestFixture, actor *leave.Actor) *leave.LeaveRequest {
	t.Helper()
	lr, err := f.service.Create(context.Background(), actor, &leave.CreateLeaveRequestRequest{
		LeaveTypeID: annualTypeID,
		StartDate:   "2026-08-31",
		EndDate:     "2026-09-04",
		Reason:      "family trip",
	})
	require.NoError(t, err)
	return lr
}

// ---- tests ----

func TestCreateRequest_ReservesBalanceAndSeedsManagerStage(t *testing.T) {
	f := newRequestFixture()

	lr := createWeekRequest(t, f, employeeActor())

	assert.Equal(t, leave.StatusPending, lr.Status)
	assert.Equal(t, 5.0, lr.TotalDays)
	require.NotNil(t, lr.CurrentApprover)
	assert.Equal(t, leave.ApproverManager, *lr.CurrentApprover)

	require.Len(t, lr.ApprovalChain, 1)
	step := lr.ApprovalChain[0]
	assert.Equal(t, leave.ApproverManager, step.Role)
	assert.Equal(t, leave.StepPending, step.Status)
	require.NotNil(t, step.ApproverID)
	assert.Equal(t, mgrUserID, *step.ApproverID)
	assert.Equal(t, "Mia Manager", step.ApproverName)

	bal, err := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 5.0, bal.Pending)
	assert.Equal(t, 7.0, bal.Available())
}

func TestCreateRequest_ManagerlessEmployeeRoutesToHR(t *testing.T) {
	f := newRequestFixture()
	actor := &leave.Actor{UserID: soloUserID, EmployeeID: ptr(soloEmpID), Role: user.RoleEmployee}

	lr := createWeekRequest(t, f, actor)

	assert.Empty(t, lr.ApprovalChain)
	require.NotNil(t, lr.CurrentApprover)
	assert.Equal(t, leave.ApproverHR, *lr.CurrentApprover)
}

func TestCreateRequest_InsufficientBalance(t *testing.T) {
	f := newRequestFixture()
	f.balances.balances[balanceKey{empID, annualTypeID, 2026}].Used = 10

	_, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID: annualTypeID,
		StartDate:   "2026-08-31",
		EndDate:     "2026-09-04",
		Reason:      "family trip",
	})

	require.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "2 day(s) available")

	// Nothing was reserved.
	bal, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	assert.Equal(t, 0.0, bal.Pending)
}

func TestCreateRequest_BalanceNotInitialized(t *testing.T) {
	f := newRequestFixture()

	// The request starts in 2027; no ledger row exists for that year.
	_, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID: annualTypeID,
		StartDate:   "2027-01-04",
		EndDate:     "2027-01-05",
		Reason:      "new year break",
	})

	require.ErrorIs(t, err, leave.ErrBalanceNotInitialized)
}

func TestCreateRequest_LedgerYearFollowsStartDate(t *testing.T) {
	f := newRequestFixture()
	f.balances.balances[balanceKey{empID, annualTypeID, 2027}] = &leave.LeaveBalance{
		EmployeeID:  empID,
		LeaveTypeID: annualTypeID,
		Year:        2027,
		TotalQuota:  12,
	}

	// Submitted in 2026 terms but starting in 2027: the 2027 ledger row
	// takes the reservation.
	_, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID: annualTypeID,
		StartDate:   "2027-01-04",
		EndDate:     "2027-01-05",
		Reason:      "new year break",
	})
	require.NoError(t, err)

	current, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	next, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2027)
	assert.Equal(t, 0.0, current.Pending)
	assert.Equal(t, 2.0, next.Pending)
}

func TestCreateRequest_DateValidation(t *testing.T) {
	f := newRequestFixture()
	actor := employeeActor()

	cases := []struct {
		name    string
		req     leave.CreateLeaveRequestRequest
		wantErr error
	}{
		{
			"end before start",
			leave.CreateLeaveRequestRequest{LeaveTypeID: annualTypeID, StartDate: "2026-09-04", EndDate: "2026-09-01", Reason: "trip"},
			leave.ErrInvalidDateRange,
		},
		{
			"weekend only",
			leave.CreateLeaveRequestRequest{LeaveTypeID: annualTypeID, StartDate: "2026-09-05", EndDate: "2026-09-06", Reason: "trip"},
			leave.ErrNoWorkingDays,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), actor, &c.req)
			assert.ErrorIs(t, err, c.wantErr)
		})
	}
}

func TestCreateRequest_HalfDayReservesHalf(t *testing.T) {
	f := newRequestFixture()

	lr, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID:    annualTypeID,
		StartDate:      "2026-09-02",
		EndDate:        "2026-09-02",
		IsHalfDay:      true,
		HalfDaySession: ptr(leave.SessionMorning),
		Reason:         "appointment",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.5, lr.TotalDays)
	bal, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	assert.Equal(t, 0.5, bal.Pending)
}

func TestCreateRequest_HalfDayOverRangeStillReservesHalf(t *testing.T) {
	f := newRequestFixture()

	// A half day deducts 0.5 no matter how wide the date range is.
	lr, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID:    annualTypeID,
		StartDate:      "2026-08-31",
		EndDate:        "2026-09-04",
		IsHalfDay:      true,
		HalfDaySession: ptr(leave.SessionMorning),
		Reason:         "phased return",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.5, lr.TotalDays)
	bal, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	assert.Equal(t, 0.5, bal.Pending)

	_, err = f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)

	// Every weekday gets a leave row, but half-day fields mark the
	// start date only.
	require.Len(t, f.atts.rows, 5)
	for _, att := range f.atts.rows {
		if att.Date.Equal(time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)) {
			assert.True(t, att.IsHalfDay)
		} else {
			assert.False(t, att.IsHalfDay)
		}
	}
}

func TestCreateRequest_MaxConsecutiveDays(t *testing.T) {
	f := newRequestFixture()
	f.types.types[annualTypeID].MaxConsecutiveDays = 3

	_, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID: annualTypeID,
		StartDate:   "2026-08-31",
		EndDate:     "2026-09-04",
		Reason:      "long trip",
	})

	require.ErrorIs(t, err, leave.ErrMaxConsecutiveDays)
}

func TestCreateRequest_InactiveType(t *testing.T) {
	f := newRequestFixture()
	f.types.types[annualTypeID].IsActive = false

	_, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID: annualTypeID,
		StartDate:   "2026-09-02",
		EndDate:     "2026-09-02",
		Reason:      "trip",
	})

	require.ErrorIs(t, err, leave.ErrLeaveTypeInactive)
}

func TestApprove_ManagerApprovalIsTerminal(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	approved, err := f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{
		ID:       lr.ID,
		Comments: ptr("enjoy"),
	})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.Nil(t, approved.CurrentApprover)

	require.Len(t, approved.ApprovalChain, 1)
	step := approved.ApprovalChain[0]
	assert.Equal(t, leave.StepApproved, step.Status)
	assert.Equal(t, "Mia Manager", step.ApproverName)
	require.NotNil(t, step.Comments)
	assert.Equal(t, "enjoy", *step.Comments)
	require.NotNil(t, step.ActionDate)

	// Pending days moved to used.
	bal, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	assert.Equal(t, 0.0, bal.Pending)
	assert.Equal(t, 5.0, bal.Used)

	// One attendance row per weekday.
	assert.Len(t, f.atts.rows, 5)
	assert.True(t, approved.AttendanceCreated)
}

func TestApprove_HRApprovalOfManagerlessRequestAppendsEntry(t *testing.T) {
	f := newRequestFixture()
	actor := &leave.Actor{UserID: soloUserID, EmployeeID: ptr(soloEmpID), Role: user.RoleEmployee}
	lr := createWeekRequest(t, f, actor)

	approved, err := f.service.Approve(context.Background(), hrActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.Len(t, approved.ApprovalChain, 1)
	step := approved.ApprovalChain[0]
	assert.Equal(t, leave.ApproverHR, step.Role)
	assert.Equal(t, leave.StepApproved, step.Status)
	require.NotNil(t, step.ApproverID)
	assert.Equal(t, hrUserID, *step.ApproverID)
}

func TestApprove_AdminBypassesManagerStage(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	approved, err := f.service.Approve(context.Background(), adminActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.Nil(t, approved.CurrentApprover)

	// The seeded manager entry stays pending; the bypass appends its own.
	require.Len(t, approved.ApprovalChain, 2)
	assert.Equal(t, leave.StepPending, approved.ApprovalChain[0].Status)
	assert.Equal(t, leave.ApproverAdmin, approved.ApprovalChain[1].Role)
	assert.Equal(t, leave.StepApproved, approved.ApprovalChain[1].Status)

	bal, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	assert.Equal(t, 5.0, bal.Used)
}

func TestApprove_Authorization(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	t.Run("employee cannot approve", func(t *testing.T) {
		_, err := f.service.Approve(context.Background(), employeeActor(), &leave.ApprovalActionRequest{ID: lr.ID})
		assert.ErrorIs(t, err, user.ErrApproverRoleRequired)
	})

	t.Run("hr cannot act at the manager stage", func(t *testing.T) {
		_, err := f.service.Approve(context.Background(), hrActor(), &leave.ApprovalActionRequest{ID: lr.ID})
		assert.ErrorIs(t, err, leave.ErrNotCurrentApprover)
	})

	t.Run("manager of another team is rejected", func(t *testing.T) {
		stranger := &leave.Actor{UserID: otherUserID, EmployeeID: ptr(otherID), Role: user.RoleManager}
		_, err := f.service.Approve(context.Background(), stranger, &leave.ApprovalActionRequest{ID: lr.ID})
		assert.ErrorIs(t, err, leave.ErrNotTeamMember)
	})
}

func TestApprove_TerminalRequestFails(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	_, err := f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	assert.ErrorIs(t, err, leave.ErrRequestNotPending)

	_, err = f.service.Reject(context.Background(), managerActor(), &leave.RejectLeaveRequestRequest{ID: lr.ID, Reason: "late"})
	assert.ErrorIs(t, err, leave.ErrRequestNotPending)
}

func TestApprove_SurvivesSynthesisFailure(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())
	f.atts.failCreate = true

	approved, err := f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.Empty(t, f.atts.rows)

	// The guard flag is still set so the failure is not replayed
	// wholesale on a retry path.
	assert.True(t, approved.AttendanceCreated)
}

func TestReject_ReleasesReservation(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	rejected, err := f.service.Reject(context.Background(), managerActor(), &leave.RejectLeaveRequestRequest{
		ID:     lr.ID,
		Reason: "critical project week",
	})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.CurrentApprover)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "critical project week", *rejected.RejectionReason)

	require.Len(t, rejected.ApprovalChain, 1)
	assert.Equal(t, leave.StepRejected, rejected.ApprovalChain[0].Status)

	bal, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	assert.Equal(t, 0.0, bal.Pending)
	assert.Equal(t, 0.0, bal.Used)
	assert.Equal(t, 12.0, bal.Available())

	// No attendance rows for a rejected request.
	assert.Empty(t, f.atts.rows)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	_, err := f.service.Reject(context.Background(), managerActor(), &leave.RejectLeaveRequestRequest{ID: lr.ID})
	require.Error(t, err)

	// The request is untouched.
	stored, getErr := f.requests.GetByID(context.Background(), lr.ID)
	require.NoError(t, getErr)
	assert.Equal(t, leave.StatusPending, stored.Status)
}

func TestCancel_OwnerReleasesReservation(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	cancelled, err := f.service.Cancel(context.Background(), employeeActor(), lr.ID)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusCancelled, cancelled.Status)
	bal, _ := f.balances.Get(context.Background(), empID, annualTypeID, 2026)
	assert.Equal(t, 12.0, bal.Available())
}

func TestCancel_Authorization(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	t.Run("non-owner cannot cancel", func(t *testing.T) {
		stranger := &leave.Actor{UserID: otherUserID, EmployeeID: ptr(otherID), Role: user.RoleEmployee}
		_, err := f.service.Cancel(context.Background(), stranger, lr.ID)
		assert.ErrorIs(t, err, leave.ErrNotRequestOwner)
	})

	t.Run("admin can cancel on behalf", func(t *testing.T) {
		cancelled, err := f.service.Cancel(context.Background(), adminActor(), lr.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, cancelled.Status)
	})

	t.Run("terminal request cannot be cancelled again", func(t *testing.T) {
		_, err := f.service.Cancel(context.Background(), employeeActor(), lr.ID)
		assert.ErrorIs(t, err, leave.ErrRequestNotPending)
	})
}

func TestGetByID_Visibility(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	t.Run("owner sees own request", func(t *testing.T) {
		got, err := f.service.GetByID(context.Background(), employeeActor(), lr.ID)
		require.NoError(t, err)
		assert.Equal(t, lr.ID, got.ID)
	})

	t.Run("another employee does not", func(t *testing.T) {
		stranger := &leave.Actor{UserID: otherUserID, EmployeeID: ptr(otherID), Role: user.RoleEmployee}
		_, err := f.service.GetByID(context.Background(), stranger, lr.ID)
		assert.ErrorIs(t, err, leave.ErrNotRequestOwner)
	})

	t.Run("team manager sees it", func(t *testing.T) {
		got, err := f.service.GetByID(context.Background(), managerActor(), lr.ID)
		require.NoError(t, err)
		assert.Equal(t, lr.ID, got.ID)
	})

	t.Run("unrelated manager does not", func(t *testing.T) {
		stranger := &leave.Actor{UserID: otherUserID, EmployeeID: ptr(otherID), Role: user.RoleManager}
		_, err := f.service.GetByID(context.Background(), stranger, lr.ID)
		assert.ErrorIs(t, err, leave.ErrNotTeamMember)
	})

	t.Run("hr sees everything", func(t *testing.T) {
		got, err := f.service.GetByID(context.Background(), hrActor(), lr.ID)
		require.NoError(t, err)
		assert.Equal(t, lr.ID, got.ID)
	})
}

func TestListPendingApprovals_RoleScoping(t *testing.T) {
	f := newRequestFixture()
	teamReq := createWeekRequest(t, f, employeeActor())
	soloActor := &leave.Actor{UserID: soloUserID, EmployeeID: ptr(soloEmpID), Role: user.RoleEmployee}
	hrReq := createWeekRequest(t, f, soloActor)

	t.Run("manager sees only team requests at the manager stage", func(t *testing.T) {
		got, err := f.service.ListPendingApprovals(context.Background(), managerActor())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, teamReq.ID, got[0].ID)
	})

	t.Run("hr sees manager and hr stages", func(t *testing.T) {
		got, err := f.service.ListPendingApprovals(context.Background(), hrActor())
		require.NoError(t, err)
		require.Len(t, got, 2)
		ids := []string{got[0].ID, got[1].ID}
		assert.Contains(t, ids, teamReq.ID)
		assert.Contains(t, ids, hrReq.ID)
	})

	t.Run("admin sees all pending", func(t *testing.T) {
		got, err := f.service.ListPendingApprovals(context.Background(), adminActor())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("employee is refused", func(t *testing.T) {
		_, err := f.service.ListPendingApprovals(context.Background(), employeeActor())
		assert.ErrorIs(t, err, user.ErrApproverRoleRequired)
	})

	t.Run("manager with no team sees nothing", func(t *testing.T) {
		lonely := &leave.Actor{UserID: otherUserID, EmployeeID: ptr(otherID), Role: user.RoleManager}
		got, err := f.service.ListPendingApprovals(context.Background(), lonely)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSynthesize_Idempotent(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	approved, err := f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)
	require.Len(t, f.atts.rows, 5)

	// A second run is a no-op behind the guard flag.
	require.NoError(t, f.service.synthesizer.Synthesize(context.Background(), approved))
	assert.Len(t, f.atts.rows, 5)
}

func TestSynthesize_HalfDayMarksStartDateOnly(t *testing.T) {
	f := newRequestFixture()

	lr, err := f.service.Create(context.Background(), employeeActor(), &leave.CreateLeaveRequestRequest{
		LeaveTypeID:    annualTypeID,
		StartDate:      "2026-09-02",
		EndDate:        "2026-09-02",
		IsHalfDay:      true,
		HalfDaySession: ptr(leave.SessionAfternoon),
		Reason:         "appointment",
	})
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)

	require.Len(t, f.atts.rows, 1)
	for _, att := range f.atts.rows {
		assert.Equal(t, attendance.StatusLeave, att.Status)
		assert.True(t, att.IsLeave)
		assert.True(t, att.IsHalfDay)
		require.NotNil(t, att.HalfDaySession)
		assert.Equal(t, "afternoon", *att.HalfDaySession)
		require.NotNil(t, att.LeaveRequestID)
		assert.Equal(t, lr.ID, *att.LeaveRequestID)
	}
}

func TestSynthesize_SkipsExistingRows(t *testing.T) {
	f := newRequestFixture()
	lr := createWeekRequest(t, f, employeeActor())

	// One weekday already has a manually marked row.
	day := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)
	f.atts.rows[attKey(empID, day)] = &attendance.Attendance{
		EmployeeID: empID,
		Date:       day,
		Status:     attendance.StatusPresent,
	}

	_, err := f.service.Approve(context.Background(), managerActor(), &leave.ApprovalActionRequest{ID: lr.ID})
	require.NoError(t, err)

	require.Len(t, f.atts.rows, 5)
	assert.Equal(t, attendance.StatusPresent, f.atts.rows[attKey(empID, day)].Status)
}
