package leave

import "context"

type LeaveTypeRepository interface {
	Create(ctx context.Context, lt *LeaveType) error
	GetByID(ctx context.Context, id string) (*LeaveType, error)
	GetByCode(ctx context.Context, code string) (*LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, req *UpdateLeaveTypeRequest) (*LeaveType, error)
}

// LeaveBalanceRepository owns the ledger rows. Reserve, Finalize and
// Release are single conditional UPDATEs so concurrent requests cannot
// oversubscribe a balance.
type LeaveBalanceRepository interface {
	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// InitializeMissing inserts one row per given leave type seeded from
	// its annual quota, skipping rows that already exist. Returns the
	// number of rows created.
	InitializeMissing(ctx context.Context, employeeID string, year int, types []LeaveType) (int, error)

	// Reserve moves days into pending only if the available quota covers
	// them. Returns ErrInsufficientBalance when it does not, and
	// ErrBalanceNotInitialized when no ledger row exists.
	Reserve(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error

	// Finalize moves days from pending to used on terminal approval.
	Finalize(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error

	// Release returns pending days to the available pool on rejection or
	// cancellation.
	Release(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) error

	// AdminUpdate overwrites ledger counters directly.
	AdminUpdate(ctx context.Context, req *UpdateBalanceRequest) (*LeaveBalance, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, lr *LeaveRequest) error
	GetByID(ctx context.Context, id string) (*LeaveRequest, error)
	List(ctx context.Context, filter *ListRequestsFilter) ([]LeaveRequest, int, error)

	// UpdateStatus persists a status transition together with the
	// appended approval chain, current approver pointer and rejection
	// reason.
	UpdateStatus(ctx context.Context, lr *LeaveRequest) error

	// MarkAttendanceCreated flips the synthesizer guard flag.
	MarkAttendanceCreated(ctx context.Context, id string) error
}
