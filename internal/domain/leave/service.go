package leave

import (
	"context"

	"github.com/staffhub/hrm-backend-go/internal/domain/user"
)

// Actor is the authenticated principal performing a leave operation.
// EmployeeID is nil for accounts without an employee profile.
type Actor struct {
	UserID     string
	EmployeeID *string
	Role       user.Role
}

type LeaveTypeService interface {
	Create(ctx context.Context, req *CreateLeaveTypeRequest) (*LeaveType, error)
	GetByID(ctx context.Context, id string) (*LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, req *UpdateLeaveTypeRequest) (*LeaveType, error)
	Deactivate(ctx context.Context, id string) error
}

type LeaveBalanceService interface {
	// Initialize creates missing ledger rows for every active leave type.
	// Safe to call repeatedly.
	Initialize(ctx context.Context, employeeID string, year int) (int, error)
	GetMyBalance(ctx context.Context, actor *Actor, year int) ([]LeaveBalance, error)
	GetEmployeeBalance(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	AdminUpdate(ctx context.Context, req *UpdateBalanceRequest) (*LeaveBalance, error)
}

type LeaveRequestService interface {
	Create(ctx context.Context, actor *Actor, req *CreateLeaveRequestRequest) (*LeaveRequest, error)
	GetByID(ctx context.Context, actor *Actor, id string) (*LeaveRequest, error)
	ListMy(ctx context.Context, actor *Actor, filter *ListRequestsFilter) ([]LeaveRequest, int, error)
	ListPendingApprovals(ctx context.Context, actor *Actor) ([]LeaveRequest, error)
	ListAll(ctx context.Context, actor *Actor, filter *ListRequestsFilter) ([]LeaveRequest, int, error)
	Approve(ctx context.Context, actor *Actor, req *ApprovalActionRequest) (*LeaveRequest, error)
	Reject(ctx context.Context, actor *Actor, req *RejectLeaveRequestRequest) (*LeaveRequest, error)
	Cancel(ctx context.Context, actor *Actor, id string) (*LeaveRequest, error)
}
