package leave

import (
	"testing"
)

func TestLeaveBalanceAvailable(t *testing.T) {
	cases := []struct {
		name    string
		balance LeaveBalance
		want    float64
	}{
		{"fresh quota", LeaveBalance{TotalQuota: 12}, 12},
		{"with carried forward", LeaveBalance{TotalQuota: 12, CarriedForward: 3}, 15},
		{"used and pending subtract", LeaveBalance{TotalQuota: 12, Used: 4, Pending: 2.5}, 5.5},
		{"fully reserved", LeaveBalance{TotalQuota: 10, Used: 6, Pending: 4}, 0},
		{"half day granularity", LeaveBalance{TotalQuota: 12, Used: 0.5}, 11.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.balance.Available(); got != c.want {
				t.Errorf("Available() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestLeaveRequestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	for _, s := range []LeaveRequestStatus{StatusApproved, StatusRejected, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestApprovalChainPendingIndex(t *testing.T) {
	chain := ApprovalChain{
		{Role: ApproverManager, Status: StepApproved},
		{Role: ApproverHR, Status: StepPending},
	}

	if got := chain.PendingIndex(ApproverHR); got != 1 {
		t.Errorf("PendingIndex(hr) = %d, want 1", got)
	}
	if got := chain.PendingIndex(ApproverManager); got != -1 {
		t.Errorf("PendingIndex(manager) = %d, want -1 after approval", got)
	}
	if got := ApprovalChain(nil).PendingIndex(ApproverManager); got != -1 {
		t.Errorf("PendingIndex on empty chain = %d, want -1", got)
	}
}

func TestApprovalChainValueScan(t *testing.T) {
	managerID := "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"
	chain := ApprovalChain{
		{ApproverID: &managerID, ApproverName: "Jane Manager", Role: ApproverManager, Status: StepPending},
	}

	raw, err := chain.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var decoded ApprovalChain
	if err := decoded.Scan(raw.([]byte)); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(decoded) != 1 {
		t.Fatalf("decoded chain length = %d, want 1", len(decoded))
	}
	step := decoded[0]
	if step.ApproverID == nil || *step.ApproverID != managerID {
		t.Errorf("approver_id did not survive the round trip")
	}
	if step.Role != ApproverManager || step.Status != StepPending {
		t.Errorf("role/status = %s/%s, want manager/pending", step.Role, step.Status)
	}
}

func TestApprovalChainValueNil(t *testing.T) {
	var chain ApprovalChain

	raw, err := chain.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	if string(raw.([]byte)) != "[]" {
		t.Errorf("nil chain serializes as %s, want []", raw)
	}
}

func TestApprovalChainScanNull(t *testing.T) {
	chain := ApprovalChain{{Role: ApproverManager, Status: StepPending}}
	if err := chain.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if len(chain) != 0 {
		t.Errorf("Scan(nil) left %d entries, want 0", len(chain))
	}
}

func TestLeaveRequestWaitingOn(t *testing.T) {
	manager := ApproverManager
	lr := LeaveRequest{Status: StatusPending, CurrentApprover: &manager}

	if !lr.WaitingOn(ApproverManager) {
		t.Error("request should be waiting on manager")
	}
	if lr.WaitingOn(ApproverHR) {
		t.Error("request should not be waiting on hr")
	}

	lr.Status = StatusApproved
	if lr.WaitingOn(ApproverManager) {
		t.Error("approved request waits on nobody")
	}

	lr.Status = StatusPending
	lr.CurrentApprover = nil
	if lr.WaitingOn(ApproverManager) {
		t.Error("request with no current approver waits on nobody")
	}
}
