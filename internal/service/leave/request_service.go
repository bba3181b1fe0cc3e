package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
	"github.com/staffhub/hrm-backend-go/internal/repository/postgresql"
)

type RequestServiceImpl struct {
	leaveTypeRepository    leave.LeaveTypeRepository
	leaveBalanceRepository leave.LeaveBalanceRepository
	leaveRequestRepository leave.LeaveRequestRepository
	employeeRepository     employee.EmployeeRepository
	userRepository         user.UserRepository
	synthesizer            *AttendanceSynthesizer
	logger                 *slog.Logger

	// withTx is swappable for tests.
	withTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewLeaveRequestService(
	db *database.DB,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	userRepository user.UserRepository,
	synthesizer *AttendanceSynthesizer,
	logger *slog.Logger,
) leave.LeaveRequestService {
	return &RequestServiceImpl{
		leaveTypeRepository:    leaveTypeRepository,
		leaveBalanceRepository: leaveBalanceRepository,
		leaveRequestRepository: leaveRequestRepository,
		employeeRepository:     employeeRepository,
		userRepository:         userRepository,
		synthesizer:            synthesizer,
		logger:                 logger,
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// Create implements leave.LeaveRequestService.
func (s *RequestServiceImpl) Create(ctx context.Context, actor *leave.Actor, req *leave.CreateLeaveRequestRequest) (*leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if actor.EmployeeID == nil {
		return nil, employee.ErrProfileNotLinked
	}

	emp, err := s.employeeRepository.GetByID(ctx, *actor.EmployeeID)
	if err != nil {
		return nil, err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, leave.ErrInvalidDateRange
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, leave.ErrInvalidDateRange
	}
	if end.Before(start) {
		return nil, leave.ErrInvalidDateRange
	}
	days := totalDays(start, end, req.IsHalfDay)
	if days == 0 {
		return nil, leave.ErrNoWorkingDays
	}

	lt, err := s.leaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return nil, err
	}
	if !lt.IsActive {
		return nil, leave.ErrLeaveTypeInactive
	}
	if lt.MaxConsecutiveDays > 0 && days > float64(lt.MaxConsecutiveDays) {
		return nil, leave.ErrMaxConsecutiveDays
	}

	// The ledger year follows the start date, not the wall clock, so a
	// December request for January days draws from the right year.
	year := start.Year()

	chain, currentApprover, err := s.seedApprovalChain(ctx, emp)
	if err != nil {
		return nil, err
	}

	lr := &leave.LeaveRequest{
		EmployeeID:      emp.ID,
		LeaveTypeID:     lt.ID,
		StartDate:       start,
		EndDate:         end,
		IsHalfDay:       req.IsHalfDay,
		HalfDaySession:  req.HalfDaySession,
		TotalDays:       days,
		Reason:          req.Reason,
		AttachmentURL:   req.AttachmentURL,
		Status:          leave.StatusPending,
		ApprovalChain:   chain,
		CurrentApprover: currentApprover,
	}

	err = s.withTx(ctx, func(txCtx context.Context) error {
		if err := s.leaveBalanceRepository.Reserve(txCtx, emp.ID, lt.ID, year, days); err != nil {
			if errors.Is(err, leave.ErrInsufficientBalance) {
				if bal, balErr := s.leaveBalanceRepository.Get(txCtx, emp.ID, lt.ID, year); balErr == nil {
					return fmt.Errorf("%w: %g day(s) available", leave.ErrInsufficientBalance, bal.Available())
				}
			}
			return err
		}
		return s.leaveRequestRepository.Create(txCtx, lr)
	})
	if err != nil {
		return nil, err
	}

	return s.leaveRequestRepository.GetByID(ctx, lr.ID)
}

// seedApprovalChain builds the initial chain. Only the manager stage is
// seeded; employees without a manager go straight to the HR stage with
// an empty chain.
func (s *RequestServiceImpl) seedApprovalChain(ctx context.Context, emp *employee.Employee) (leave.ApprovalChain, *leave.ApproverRole, error) {
	if emp.ManagerID != nil {
		manager, err := s.employeeRepository.GetByID(ctx, *emp.ManagerID)
		if err == nil && manager.UserID != "" {
			managerStage := leave.ApproverManager
			chain := leave.ApprovalChain{{
				ApproverID:   &manager.UserID,
				ApproverName: manager.DisplayName(),
				Role:         leave.ApproverManager,
				Status:       leave.StepPending,
			}}
			return chain, &managerStage, nil
		}
		if err != nil {
			s.logger.Warn("manager lookup failed, routing request to hr",
				slog.String("employee_id", emp.ID),
				slog.String("manager_id", *emp.ManagerID),
				slog.Any("error", err))
		}
	}

	hrStage := leave.ApproverHR
	return leave.ApprovalChain{}, &hrStage, nil
}

// GetByID implements leave.LeaveRequestService.
func (s *RequestServiceImpl) GetByID(ctx context.Context, actor *leave.Actor, id string) (*leave.LeaveRequest, error) {
	lr, err := s.leaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case user.RoleEmployee:
		if actor.EmployeeID == nil || *actor.EmployeeID != lr.EmployeeID {
			return nil, leave.ErrNotRequestOwner
		}
	case user.RoleManager:
		if actor.EmployeeID != nil && *actor.EmployeeID == lr.EmployeeID {
			break
		}
		emp, err := s.employeeRepository.GetByID(ctx, lr.EmployeeID)
		if err != nil {
			return nil, err
		}
		if actor.EmployeeID == nil || emp.ManagerID == nil || *emp.ManagerID != *actor.EmployeeID {
			return nil, leave.ErrNotTeamMember
		}
	case user.RoleHR, user.RoleAdmin:
	}

	return lr, nil
}

// ListMy implements leave.LeaveRequestService.
func (s *RequestServiceImpl) ListMy(ctx context.Context, actor *leave.Actor, filter *leave.ListRequestsFilter) ([]leave.LeaveRequest, int, error) {
	if actor.EmployeeID == nil {
		return nil, 0, employee.ErrProfileNotLinked
	}

	filter.EmployeeID = actor.EmployeeID
	filter.EmployeeIDs = nil
	return s.leaveRequestRepository.List(ctx, filter)
}

// ListPendingApprovals implements leave.LeaveRequestService. Visibility
// is role-scoped: managers see their own team at the manager stage, HR
// sees everything not yet terminal, admin sees all pending requests.
func (s *RequestServiceImpl) ListPendingApprovals(ctx context.Context, actor *leave.Actor) ([]leave.LeaveRequest, error) {
	filter := &leave.ListRequestsFilter{
		StatusIn: []leave.LeaveRequestStatus{leave.StatusPending},
	}

	switch actor.Role {
	case user.RoleManager:
		if actor.EmployeeID == nil {
			return []leave.LeaveRequest{}, nil
		}
		team, err := s.employeeRepository.ListByManager(ctx, *actor.EmployeeID)
		if err != nil {
			return nil, err
		}
		if len(team) == 0 {
			return []leave.LeaveRequest{}, nil
		}
		ids := make([]string, 0, len(team))
		for _, member := range team {
			ids = append(ids, member.ID)
		}
		filter.EmployeeIDs = ids
		filter.ApproverIn = []leave.ApproverRole{leave.ApproverManager}
	case user.RoleHR:
		filter.ApproverIn = []leave.ApproverRole{leave.ApproverManager, leave.ApproverHR}
	case user.RoleAdmin:
	case user.RoleEmployee:
		return nil, user.ErrApproverRoleRequired
	}

	requests, _, err := s.leaveRequestRepository.List(ctx, filter)
	return requests, err
}

// ListAll implements leave.LeaveRequestService.
func (s *RequestServiceImpl) ListAll(ctx context.Context, actor *leave.Actor, filter *leave.ListRequestsFilter) ([]leave.LeaveRequest, int, error) {
	switch actor.Role {
	case user.RoleHR, user.RoleAdmin:
	case user.RoleEmployee, user.RoleManager:
		return nil, 0, user.ErrHROrAdminRequired
	}

	return s.leaveRequestRepository.List(ctx, filter)
}

// Approve implements leave.LeaveRequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, actor *leave.Actor, req *leave.ApprovalActionRequest) (*leave.LeaveRequest, error) {
	var approved *leave.LeaveRequest

	err := s.withTx(ctx, func(txCtx context.Context) error {
		lr, err := s.leaveRequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if lr.Status.Terminal() {
			return leave.ErrRequestNotPending
		}

		stage, err := s.authorizeAction(txCtx, actor, lr)
		if err != nil {
			return err
		}

		now := time.Now()
		name := s.actorName(txCtx, actor)
		if idx := lr.ApprovalChain.PendingIndex(stage); idx >= 0 {
			lr.ApprovalChain[idx].Status = leave.StepApproved
			lr.ApprovalChain[idx].Comments = req.Comments
			lr.ApprovalChain[idx].ActionDate = &now
			lr.ApprovalChain[idx].ApproverID = &actor.UserID
			lr.ApprovalChain[idx].ApproverName = name
		} else {
			// A stage reached without a seeded entry records its action
			// by appending one.
			lr.ApprovalChain = append(lr.ApprovalChain, leave.ApprovalStep{
				ApproverID:   &actor.UserID,
				ApproverName: name,
				Role:         stage,
				Status:       leave.StepApproved,
				Comments:     req.Comments,
				ActionDate:   &now,
			})
		}

		allApproved := true
		for _, step := range lr.ApprovalChain {
			if step.Status != leave.StepApproved {
				allApproved = false
				break
			}
		}

		if allApproved || actor.Role == user.RoleAdmin {
			lr.Status = leave.StatusApproved
			lr.CurrentApprover = nil

			year := lr.StartDate.Year()
			if err := s.leaveBalanceRepository.Finalize(txCtx, lr.EmployeeID, lr.LeaveTypeID, year, lr.TotalDays); err != nil {
				return err
			}
		} else if stage == leave.ApproverManager {
			hrStage := leave.ApproverHR
			lr.CurrentApprover = &hrStage
		}

		if err := s.leaveRequestRepository.UpdateStatus(txCtx, lr); err != nil {
			return err
		}

		approved = lr
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Attendance synthesis is best-effort: the approval stands even if
	// it fails, and it can be retried through the guard flag.
	if approved.Status == leave.StatusApproved {
		if err := s.synthesizer.Synthesize(ctx, approved); err != nil {
			s.logger.Error("attendance synthesis failed after approval",
				slog.String("leave_request_id", approved.ID),
				slog.Any("error", err))
		}
	}

	return s.leaveRequestRepository.GetByID(ctx, approved.ID)
}

// Reject implements leave.LeaveRequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, actor *leave.Actor, req *leave.RejectLeaveRequestRequest) (*leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var rejected *leave.LeaveRequest

	err := s.withTx(ctx, func(txCtx context.Context) error {
		lr, err := s.leaveRequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if lr.Status.Terminal() {
			return leave.ErrRequestNotPending
		}

		stage, err := s.authorizeAction(txCtx, actor, lr)
		if err != nil {
			return err
		}

		now := time.Now()
		name := s.actorName(txCtx, actor)
		if idx := lr.ApprovalChain.PendingIndex(stage); idx >= 0 {
			lr.ApprovalChain[idx].Status = leave.StepRejected
			lr.ApprovalChain[idx].Comments = &req.Reason
			lr.ApprovalChain[idx].ActionDate = &now
			lr.ApprovalChain[idx].ApproverID = &actor.UserID
			lr.ApprovalChain[idx].ApproverName = name
		} else {
			lr.ApprovalChain = append(lr.ApprovalChain, leave.ApprovalStep{
				ApproverID:   &actor.UserID,
				ApproverName: name,
				Role:         stage,
				Status:       leave.StepRejected,
				Comments:     &req.Reason,
				ActionDate:   &now,
			})
		}

		lr.Status = leave.StatusRejected
		lr.CurrentApprover = nil
		lr.RejectionReason = &req.Reason

		year := lr.StartDate.Year()
		if err := s.leaveBalanceRepository.Release(txCtx, lr.EmployeeID, lr.LeaveTypeID, year, lr.TotalDays); err != nil {
			return err
		}

		if err := s.leaveRequestRepository.UpdateStatus(txCtx, lr); err != nil {
			return err
		}

		rejected = lr
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.leaveRequestRepository.GetByID(ctx, rejected.ID)
}

// Cancel implements leave.LeaveRequestService.
func (s *RequestServiceImpl) Cancel(ctx context.Context, actor *leave.Actor, id string) (*leave.LeaveRequest, error) {
	var cancelled *leave.LeaveRequest

	err := s.withTx(ctx, func(txCtx context.Context) error {
		lr, err := s.leaveRequestRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if lr.Status.Terminal() {
			return leave.ErrRequestNotPending
		}

		if actor.Role != user.RoleAdmin {
			if actor.EmployeeID == nil || *actor.EmployeeID != lr.EmployeeID {
				return leave.ErrNotRequestOwner
			}
		}

		lr.Status = leave.StatusCancelled
		lr.CurrentApprover = nil

		year := lr.StartDate.Year()
		if err := s.leaveBalanceRepository.Release(txCtx, lr.EmployeeID, lr.LeaveTypeID, year, lr.TotalDays); err != nil {
			return err
		}

		if err := s.leaveRequestRepository.UpdateStatus(txCtx, lr); err != nil {
			return err
		}

		cancelled = lr
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.leaveRequestRepository.GetByID(ctx, cancelled.ID)
}

// actorName resolves the acting user's display name for the approval
// record. Best-effort; the action never fails on a name lookup.
func (s *RequestServiceImpl) actorName(ctx context.Context, actor *leave.Actor) string {
	u, err := s.userRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return ""
	}
	return u.Name
}

// authorizeAction checks whether actor may act on lr and returns the
// stage their action is recorded under. Managers must own the employee
// and match the current stage, HR must match the current stage, and
// admin bypasses both checks.
func (s *RequestServiceImpl) authorizeAction(ctx context.Context, actor *leave.Actor, lr *leave.LeaveRequest) (leave.ApproverRole, error) {
	switch actor.Role {
	case user.RoleManager:
		if !lr.WaitingOn(leave.ApproverManager) {
			return "", leave.ErrNotCurrentApprover
		}
		emp, err := s.employeeRepository.GetByID(ctx, lr.EmployeeID)
		if err != nil {
			return "", err
		}
		if actor.EmployeeID == nil || emp.ManagerID == nil || *emp.ManagerID != *actor.EmployeeID {
			return "", leave.ErrNotTeamMember
		}
		return leave.ApproverManager, nil
	case user.RoleHR:
		if !lr.WaitingOn(leave.ApproverHR) {
			return "", leave.ErrNotCurrentApprover
		}
		return leave.ApproverHR, nil
	case user.RoleAdmin:
		return leave.ApproverAdmin, nil
	case user.RoleEmployee:
		return "", user.ErrApproverRoleRequired
	}
	return "", user.ErrApproverRoleRequired
}
