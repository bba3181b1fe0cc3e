package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/middleware"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	DeleteType(w http.ResponseWriter, r *http.Request)

	InitializeBalance(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalance(w http.ResponseWriter, r *http.Request)
	UpdateBalance(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetPendingApprovals(w http.ResponseWriter, r *http.Request)
	GetAllRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	typeService    leave.LeaveTypeService
	balanceService leave.LeaveBalanceService
	requestService leave.LeaveRequestService
}

func NewLeaveHandler(
	typeService leave.LeaveTypeService,
	balanceService leave.LeaveBalanceService,
	requestService leave.LeaveRequestService,
) LeaveHandler {
	return &LeaveHandlerImpl{
		typeService:    typeService,
		balanceService: balanceService,
		requestService: requestService,
	}
}

func leaveActor(r *http.Request) *leave.Actor {
	p := middleware.PrincipalFromRequest(r)
	if p == nil {
		return nil
	}
	return &leave.Actor{
		UserID:     p.UserID,
		EmployeeID: p.EmployeeID,
		Role:       p.Role,
	}
}

// yearParam reads an explicit year from the query, defaulting to the
// current year. The services never guess a year themselves.
func yearParam(r *http.Request) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && v > 0 {
		return v
	}
	return time.Now().Year()
}

// CreateType implements LeaveHandler.
func (h *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	lt, err := h.typeService.Create(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created", lt)
}

// ListTypes implements LeaveHandler.
func (h *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"

	types, err := h.typeService.List(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

// GetType implements LeaveHandler.
func (h *LeaveHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave type ID is required", nil)
		return
	}

	lt, err := h.typeService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, lt)
}

// UpdateType implements LeaveHandler.
func (h *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	lt, err := h.typeService.Update(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated", lt)
}

// DeleteType implements LeaveHandler.
func (h *LeaveHandlerImpl) DeleteType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave type ID is required", nil)
		return
	}

	if err := h.typeService.Deactivate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type deactivated", nil)
}

// InitializeBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) InitializeBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var body struct {
		Year int `json:"year"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	year := body.Year
	if year == 0 {
		year = time.Now().Year()
	}

	created, err := h.balanceService.Initialize(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance initialized", map[string]int{
		"created": created,
		"year":    year,
	})
}

// GetMyBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	balances, err := h.balanceService.GetMyBalance(r.Context(), actor, yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetEmployeeBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) GetEmployeeBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	balances, err := h.balanceService.GetEmployeeBalance(r.Context(), employeeID, yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// UpdateBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeId")
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	balance, err := h.balanceService.AdminUpdate(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance updated", balance)
}

// CreateRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	lr, err := h.requestService.Create(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", lr)
}

// GetMyRequests implements LeaveHandler.
func (h *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	filter := requestFilterFromQuery(r)
	requests, total, err := h.requestService.ListMy(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: int64(total)})
}

// GetPendingApprovals implements LeaveHandler.
func (h *LeaveHandlerImpl) GetPendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	requests, err := h.requestService.ListPendingApprovals(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetAllRequests implements LeaveHandler.
func (h *LeaveHandlerImpl) GetAllRequests(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	filter := requestFilterFromQuery(r)
	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}

	requests, total, err := h.requestService.ListAll(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: int64(total)})
}

func requestFilterFromQuery(r *http.Request) *leave.ListRequestsFilter {
	q := r.URL.Query()

	filter := &leave.ListRequestsFilter{}
	if v := q.Get("status"); v != "" {
		status := leave.LeaveRequestStatus(v)
		if status.Valid() {
			filter.StatusIn = []leave.LeaveRequestStatus{status}
		}
	}
	if v, err := strconv.Atoi(q.Get("month")); err == nil && v >= 1 && v <= 12 {
		filter.Month = &v
	}
	if v, err := strconv.Atoi(q.Get("year")); err == nil && v > 0 {
		filter.Year = &v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		filter.Offset = v
	}

	return filter
}

// GetRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	lr, err := h.requestService.GetByID(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, lr)
}

// ApproveRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req leave.ApprovalActionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	req.ID = chi.URLParam(r, "id")

	lr, err := h.requestService.Approve(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", lr)
}

// RejectRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req leave.RejectLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	lr, err := h.requestService.Reject(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", lr)
}

// CancelRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	actor := leaveActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	lr, err := h.requestService.Cancel(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", lr)
}
