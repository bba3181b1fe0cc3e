package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/middleware"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyToday(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

func attendanceActor(r *http.Request) *attendance.Actor {
	p := middleware.PrincipalFromRequest(r)
	if p == nil {
		return nil
	}
	return &attendance.Actor{
		UserID:     p.UserID,
		EmployeeID: p.EmployeeID,
		Role:       p.Role,
	}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor := attendanceActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	att, err := h.attendanceService.CheckIn(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in", att)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor := attendanceActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	att, err := h.attendanceService.CheckOut(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", att)
}

// GetMyToday implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetMyToday(w http.ResponseWriter, r *http.Request) {
	actor := attendanceActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	att, err := h.attendanceService.GetMyToday(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, att)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor := attendanceActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	q := r.URL.Query()
	filter := &attendance.ListFilter{}
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("from"); v != "" {
		filter.From = &v
	}
	if v := q.Get("to"); v != "" {
		filter.To = &v
	}
	if v := q.Get("status"); v != "" {
		status := attendance.AttendanceStatus(v)
		if status.Valid() {
			filter.Status = &status
		}
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		filter.Offset = v
	}

	records, total, err := h.attendanceService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: int64(total)})
}

// Mark implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	actor := attendanceActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	att, err := h.attendanceService.Mark(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded", att)
}
