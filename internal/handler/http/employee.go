package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/middleware"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetMyProfile(w http.ResponseWriter, r *http.Request)
	GetMyTeam(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Terminate(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{employeeService: employeeService}
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	emp, err := h.employeeService.Create(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created", emp)
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &employee.ListEmployeesFilter{
		Search: q.Get("search"),
	}
	if v := q.Get("department_id"); v != "" {
		filter.DepartmentID = &v
	}
	if v := q.Get("manager_id"); v != "" {
		filter.ManagerID = &v
	}
	if v := q.Get("status"); v != "" {
		status := employee.EmploymentStatus(v)
		filter.Status = &status
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		filter.Offset = v
	}

	employees, total, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, employees, &response.Meta{
		Limit:      filter.Limit,
		TotalItems: int64(total),
	})
}

// Get implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	emp, err := h.employeeService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// GetMyProfile implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromRequest(r)
	if principal == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	emp, err := h.employeeService.GetByUserID(r.Context(), principal.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// GetMyTeam implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromRequest(r)
	if principal == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	if principal.EmployeeID == nil {
		response.HandleError(w, employee.ErrProfileNotLinked)
		return
	}

	team, err := h.employeeService.ListByManager(r.Context(), *principal.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, team)
}

// Update implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	emp, err := h.employeeService.Update(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated", emp)
}

// Terminate implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Terminate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	if err := h.employeeService.Terminate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee terminated", nil)
}
