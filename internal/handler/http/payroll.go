package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/domain/payroll"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/middleware"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	UpsertSalaryStructure(w http.ResponseWriter, r *http.Request)
	GetSalaryStructure(w http.ResponseWriter, r *http.Request)
	ListSalaryStructures(w http.ResponseWriter, r *http.Request)

	Generate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	salaryService  payroll.SalaryStructureService
	payrollService payroll.PayrollService
}

func NewPayrollHandler(
	salaryService payroll.SalaryStructureService,
	payrollService payroll.PayrollService,
) PayrollHandler {
	return &PayrollHandlerImpl{
		salaryService:  salaryService,
		payrollService: payrollService,
	}
}

func payrollActor(r *http.Request) *payroll.Actor {
	p := middleware.PrincipalFromRequest(r)
	if p == nil {
		return nil
	}
	return &payroll.Actor{
		UserID:     p.UserID,
		EmployeeID: p.EmployeeID,
		Role:       p.Role,
	}
}

// UpsertSalaryStructure implements PayrollHandler.
func (h *PayrollHandlerImpl) UpsertSalaryStructure(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpsertSalaryStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if id := chi.URLParam(r, "employeeId"); id != "" {
		req.EmployeeID = id
	}

	ss, err := h.salaryService.Upsert(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary structure saved", ss)
}

// GetSalaryStructure implements PayrollHandler.
func (h *PayrollHandlerImpl) GetSalaryStructure(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	ss, err := h.salaryService.GetByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ss)
}

// ListSalaryStructures implements PayrollHandler.
func (h *PayrollHandlerImpl) ListSalaryStructures(w http.ResponseWriter, r *http.Request) {
	structures, err := h.salaryService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, structures)
}

// Generate implements PayrollHandler.
func (h *PayrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actor := payrollActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll generated", result)
}

// List implements PayrollHandler.
func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor := payrollActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	q := r.URL.Query()
	filter := &payroll.ListPayrollFilter{}
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v, err := strconv.Atoi(q.Get("month")); err == nil && v >= 1 && v <= 12 {
		filter.Month = &v
	}
	if v, err := strconv.Atoi(q.Get("year")); err == nil && v > 0 {
		filter.Year = &v
	}
	if v := q.Get("status"); v != "" {
		status := payroll.PayrollStatus(v)
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

	records, total, err := h.payrollService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: int64(total)})
}

// Get implements PayrollHandler.
func (h *PayrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor := payrollActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return
	}

	record, err := h.payrollService.GetByID(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// Approve implements PayrollHandler.
func (h *PayrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor := payrollActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll record ID is required", nil)
		return
	}

	record, err := h.payrollService.Approve(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", record)
}

// MarkPaid implements PayrollHandler.
func (h *PayrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actor := payrollActor(r)
	if actor == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req payroll.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.payrollService.MarkPaid(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", record)
}
