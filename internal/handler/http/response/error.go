package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/staffhub/hrm-backend-go/internal/domain/attendance"
	"github.com/staffhub/hrm-backend-go/internal/domain/auth"
	"github.com/staffhub/hrm-backend-go/internal/domain/department"
	"github.com/staffhub/hrm-backend-go/internal/domain/employee"
	"github.com/staffhub/hrm-backend-go/internal/domain/leave"
	"github.com/staffhub/hrm-backend-go/internal/domain/payroll"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountDisabled):
		Forbidden(w, "Account is disabled")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrApproverRoleRequired),
		errors.Is(err, user.ErrHROrAdminRequired):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrProfileNotLinked):
		NotFound(w, "Employee profile not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrUserAlreadyLinked):
		Conflict(w, "User already linked to an employee")
	case errors.Is(err, employee.ErrInvalidManager),
		errors.Is(err, employee.ErrSelfManager):
		BadRequest(w, err.Error(), nil)

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists),
		errors.Is(err, department.ErrDepartmentCodeExists):
		Conflict(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeNameExists),
		errors.Is(err, leave.ErrLeaveTypeCodeExists):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound),
		errors.Is(err, leave.ErrBalanceNotInitialized):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrInsufficientBalance):
		// The message carries the available day count when known.
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrNotRequestOwner),
		errors.Is(err, leave.ErrNotCurrentApprover),
		errors.Is(err, leave.ErrNotTeamMember):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrRequestNotPending),
		errors.Is(err, leave.ErrLeaveTypeInactive),
		errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrNoWorkingDays),
		errors.Is(err, leave.ErrMaxConsecutiveDays):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrLeaveDayLocked):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrSalaryStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, payroll.ErrPayrollExists),
		errors.Is(err, payroll.ErrSalaryStructureExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPayrollNotPending),
		errors.Is(err, payroll.ErrPayrollNotApproved),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Anything unmapped is a server fault; the caller gets a generic
	// message and the detail goes to the log.
	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
