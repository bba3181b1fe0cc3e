package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/staffhub/hrm-backend-go/internal/config"
	"github.com/staffhub/hrm-backend-go/internal/domain/user"
	"github.com/staffhub/hrm-backend-go/internal/handler/http/middleware"
	"github.com/staffhub/hrm-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	jwtService jwt.Service,
	authHandler AuthHandler,
	userHandler UserHandler,
	departmentHandler DepartmentHandler,
	employeeHandler EmployeeHandler,
	leaveHandler LeaveHandler,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/auth/me", authHandler.Me)

			// Account creation is an admin action; there is no open
			// sign-up. Bootstrap the first admin through a seed script.
			r.With(middleware.RequirePermission(user.PermissionUserManage)).
				Post("/auth/register", authHandler.Register)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", departmentHandler.List)
				r.Get("/{id}", departmentHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDepartmentManage))
					r.Post("/", departmentHandler.Create)
					r.Put("/{id}", departmentHandler.Update)
					r.Delete("/{id}", departmentHandler.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/my-profile", employeeHandler.GetMyProfile)
				r.Get("/my-team", employeeHandler.GetMyTeam)
				r.Get("/{id}", employeeHandler.Get)

				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).
					Get("/", employeeHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", employeeHandler.Create)
					r.Put("/{id}", employeeHandler.Update)
					r.Delete("/{id}", employeeHandler.Terminate)
				})
			})

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", leaveHandler.ListTypes)
				r.Get("/{id}", leaveHandler.GetType)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveManageTypes))
					r.Post("/", leaveHandler.CreateType)
					r.Put("/{id}", leaveHandler.UpdateType)
					r.Delete("/{id}", leaveHandler.DeleteType)
				})
			})

			r.Route("/leave-balance", func(r chi.Router) {
				r.Get("/my-balance", leaveHandler.GetMyBalance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveManageBalance))
					r.Post("/initialize/{employeeId}", leaveHandler.InitializeBalance)
					r.Get("/employee/{employeeId}", leaveHandler.GetEmployeeBalance)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/employee/{employeeId}", leaveHandler.UpdateBalance)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", leaveHandler.CreateRequest)
				r.Get("/my-requests", leaveHandler.GetMyRequests)

				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).
					Get("/pending-approvals", leaveHandler.GetPendingApprovals)
				r.With(middleware.RequireHROrAdmin).
					Get("/all", leaveHandler.GetAllRequests)

				r.Get("/{id}", leaveHandler.GetRequest)
				r.Put("/{id}/cancel", leaveHandler.CancelRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Put("/{id}/approve", leaveHandler.ApproveRequest)
					r.Put("/{id}/reject", leaveHandler.RejectRequest)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/today", attendanceHandler.GetMyToday)
				r.Get("/", attendanceHandler.List)

				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
					Post("/mark", attendanceHandler.Mark)
			})

			r.Route("/salary-structures", func(r chi.Router) {
				r.Use(middleware.RequireHROrAdmin)
				r.Get("/", payrollHandler.ListSalaryStructures)
				r.Put("/{employeeId}", payrollHandler.UpsertSalaryStructure)
				r.Get("/{employeeId}", payrollHandler.GetSalaryStructure)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", payrollHandler.List)
				r.Get("/{id}", payrollHandler.Get)

				r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).
					Post("/generate", payrollHandler.Generate)
				r.With(middleware.RequireHROrAdmin).
					Put("/{id}/paid", payrollHandler.MarkPaid)

				r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).
					Put("/{id}/approve", payrollHandler.Approve)
			})
		})
	})

	return r
}
