package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/staffhub/hrm-backend-go/internal/config"
	appHTTP "github.com/staffhub/hrm-backend-go/internal/handler/http"
	"github.com/staffhub/hrm-backend-go/internal/pkg/database"
	"github.com/staffhub/hrm-backend-go/internal/pkg/jwt"
	"github.com/staffhub/hrm-backend-go/internal/repository/postgresql"
	attendanceService "github.com/staffhub/hrm-backend-go/internal/service/attendance"
	authService "github.com/staffhub/hrm-backend-go/internal/service/auth"
	departmentService "github.com/staffhub/hrm-backend-go/internal/service/department"
	employeeService "github.com/staffhub/hrm-backend-go/internal/service/employee"
	leaveService "github.com/staffhub/hrm-backend-go/internal/service/leave"
	payrollService "github.com/staffhub/hrm-backend-go/internal/service/payroll"
	userService "github.com/staffhub/hrm-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrm-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryStructureRepo := postgresql.NewSalaryStructureRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := authService.NewAuthService(userRepo, jwtService)
	userSvc := userService.NewUserService(userRepo)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, departmentRepo, userRepo)
	leaveTypeSvc := leaveService.NewLeaveTypeService(leaveTypeRepo)
	leaveBalanceSvc := leaveService.NewLeaveBalanceService(db, leaveTypeRepo, leaveBalanceRepo, employeeRepo)
	synthesizer := leaveService.NewAttendanceSynthesizer(attendanceRepo, leaveRequestRepo, logger)
	leaveRequestSvc := leaveService.NewLeaveRequestService(
		db,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveRequestRepo,
		employeeRepo,
		userRepo,
		synthesizer,
		logger,
	)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	salarySvc := payrollService.NewSalaryStructureService(salaryStructureRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, salaryStructureRepo, employeeRepo, attendanceRepo, logger)

	authHandler := appHTTP.NewAuthHandler(authSvc, userSvc, jwtService)
	userHandler := appHTTP.NewUserHandler(userSvc)
	departmentHandler := appHTTP.NewDepartmentHandler(departmentSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveTypeSvc, leaveBalanceSvc, leaveRequestSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(salarySvc, payrollSvc)

	router := appHTTP.NewRouter(
		cfg,
		logger,
		jwtService,
		authHandler,
		userHandler,
		departmentHandler,
		employeeHandler,
		leaveHandler,
		attendanceHandler,
		payrollHandler,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", slog.Int("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-shutdown
	logger.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
