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

	"github.com/cmlabs-hris/hris-payroll/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/pdf"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/postgresql"
	auditService "github.com/cmlabs-hris/hris-payroll/internal/service/audit"
	employeeService "github.com/cmlabs-hris/hris-payroll/internal/service/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/service/master"
	payrollService "github.com/cmlabs-hris/hris-payroll/internal/service/payroll"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(db, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	m := metrics.New()
	transactor := postgresql.NewTransactor(db)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	gradeRepo := postgresql.NewGradeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	recorder := auditService.NewRecorder(auditRepo, logger.Audit(log), m)
	renderer := pdf.NewPayslipRenderer(cfg.Payslip.CompanyName, cfg.Payslip.Currency)

	masterService := master.NewMasterService(gradeRepo, departmentRepo, recorder)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, gradeRepo, departmentRepo, recorder)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		payrollRepo,
		employeeRepo,
		gradeRepo,
		recorder,
		renderer,
		m,
		log,
	)

	if jobs := cron.NewPayrollJobs(payrollSvc, cfg.Payroll.AutoRunDay, log); jobs != nil {
		scheduler := cron.NewScheduler(ctx, log)
		jobs.RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         log,
			LogLevel:       logger.ParseLevel(cfg.App.LogLevel),
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Metrics:        m.Handler(),
		},
		JWTService,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewMasterHandler(masterService),
		appHTTP.NewPayrollHandler(payrollSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
