package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the non-handler dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	Metrics        http.Handler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, employeeHandler EmployeeHandler, masterHandler MasterHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Salary data is HR only
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireRole(auth.RoleHR, auth.RoleAdmin))

			r.Route("/employees", func(r chi.Router) {
				r.Post("/", employeeHandler.Create)
				r.Get("/", employeeHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.Get)
					r.Post("/basic-salary", employeeHandler.SetBasicSalary)
					r.Get("/basic-salary", employeeHandler.GetBasicSalary)
				})
			})

			r.Route("/master", func(r chi.Router) {
				r.Route("/grades", func(r chi.Router) {
					r.Post("/", masterHandler.CreateGrade)
					r.Get("/", masterHandler.ListGrades)
					r.Get("/{id}", masterHandler.GetGrade)
				})
				r.Route("/departments", func(r chi.Router) {
					r.Post("/", masterHandler.CreateDepartment)
					r.Get("/", masterHandler.ListDepartments)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/overtime-rules", func(r chi.Router) {
					r.Get("/", payrollHandler.ListOvertimeRules)
					r.Get("/{gradeId}", payrollHandler.GetOvertimeRule)
					r.Put("/{gradeId}", payrollHandler.UpsertOvertimeRule)
				})
				r.Route("/overtime", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateOvertimeAdjustment)
					r.Get("/", payrollHandler.ListOvertimeAdjustments)
					r.Get("/rate", payrollHandler.PreviewOvertimeRate)
				})

				r.Route("/allowances", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateAllowance)
					r.Get("/", payrollHandler.ListAllowances)
				})
				r.Route("/deductions", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateDeduction)
					r.Get("/", payrollHandler.ListDeductions)
					r.Patch("/{id}/status", payrollHandler.UpdateDeductionStatus)
				})
				r.Route("/bonuses", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateBonus)
					r.Get("/", payrollHandler.ListBonuses)
				})
				r.Get("/reimbursements", payrollHandler.ListReimbursements)

				r.Get("/earnings", payrollHandler.ListEarnings)
				r.Get("/summary", payrollHandler.GetSummary)
				r.Post("/run", payrollHandler.RunPayroll)
				r.Get("/cycles", payrollHandler.ListCycles)
				r.Get("/payslip", payrollHandler.GetPayslip)

				r.Route("/compensation", func(r chi.Router) {
					r.Post("/preview", payrollHandler.PreviewCompensation)
					r.Post("/apply", payrollHandler.ApplyCompensation)
				})
			})
		})
	})

	return r
}
