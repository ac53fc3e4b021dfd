package http

import (
	"log/slog"

	"github.com/cmlabs-hris/shrms-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         AuthHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Salary       SalaryHandler
	Request      RequestHandler
	Ledger       LedgerHandler
	Settings     SettingsHandler
	Dashboard    DashboardHandler
	Notification NotificationHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(jwtService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Authenticated with a short-lived token in the query string.
		r.Get("/events/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Post("/auth/sse-token", h.Auth.SSEToken)
			r.Get("/me", h.Employee.GetMe)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/summary", h.Attendance.Summary)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Attendance.List)
					r.Post("/mark", h.Attendance.Mark)
					r.Post("/recalculate-hours", h.Attendance.RecalculateWorkHours)
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", h.Request.Create)
				r.Get("/my", h.Request.Mine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Request.List)
					r.Get("/{id}", h.Request.Get)
					r.Post("/{id}/approve", h.Request.Approve)
					r.Post("/{id}/reject", h.Request.Reject)
				})
			})

			r.Route("/salary", func(r chi.Router) {
				r.Get("/my", h.Salary.Mine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Salary.ListByMonth)
					r.Get("/unpaid", h.Salary.ListUnpaid)
					r.Post("/recalculate", h.Salary.RecalculateMonth)
					r.Post("/employees/{employeeID}/recalculate", h.Salary.RecalculateEmployee)
					r.Get("/employees/{employeeID}/report", h.Salary.Report)
					r.Post("/{id}/adjust", h.Salary.Adjust)
					r.Post("/{id}/pay", h.Salary.MarkPaid)
					r.Get("/{id}/logs", h.Salary.Logs)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})

				r.Route("/ledger", func(r chi.Router) {
					r.Get("/status", h.Ledger.Status)
					r.Get("/vaults", h.Ledger.Vaults)
					r.Post("/preview", h.Ledger.Preview)
					r.Get("/history", h.Ledger.History)
				})

				r.Get("/settings", h.Settings.Get)
				r.Put("/settings", h.Settings.Update)
				r.Get("/dashboard", h.Dashboard.GetDashboard)
			})
		})
	})
	return r
}
