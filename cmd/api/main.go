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

	"github.com/cmlabs-hris/shrms-backend-go/internal/config"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/shrms-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/shrms-backend-go/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/shrms-backend-go/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/shrms-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/shrms-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/shrms-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/shrms-backend-go/internal/service/employee"
	ledgerService "github.com/cmlabs-hris/shrms-backend-go/internal/service/ledger"
	notificationService "github.com/cmlabs-hris/shrms-backend-go/internal/service/notification"
	requestService "github.com/cmlabs-hris/shrms-backend-go/internal/service/request"
	salaryService "github.com/cmlabs-hris/shrms-backend-go/internal/service/salary"
	settingsService "github.com/cmlabs-hris/shrms-backend-go/internal/service/settings"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shrms-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, cfg.App.Env != "production")

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	employeeCache := employee.ListCache(redisRepo.NewNoopEmployeeListCache())
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("Redis unavailable, employee list cache disabled", "addr", cfg.Redis.Addr(), "error", err)
		} else {
			defer rdb.Close()
			employeeCache = redisRepo.NewEmployeeListCache(rdb, cfg.Redis.TTL)
		}
	}

	loc := cfg.Location()
	bus := eventbus.New(logger)
	hub := sse.NewHub()
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	// Repositories
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	// Services
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, employeeCache)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, cfg.HR)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, employeeSvc, settingsSvc, loc)
	salarySvc := salaryService.NewSalaryService(db, salaryRepo, requestRepo, employeeSvc, attendanceSvc, settingsSvc, bus)
	requestSvc := requestService.NewRequestService(db, requestRepo, employeeSvc, salarySvc, bus, loc)
	ledgerSvc := ledgerService.NewLedgerService(db, ledgerRepo, settingsSvc)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, ledgerSvc, loc)
	authSvc := serviceAuth.NewAuthService(employeeRepo, jwtService)
	notifSvc := notificationService.NewNotificationService(hub, notificationService.Config{})

	// Event wiring: ledger payouts run in the publisher's call, notifications after it.
	ledgerService.Subscribe(bus, ledgerSvc)
	notificationService.Subscribe(bus, notifSvc)

	router := appHTTP.NewRouter(jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, loc),
		Salary:       appHTTP.NewSalaryHandler(salarySvc, loc),
		Request:      appHTTP.NewRequestHandler(requestSvc),
		Ledger:       appHTTP.NewLedgerHandler(ledgerSvc),
		Settings:     appHTTP.NewSettingsHandler(settingsSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Notification: appHTTP.NewNotificationHandler(jwtService, notifSvc),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.LogLevel(),
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           otelhttp.NewHandler(router, "shrms-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}
	bus.Wait()
	notifSvc.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("Tracer shutdown error", "error", err)
	}
	return nil
}
