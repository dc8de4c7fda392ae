package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	appHTTP "github.com/cmlabs-hris/presence-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/presence-backend-go/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/presence-backend-go/internal/service/leave"
	networkService "github.com/cmlabs-hris/presence-backend-go/internal/service/network"
	scheduleService "github.com/cmlabs-hris/presence-backend-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "presence-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	window, err := attendance.NewWindow(cfg.Attendance.WindowStart, cfg.Attendance.WindowEnd)
	if err != nil {
		return fmt.Errorf("admission window: %w", err)
	}
	loc := cfg.Location()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	networkConfigRepo := postgresql.NewNetworkConfigRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	networkSvc := networkService.NewNetworkService(networkConfigRepo, network.Policy{
		FailOpen:       cfg.Network.FailOpen,
		Disabled:       cfg.Network.ValidationDisabled,
		AllowLoopback:  cfg.Network.AllowLoopback,
		RequirePrivate: cfg.Network.RequirePrivate,
	})
	scheduleSvc := scheduleService.NewScheduleService(workScheduleRepo, employeeRepo, schedule.Default{
		CheckInTime:        cfg.Schedule.DefaultCheckIn,
		CheckOutTime:       cfg.Schedule.DefaultCheckOut,
		GracePeriodMinutes: cfg.Schedule.DefaultGraceMinutes,
	})
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		scheduleSvc,
		networkSvc,
		hub,
		attendanceService.Options{
			Location:       loc,
			Window:         window,
			ClientTimeSkew: cfg.Attendance.ClientTimeMaxSkew,
		},
	)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, loc, nil)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, employeeRepo, loc, nil)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc, hub),
		Network:    appHTTP.NewNetworkHandler(networkSvc),
	}, appHTTP.RouterOptions{
		Logger:             logger,
		CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
		TrustedIPHeaders:   cfg.Network.TrustedHeaders,
		RateLimitRPS:       cfg.RateLimit.RPS,
		RateLimitBurst:     cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// cancels open dashboard streams on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", srv.Addr, "timezone", loc.String(), "window", window.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Absence.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAbsenceSweep(attendanceRepo, employeeRepo, leaveRequestRepo, loc, cfg.Absence.SkipWeekends).
			Register(scheduler, cfg.Absence.Interval)
		g.Go(func() error {
			scheduler.Run(gCtx)
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		slog.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
