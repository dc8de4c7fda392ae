package http

import (
	"log/slog"

	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	TrustedIPHeaders   []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Schedule   ScheduleHandler
	Dashboard  DashboardHandler
	Network    NetworkHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   append([]string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"}, opts.TrustedIPHeaders...),
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.ClientIP(opts.TrustedIPHeaders))

	ja := JWTService.JWTAuth()
	limit := middleware.RateLimitByPrincipal(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot set headers, so the stream also accepts ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(ja, jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(ja))
			r.Use(middleware.AdminOnly)
			r.Get("/dashboard/stream", h.Dashboard.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired(ja))
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Use(limit)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/me", h.Attendance.MyHistory)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}/status", h.Attendance.UpdateStatus)
					r.Route("/employees/{employeeID}", func(r chi.Router) {
						r.Get("/", h.Attendance.EmployeeHistory)
						r.Post("/absent", h.Attendance.MarkAbsent)
						r.Post("/check-in", h.Attendance.AdminCheckIn)
						r.Post("/check-out", h.Attendance.AdminCheckOut)
					})
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.Create)
				r.Route("/me", func(r chi.Router) {
					r.Get("/", h.Leave.ListMine)
					r.Get("/stats", h.Leave.MyStats)
					r.Get("/{id}", h.Leave.GetMine)
					r.Delete("/{id}", h.Leave.DeleteMine)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Leave.List)
					r.Get("/pending", h.Leave.ListPending)
					r.Get("/stats", h.Leave.Stats)
					r.Put("/{id}/review", h.Leave.Review)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/{employeeID}", h.Schedule.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Schedule.ListActive)
					r.Put("/{employeeID}", h.Schedule.Upsert)
					r.Delete("/{employeeID}", h.Schedule.Deactivate)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/me", h.Dashboard.Me)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/in-office", h.Dashboard.InOffice)
					r.Get("/today", h.Dashboard.Today)
					r.Get("/statistics", h.Dashboard.Statistics)
					r.Get("/employees/{employeeID}", h.Dashboard.Employee)
				})
			})

			r.Get("/network/my-ip", h.Network.MyIP)
		})
	})
	return r
}
