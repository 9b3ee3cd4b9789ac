package http

import (
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the endpoint handlers mounted under /api/v1.
type Handlers struct {
	Attendance  AttendanceHandler
	Overtime    OvertimeHandler
	Calendar    CalendarHandler
	GracePeriod GracePeriodHandler
}

func NewRouter(JWTService jwt.Service, logger *slog.Logger, allowedOrigins []string, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		r.Use(middleware.RequireCompany)

		r.Route("/attendance", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(jwt.RoleAdmin, jwt.RoleDevice))
				r.Post("/punch", h.Attendance.Punch)
				r.Post("/bulk", h.Attendance.BulkPunch)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Use(middleware.RequireRole(jwt.RoleAdmin))
				r.Get("/", h.Attendance.ListSessions)
				r.Get("/{id}", h.Attendance.GetSession)
				r.Put("/{id}", h.Attendance.Reclassify)
				r.Delete("/{id}", h.Attendance.DeleteSession)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(jwt.RoleAdmin))

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/", h.Overtime.List)
				r.Post("/", h.Overtime.Create)
				r.Get("/summary", h.Overtime.Summary)
				r.Get("/export", h.Overtime.Export)
				r.Get("/{id}", h.Overtime.Get)
				r.Put("/{id}", h.Overtime.Update)
				r.Patch("/{id}/status", h.Overtime.UpdateStatus)
				r.Delete("/{id}", h.Overtime.Delete)
			})

			r.Route("/grace-periods", func(r chi.Router) {
				r.Get("/", h.GracePeriod.List)
				r.Post("/", h.GracePeriod.Create)
				r.Get("/active", h.GracePeriod.GetActive)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Calendar.List)
				r.Post("/", h.Calendar.Create)
				r.Post("/import", h.Calendar.Import)
				r.Patch("/{id}/toggle", h.Calendar.Toggle)
				r.Delete("/{id}", h.Calendar.Delete)
			})
		})
	})

	return r
}
