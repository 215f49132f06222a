package http

import (
	"log/slog"
	"net/http"

	"github.com/KunimitsuMk2/mogikintai/internal/handler/http/middleware"
	"github.com/KunimitsuMk2/mogikintai/internal/handler/http/response"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Correction CorrectionHandler
	Admin      AdminHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Post("/admin/login", h.Auth.AdminLogin)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Get("/google", h.Auth.LoginWithGoogle)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.MyMonth)
				r.Get("/today", h.Attendance.Today)
				r.Post("/actions/{action}", h.Attendance.PerformAction)
				r.Get("/{id}", h.Attendance.Get)
				r.Post("/{id}/corrections", h.Attendance.SubmitCorrection)
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Get("/", h.Correction.List)
				r.Get("/{id}", h.Correction.Get)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/attendances", h.Admin.DailyAttendances)
				r.Put("/attendances/{id}", h.Admin.EditAttendance)
				r.Get("/staff", h.Admin.ListStaff)
				r.Get("/staff/{userID}/attendances", h.Admin.StaffMonth)
				r.Get("/staff/{userID}/attendances/export", h.Admin.ExportStaffMonth)
				r.Post("/corrections/{id}/approve", h.Admin.ApproveCorrection)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
