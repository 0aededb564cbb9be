package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/inout-app/inout-backend-go/internal/config"
	"github.com/inout-app/inout-backend-go/internal/handler/http/middleware"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
)

const appVersion = "v1.0.0"

func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	authHandler AuthHandler,
	profileHandler ProfileHandler,
	attendanceHandler AttendanceHandler,
	employeeHandler EmployeeHandler,
	locationHandler LocationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "inout"),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.BasePath))))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/google", authHandler.GoogleSignIn)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Get("/oauth/google", authHandler.LoginWithGoogle)
			r.Get("/oauth/callback/google", authHandler.OAuthCallbackGoogle)
		})

		// The stream authenticates with a query token since EventSource
		// cannot send headers.
		r.Get("/attendance/stream", attendanceHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Update)
				r.Post("/photo", profileHandler.UploadPhoto)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/status", attendanceHandler.Status)
				r.Post("/stream-token", authHandler.StreamToken)

				r.Group(func(r chi.Router) {
					r.Use(middleware.EmployeeOnly)
					r.Post("/check-in", attendanceHandler.CheckIn)
					r.Post("/check-out", attendanceHandler.CheckOut)
					r.Get("/history", attendanceHandler.History)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.List)
					r.Get("/open-shifts", attendanceHandler.OpenShifts)
				})
			})

			r.Post("/qr/decode", locationHandler.DecodeQR)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", employeeHandler.List)
					r.Route("/{uid}", func(r chi.Router) {
						r.Post("/approve", employeeHandler.Approve)
						r.Put("/location", employeeHandler.AssignLocation)
						r.Delete("/", employeeHandler.Delete)
					})
				})

				r.Route("/locations", func(r chi.Router) {
					r.Get("/", locationHandler.List)
					r.Post("/", locationHandler.Create)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", locationHandler.Get)
						r.Put("/", locationHandler.Update)
						r.Delete("/", locationHandler.Delete)
						r.Get("/qr", locationHandler.QRCode)
					})
				})
			})
		})
	})
	return r
}
