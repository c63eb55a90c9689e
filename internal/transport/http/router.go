package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/registration-api/internal/application/notify"
	"github.com/registration-api/internal/application/registration"
	"github.com/registration-api/internal/config"
	"github.com/registration-api/internal/transport/http/handler"
	appmiddleware "github.com/registration-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to the public registration endpoint.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	registrationSvc := registration.NewService(deps.Store, deps.Mailer, cfg.OTPTTL)
	notifySvc := notify.NewService(deps.Store, deps.Mailer, deps.SMSSender)

	healthH := handler.NewHealthHandler()
	registerH := handler.NewRegisterHandler(registrationSvc)
	usersH := handler.NewUsersHandler(deps.Store, deps.AdminVerifier)
	messageH := handler.NewMessageHandler(notifySvc)
	adminH := handler.NewAdminHandler(deps.AdminVerifier)

	r.Get("/health-check/ping", healthH.Ping)
	r.With(sensitiveRL.Limit).Post("/register", registerH.Register)
	r.Get("/users", usersH.List)
	r.Post("/clear-users", usersH.Clear)
	r.Post("/message", messageH.Send)
	r.Post("/admin/login", adminH.Login)

	return r
}
