// Package subscriptiontracker собирает зависимости и маршруты HTTP-приложения.
package subscriptiontracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация Swagger-описания.
	_ "github.com/magabrotheeeer/subscription-tracker/docs"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/export"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/summary"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/sessioncookie"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/metrics"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
)

// Deps зависимости, необходимые маршрутам.
type Deps struct {
	Logger        *slog.Logger
	Auth          *authservice.Service
	Subscriptions *subservice.Service
	Cookies       *sessioncookie.Manager
	Storage       health.Pinger
	Backend       string
	Metrics       *metrics.Metrics
	RateLimit     config.RateLimit
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		d.Metrics.Middleware,
	)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/me", me.New(d.Logger, d.Auth, d.Cookies).ServeHTTP)
		r.Post("/logout", logout.New(d.Cookies).ServeHTTP)

		// Ограничение частоты по адресу клиента
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Logger, d.RateLimit.RPS, d.RateLimit.Burst))
			r.Post("/register", register.New(d.Logger, d.Auth, d.Cookies).ServeHTTP)
			r.Post("/login", login.New(d.Logger, d.Auth, d.Cookies).ServeHTTP)
		})
	})

	// Группа с проверкой сессии
	r.Route("/subscriptions", func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(d.Auth, d.Cookies, d.Logger))
		r.Get("/", list.New(d.Logger, d.Subscriptions).ServeHTTP)
		r.Post("/", create.New(d.Logger, d.Subscriptions).ServeHTTP)
		r.Get("/export", export.New(d.Logger, d.Subscriptions).ServeHTTP)
		r.Get("/summary", summary.New(d.Logger, d.Subscriptions).ServeHTTP)
		r.Get("/{id}", read.New(d.Logger, d.Subscriptions).ServeHTTP)
		r.Put("/{id}", update.New(d.Logger, d.Subscriptions).ServeHTTP)
		r.Delete("/{id}", remove.New(d.Logger, d.Subscriptions).ServeHTTP)
	})

	r.Get("/health", health.New(d.Logger, d.Storage, d.Backend).ServeHTTP)
	r.Handle("/metrics", d.Metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// NewRouter создаёт chi-роутер с зарегистрированными маршрутами.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, d)
	return r
}
