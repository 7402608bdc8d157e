package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/fineko/fineko-api/docs"
	"github.com/fineko/fineko-api/internal/api/handler"
	"github.com/fineko/fineko-api/internal/api/middleware"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/infrastructure/http/handlers"
)

// BackendPrefix is the route prefix reverse-proxied to the backend.
const BackendPrefix = "/api/backend"

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Log zerolog.Logger

	Login      ports.LoginService
	Companies  ports.CompanyService
	Resolver   ports.MembershipResolver
	GroupLinks ports.GroupLinkService
	Telegram   ports.TelegramService
	Content    ports.ContentGenerator
	Verifier   ports.CredentialVerifier
	Widget     handler.WidgetVerifier

	Cookie        handler.CookieConfig
	WebhookSecret string

	// Backend proxies BackendPrefix; nil leaves the prefix unrouted.
	Backend echo.MiddlewareFunc
	// Health lists the dependencies checked by /health/ready.
	Health map[string]handlers.Pinger
	// MetricsRegisterer receives the HTTP metrics; nil means the default registry.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "fineko",
		Subsystem:  "http",
		Registerer: d.MetricsRegisterer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Login, d.Companies, d.Widget, d.Cookie)
	accountHandler := handler.NewAccountHandler(d.Companies, d.GroupLinks, d.Cookie)
	contentHandler := handler.NewContentHandler(d.Content, d.Log)
	adminHandler := handler.NewAdminHandler(d.Companies)
	telegramHandler := handler.NewTelegramHandler(d.Telegram, d.WebhookSecret, d.Log)
	auth := middleware.Auth(d.Verifier, d.Cookie.Name)
	member := middleware.RequireMembership(d.Resolver)

	// --- Identity events ---
	e.POST("/api/telegram/webhook", telegramHandler.Webhook)
	e.POST("/api/auth/telegram", authHandler.TelegramLogin)

	// --- Handshake (temporary token in the Authorization header) ---
	e.GET("/api/auth/companies", authHandler.ListCompanies)
	e.POST("/api/auth/select-company", authHandler.SelectCompany)
	e.POST("/api/auth/create-company", authHandler.CreateCompany)
	e.POST("/api/auth/logout", authHandler.Logout)

	// --- Permanent credential ---
	// Company-scoped routes re-check the membership behind the credential.
	e.GET("/api/me", accountHandler.Me, auth, member)
	e.GET("/api/companies", accountHandler.Companies, auth)
	e.POST("/api/companies/switch", accountHandler.Switch, auth, member)
	e.POST("/api/companies/group-link", accountHandler.GroupLink, auth, member)
	e.POST("/api/content/generate", contentHandler.Generate, auth, member)

	admin := e.Group("/api/admin", auth, middleware.RequireAdmin(d.Resolver))
	admin.GET("/companies", adminHandler.ListCompanies)

	if d.Backend != nil {
		backend := e.Group(BackendPrefix, auth, member, middleware.ForwardIdentity(), d.Backend)
		backend.Any("/*", echo.NotFoundHandler)
	}

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
