package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/idenning2003/fullstack/docs"
	"github.com/idenning2003/fullstack/internal/api/handler"
	"github.com/idenning2003/fullstack/internal/api/middleware"
	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// Deps holds everything the router needs. Mongo and Redis are optional and
// only feed the readiness probe.
type Deps struct {
	Auth        ports.AuthService
	Identity    ports.IdentityService
	Users       ports.UserService
	Roles       ports.RoleService
	Authorities ports.AuthorityService

	Mongo *mongo.Database
	Redis redis.UniversalClient

	Log   zerolog.Logger
	Clock func() time.Time

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Clock)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// Outside the request logger, so errors are already rendered and the
	// recorded status is the real one.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "rbac",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.RequestLogger(d.Log))

	// --- Public ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.GET("/", handler.Heartbeat)
	e.POST("/authenticate/login", authHandler.Login)
	e.POST("/authenticate/register", authHandler.Register)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Gated ---
	authenticated := middleware.Authenticate(d.Identity)
	requires := middleware.Requires

	authorityHandler := handler.NewAuthorityHandler(d.Authorities)
	authorities := e.Group("/authorities", authenticated)
	authorities.GET("", authorityHandler.List, requires(domain.AuthorityRead))
	authorities.GET("/:id", authorityHandler.Get, requires(domain.AuthorityRead))

	roleHandler := handler.NewRoleHandler(d.Roles)
	roles := e.Group("/roles", authenticated)
	roles.GET("", roleHandler.List, requires(domain.RoleRead))
	roles.GET("/:id", roleHandler.Get, requires(domain.RoleRead))
	roles.POST("", roleHandler.Create, requires(domain.RoleWrite))
	roles.PUT("/:id", roleHandler.Update, requires(domain.RoleRead, domain.RoleWrite))
	roles.DELETE("/:id", roleHandler.Delete, requires(domain.RoleWrite))

	userHandler := handler.NewUserHandler(d.Users)
	userRoleHandler := handler.NewUserRoleHandler(d.Users)
	users := e.Group("/users", authenticated)
	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)
	users.GET("", userHandler.List, requires(domain.UserRead))
	users.GET("/:id", userHandler.Get, requires(domain.UserRead))
	users.PUT("/:id", userHandler.Update, requires(domain.UserRead, domain.UserWrite))
	users.DELETE("/:id", userHandler.Delete, requires(domain.UserWrite))
	users.GET("/:id/roles", userRoleHandler.List, requires(domain.UserRead, domain.RoleRead))
	users.POST("/:id/roles", userRoleHandler.Set, requires(domain.UserWrite, domain.RoleRead))
	users.PUT("/:id/roles", userRoleHandler.Add, requires(domain.UserRead, domain.UserWrite, domain.RoleRead))
	users.DELETE("/:id/roles", userRoleHandler.Remove, requires(domain.UserRead, domain.UserWrite, domain.RoleRead))

	return e
}
