package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vetcore/clinic-api/internal/api/handler"
	"github.com/vetcore/clinic-api/internal/api/middleware"
	"github.com/vetcore/clinic-api/internal/core/domain"
	"github.com/vetcore/clinic-api/internal/core/service"
	"github.com/vetcore/clinic-api/internal/infrastructure/config"
	clinicmongo "github.com/vetcore/clinic-api/internal/infrastructure/db/mongo"
	healthhandlers "github.com/vetcore/clinic-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// ctx bounds the rate limiter janitor goroutine.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Dependencies ---
	userRepo := clinicmongo.NewUserRepository(db)
	tenantRepo := clinicmongo.NewTenantRepository(db)
	patientRepo := clinicmongo.NewPatientRepository(db)

	authService := service.NewAuthService(userRepo, tenantRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log)
	patientService := service.NewPatientService(patientRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	patientHandler := handler.NewPatientHandler(patientService)

	authMW := middleware.Auth(cfg.JWTSecret)

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	limiter.Start(ctx)
	limitMW := limiter.Middleware()

	// --- Credential routes ---
	// Register and login sit behind the admission limiter; refresh does not:
	// it is already gated by possession of a signed token.
	e.POST("/auth/register", authHandler.Register, limitMW)
	e.POST("/auth/login", authHandler.Login, limitMW)
	e.POST("/auth/refresh", authHandler.Refresh)

	e.GET("/auth/profile", authHandler.Profile, authMW)
	e.PATCH("/auth/profile", authHandler.UpdateProfile, authMW)
	e.POST("/auth/change-password", authHandler.ChangePassword, authMW)

	// --- Patient registry ---
	patients := e.Group("/patients", authMW)
	patients.POST("", patientHandler.Create,
		middleware.Require(domain.RoleAdmin, domain.RoleVeterinarian, domain.RoleReceptionist))
	patients.GET("", patientHandler.List,
		middleware.Require(domain.RoleTechnician, domain.RoleReceptionist))
	patients.GET("/:recordNumber", patientHandler.Get,
		middleware.Require(domain.RoleTechnician, domain.RoleReceptionist))

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
