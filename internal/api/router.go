package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hbnb/rental-api/docs"
	"github.com/hbnb/rental-api/internal/api/handler"
	"github.com/hbnb/rental-api/internal/api/middleware"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Users     ports.UserService
	Places    ports.PlaceService
	Amenities ports.AmenityService
	Reviews   ports.ReviewService
	Auth      ports.AuthService

	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger
	Logger zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(prometheusMiddleware(deps.Registry))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	userHandler := handler.NewUserHandler(deps.Users, deps.Places, deps.Reviews)
	amenityHandler := handler.NewAmenityHandler(deps.Amenities)
	placeHandler := handler.NewPlaceHandler(deps.Places, deps.Reviews)
	reviewHandler := handler.NewReviewHandler(deps.Reviews)
	healthHandler := handler.NewHealthHandler(deps.Health)

	auth := middleware.Auth(deps.Auth)
	admin := middleware.RequireAdmin()

	v1 := e.Group("/api/v1")

	// --- Auth ---
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout, auth)
	v1.GET("/auth/me", authHandler.Me, auth)

	// --- Users ---
	v1.GET("/users", userHandler.List)
	v1.GET("/users/:id", userHandler.Get)
	v1.GET("/users/:id/places", userHandler.Places)
	v1.GET("/users/:id/reviews", userHandler.Reviews)
	v1.POST("/users", userHandler.Create, auth, admin)
	v1.PUT("/users/:id", userHandler.Update, auth, admin)
	v1.DELETE("/users/:id", userHandler.Delete, auth, admin)

	// --- Amenities ---
	v1.GET("/amenities", amenityHandler.List)
	v1.GET("/amenities/:id", amenityHandler.Get)
	v1.POST("/amenities", amenityHandler.Create, auth, admin)
	v1.PUT("/amenities/:id", amenityHandler.Update, auth, admin)
	v1.DELETE("/amenities/:id", amenityHandler.Delete, auth, admin)

	// --- Places ---
	v1.GET("/places", placeHandler.List)
	v1.GET("/places/:id", placeHandler.Get)
	v1.GET("/places/:id/reviews", placeHandler.Reviews)
	v1.POST("/places", placeHandler.Create, auth)
	v1.PUT("/places/:id", placeHandler.Update, auth)
	v1.DELETE("/places/:id", placeHandler.Delete, auth)

	// --- Reviews ---
	v1.GET("/reviews", reviewHandler.List)
	v1.GET("/reviews/:id", reviewHandler.Get)
	v1.POST("/reviews", reviewHandler.Create, auth)
	v1.PUT("/reviews/:id", reviewHandler.Update, auth)
	v1.DELETE("/reviews/:id", reviewHandler.Delete, auth)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "hbnb"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
