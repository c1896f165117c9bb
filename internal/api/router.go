package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scholarhub/portal-gateway/internal/api/handler"
	"github.com/scholarhub/portal-gateway/internal/api/middleware"
	"github.com/scholarhub/portal-gateway/internal/portal"
)

// RouterDeps carries what the router needs from main.
type RouterDeps struct {
	Registry   *portal.Registry
	Cookie     middleware.CookieOptions
	GuardWait  time.Duration
	Mongo      *mongo.Database
	Redis      redis.Cmdable
	BackendURL string
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	// --- Health probes, metrics and docs (no session) ---
	healthHandler := handler.NewHealthHandler(d.Registry)
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis, d.BackendURL)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Log)
	sessionHandler := handler.NewSessionHandler(d.GuardWait, d.Log)
	scholarshipHandler := handler.NewScholarshipHandler()
	applicationHandler := handler.NewApplicationHandler()
	reviewHandler := handler.NewReviewHandler()
	userHandler := handler.NewUserHandler()

	requireAuth := middleware.RequireAuth(d.GuardWait)
	requireModerator := middleware.RequireModerator(d.GuardWait, d.Log)
	requireAdmin := middleware.RequireAdmin(d.GuardWait, d.Log)

	api := e.Group("/api", middleware.Portal(d.Registry, d.Cookie))

	// --- Session ---
	api.GET("/session", sessionHandler.Get)
	api.GET("/session/stream", sessionHandler.Stream)
	api.GET("/notices", sessionHandler.Notices)

	// --- Auth ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/google", authHandler.Google)
	api.POST("/auth/logout", authHandler.Logout)
	api.PATCH("/auth/profile", authHandler.UpdateProfile, requireAuth)

	// --- Public catalogue ---
	api.GET("/scholarships", scholarshipHandler.List)
	api.GET("/scholarships/:id", scholarshipHandler.Get)
	api.GET("/scholarships/:id/reviews", scholarshipHandler.Reviews)

	// --- Student ---
	student := api.Group("", requireAuth)
	student.POST("/payments/intent", applicationHandler.PaymentIntent)
	student.POST("/applications", applicationHandler.Apply)
	student.GET("/my/applications", applicationHandler.ListMine)
	student.DELETE("/my/applications/:id", applicationHandler.Cancel)
	student.POST("/reviews", reviewHandler.Submit)
	student.GET("/my/reviews", reviewHandler.ListMine)
	student.DELETE("/my/reviews/:id", reviewHandler.DeleteMine)

	// --- Moderator ---
	moderator := api.Group("/moderator", requireModerator)
	moderator.GET("/applications", applicationHandler.ListAll)
	moderator.PATCH("/applications/:id", applicationHandler.Moderate)
	moderator.GET("/reviews", reviewHandler.ListAll)
	moderator.DELETE("/reviews/:id", reviewHandler.Delete)
	moderator.POST("/scholarships", scholarshipHandler.Create)

	// --- Admin ---
	admin := api.Group("/admin", requireAdmin)
	admin.GET("/applications", applicationHandler.ListAll)
	admin.PATCH("/applications/:id", applicationHandler.Moderate)
	admin.GET("/reviews", reviewHandler.ListAll)
	admin.DELETE("/reviews/:id", reviewHandler.Delete)
	admin.POST("/scholarships", scholarshipHandler.Create)
	admin.PATCH("/scholarships/:id", scholarshipHandler.Update)
	admin.DELETE("/scholarships/:id", scholarshipHandler.Delete)
	admin.GET("/users", userHandler.List)
	admin.PATCH("/users/:email/role", userHandler.ChangeRole)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/analytics", userHandler.Analytics)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
