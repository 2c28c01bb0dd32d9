package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers groups the endpoint handlers served by the API.
type Handlers struct {
	Jobs          *JobHandler
	Applications  *ApplicationHandler
	Evaluations   *EvaluationHandler
	Notifications *NotificationHandler
	Admin         *AdminHandler
	// Live serves the WebSocket channel; nil leaves it unrouted.
	Live http.Handler
}

// RouterOptions configure NewRouter.
type RouterOptions struct {
	Tokens         TokenValidator
	AllowedOrigins []string
	Logger         *slog.Logger
	// Health reports whether dependencies are reachable; nil always passes.
	Health func(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

// NewRouter builds the echo instance with middleware and every route mounted
// under /api/v1.
func NewRouter(h Handlers, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewAppValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(RequestLogger(opts.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		if opts.Health != nil {
			if err := opts.Health(c.Request().Context()); err != nil {
				slog.Warn("health check failed", "error", err)
				return JSON(c, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			}
		}
		return JSON(c, http.StatusOK, healthResponse{Status: "ok"})
	})

	api := e.Group("/api/v1")

	if h.Live != nil {
		api.GET("/ws/notifications", echo.WrapHandler(h.Live))
	}

	jobs := api.Group("/jobs")
	jobs.POST("", h.Jobs.Create, OptionalAuth(opts.Tokens))
	jobs.GET("", h.Jobs.List)
	jobs.GET("/search", h.Jobs.Search)
	jobs.GET("/:id", h.Jobs.Get)
	jobs.GET("/:id/stats", h.Jobs.Stats)
	jobs.GET("/:id/history", h.Jobs.History)
	jobs.POST("/:id/apply", h.Applications.Apply)
	jobs.GET("/:id/application/:userId", h.Applications.Check)
	jobs.PATCH("/:id/applications/:userId", h.Applications.UpdateStatus, JWTAuth(opts.Tokens), RequireAdmin())
	jobs.POST("/:id/evaluate", h.Evaluations.Submit)
	jobs.GET("/:id/evaluations", h.Evaluations.List)

	notifications := api.Group("/notifications")
	notifications.POST("/new-job", h.Notifications.NotifyNewJob)
	notifications.GET("/:userId", h.Notifications.List)
	notifications.PUT("/:id/read", h.Notifications.MarkRead)

	admin := api.Group("/admin", JWTAuth(opts.Tokens), RequireAdmin())
	admin.POST("/jobs/:id/reinstate", h.Admin.Reinstate)

	return e
}
