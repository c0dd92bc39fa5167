package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/volunteer-hours-api/internal/config"
	"github.com/volunteer-hours-api/internal/service"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, health HealthChecker, log zerolog.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	projectHandler := NewProjectHandler(services, cfg, log)
	hoursHandler := NewHoursHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(health, log))
	router.GET("/metrics", metricsHandler(services, log))

	// API v1
	v1 := router.Group("/v1")
	{
		// Public endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/signin", authHandler.SignIn)
			auth.GET("/bootstrap", authHandler.Bootstrap)
		}

		// Authenticated endpoints
		authed := v1.Group("")
		authed.Use(authMiddleware(services.Auth, log))
		{
			authed.GET("/me", authHandler.Me)

			projects := authed.Group("/projects")
			{
				projects.GET("", projectHandler.ListApproved)
				projects.POST("", projectHandler.Create)
				projects.GET("/mine", projectHandler.ListMine)
				projects.GET("/joined", projectHandler.ListJoined)
				projects.DELETE("/:id", projectHandler.Delete)
				projects.POST("/:id/signup", projectHandler.Join)
				projects.DELETE("/:id/signup", projectHandler.Withdraw)
				projects.POST("/:id/edit-requests", projectHandler.SubmitEdit)
			}
			authed.GET("/edit-requests/mine", projectHandler.ListMyEdits)
			authed.POST("/uploads/thumbnail", projectHandler.UploadThumbnail)

			hours := authed.Group("/hours")
			{
				hours.POST("", hoursHandler.Submit)
				hours.GET("/mine", hoursHandler.ListMine)
				hours.GET("/summary", hoursHandler.Summary)
			}

			admin := authed.Group("/admin")
			admin.Use(adminOnly())
			{
				admin.GET("/pending", adminHandler.Pending)
				admin.POST("/projects/:id/review", adminHandler.ReviewProject)
				admin.POST("/hours/:id/review", adminHandler.ReviewHours)
				admin.POST("/edit-requests/:id/review", adminHandler.ReviewEdit)
				admin.GET("/users", adminHandler.ListUsers)
				admin.POST("/users/:id/promote", adminHandler.Promote)
				admin.GET("/reports/hours", adminHandler.HoursReport)
			}
		}
	}

	return router
}

// healthCheck returns the health status, 503 when the database is unreachable
func healthCheck(health HealthChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.HealthCheck(ctx); err != nil {
				log.Error().Err(err).Msg("Health check failed")
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "volunteer-hours-api",
		})
	}
}

// metricsHandler returns profile and moderation backlog counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := services.Report.Metrics(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"database":  metrics,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}
		if p := profileFrom(c); p != nil {
			event = event.Str("user_id", p.ID)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
