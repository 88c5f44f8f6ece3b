package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tryon-bot/internal/infrastructure/metrics"
)

// HealthCheck проверка внешней зависимости для /health
type HealthCheck func(ctx context.Context) error

// NewRouter собирает gin-роутер API
func NewRouter(handler *TryOnHandler, logger *zap.Logger, checks map[string]HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logger(logger))
	r.Use(metrics.Middleware())

	r.GET("/health", health(checks))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	{
		api.POST("/tryon", handler.Start)
		api.POST("/tryon/:id/adjust", handler.Adjust)
		api.POST("/tryon/:id/redetect", handler.Redetect)
		api.DELETE("/tryon/:id", handler.Close)
	}

	return r
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{
			"status":       state,
			"dependencies": deps,
		})
	}
}
