package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statsbeat/collector/internal/auth"
	"github.com/statsbeat/collector/internal/config"
	"github.com/statsbeat/collector/internal/handlers"
	"github.com/statsbeat/collector/internal/middleware"
	"github.com/statsbeat/collector/internal/stats"
)

// Store is everything the router needs from the persistence layer.
type Store interface {
	handlers.EventRecorder
	stats.CounterStore
	Ping(ctx context.Context) error
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready
// Authenticated (rate limited ahead of the token check): /events, /stats/today, /test-auth
func NewRouter(cfg config.Config, st Store) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := r.Group("/")
	api.Use(middleware.RateLimit(cfg.RatePerMinute))
	api.Use(auth.TokenMiddleware(cfg.APIToken))

	// Lets clients verify a token without side effects.
	api.GET("/test-auth", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API token authentication successful"})
	})

	handlers.RegisterEventRoutes(api, st, cfg.Debug)
	handlers.RegisterStatsRoutes(api, stats.NewAggregator(st), cfg.Debug)

	return r
}
