package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statsbeat/collector/internal/models"
	"github.com/statsbeat/collector/internal/stats"
)

// RegisterStatsRoutes registers the serving-path endpoint.
//
// GET /stats/today
// - "Today" is the UTC calendar day at request time, window [midnight, midnight+24h)
// - counts always carries every event type, zero-filled
func RegisterStatsRoutes(r gin.IRoutes, agg *stats.Aggregator, debug bool) {
	r.GET("/stats/today", func(c *gin.Context) {
		now := time.Now().UTC()

		summary, err := agg.Daily(c.Request.Context(), now)
		if err != nil {
			databaseError(c, debug, err)
			return
		}

		c.JSON(http.StatusOK, models.DailyStatsResponse{
			Date:   now.Format("2006-01-02"),
			Counts: summary.Counts,
			Total:  summary.Total,
		})
	})
}
