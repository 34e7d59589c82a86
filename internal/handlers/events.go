package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statsbeat/collector/internal/models"
)

// EventRecorder is the slice of the store the ingestion path writes through.
type EventRecorder interface {
	RecordEvent(ctx context.Context, eventType models.EventType, ts time.Time, sessionID, idempotencyKey string) (models.Event, bool, error)
}

// RegisterEventRoutes registers the ingestion-path endpoint.
//
// POST /events
// - Requires X-Idempotency-Key header (400 without it, before validation)
// - Durable: returns success only after the DB write completes
// - Idempotent: replays of a key return the stored row with 200
func RegisterEventRoutes(r gin.IRoutes, recorder EventRecorder, debug bool) {
	r.POST("/events", func(c *gin.Context) {
		// Header absence is a hard request error, not a validation error.
		key := c.GetHeader("X-Idempotency-Key")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Idempotency-Key header is required"})
			return
		}

		fe := fieldErrors{}

		var req models.StoreEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			verr, ok := asValidationErrors(err)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
				return
			}
			collectBindingErrors(verr, fe)
		}

		var ts time.Time
		if req.TS != "" {
			var err error
			if ts, err = parseTimestamp(req.TS); err != nil {
				fe.add("ts", timestampFormatMsg)
			}
		}

		if len(fe) > 0 {
			unprocessable(c, fe)
			return
		}

		event, created, err := recorder.RecordEvent(
			c.Request.Context(),
			models.EventType(req.Type),
			ts,
			req.SessionID,
			key,
		)
		if err != nil {
			databaseError(c, debug, err)
			return
		}

		// 201 for new events, 200 for replays. A replay is the defined
		// success path, never a conflict error; mismatched fields in the
		// repeat submission are ignored (first write wins).
		status := http.StatusCreated
		message := "Event created"
		if !created {
			status = http.StatusOK
			message = "Event already processed"
		}

		c.JSON(status, models.StoreEventResponse{
			Message: message,
			EventID: event.ID,
		})
	})
}
