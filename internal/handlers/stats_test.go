package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statsbeat/collector/internal/models"
	"github.com/statsbeat/collector/internal/stats"
)

type stubCounter struct {
	counts map[models.EventType]int64
	err    error
}

func (s *stubCounter) CountByType(context.Context, time.Time, time.Time) (map[models.EventType]int64, error) {
	return s.counts, s.err
}

func statsRouter(st stats.CounterStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterStatsRoutes(r, stats.NewAggregator(st), false)
	return r
}

func getStats(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/today", nil))
	return w
}

func TestGetStatsToday(t *testing.T) {
	w := getStats(statsRouter(&stubCounter{counts: map[models.EventType]int64{
		models.EventPageView: 4,
		models.EventCTAClick: 1,
	}}))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DailyStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), resp.Date)
	assert.Equal(t, map[models.EventType]int64{
		models.EventPageView:   4,
		models.EventCTAClick:   1,
		models.EventFormSubmit: 0,
	}, resp.Counts)
	assert.Equal(t, int64(5), resp.Total)
}

func TestGetStatsToday_EmptyDayIsZeroFilled(t *testing.T) {
	w := getStats(statsRouter(&stubCounter{}))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DailyStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Counts, len(models.EventTypes()))
	for _, typ := range models.EventTypes() {
		assert.Equal(t, int64(0), resp.Counts[typ])
	}
	assert.Equal(t, int64(0), resp.Total)
}

func TestGetStatsToday_StoreFailure(t *testing.T) {
	w := getStats(statsRouter(&stubCounter{err: errors.New("connection refused")}))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Database error occurred"}`, w.Body.String())
}
