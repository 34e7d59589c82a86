// Package track is a small client for the collector API. It mirrors the
// browser helper: one session id per client lifetime, a fresh idempotency
// key per tracked event, and poll-based stats reads.
package track

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/statsbeat/collector/internal/models"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Client submits events and reads daily stats.
type Client struct {
	baseURL   string
	token     string
	sessionID string
	http      *http.Client

	// now is swappable for tests.
	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithSessionID pins the session id instead of generating one. Used when the
// caller persists the id across client lifetimes, like the browser cookie.
func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a client for the collector at baseURL. A session id is
// generated once and reused for every event this client tracks.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 5 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID == "" {
		c.sessionID = uuid.New().String()
	}
	return c
}

// SessionID returns the session id events are attributed to.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Track records one event. Every call sends a fresh idempotency key, so each
// call is a distinct event; retries of a failed call must reuse the response
// of TrackWithKey instead.
func (c *Client) Track(ctx context.Context, eventType models.EventType) (models.StoreEventResponse, error) {
	return c.TrackWithKey(ctx, eventType, uuid.New().String())
}

// TrackWithKey records an event under a caller-chosen idempotency key.
// Resubmitting the same key is safe: the server answers with the original
// event id and creates nothing.
func (c *Client) TrackWithKey(ctx context.Context, eventType models.EventType, idempotencyKey string) (models.StoreEventResponse, error) {
	body, err := json.Marshal(models.StoreEventRequest{
		Type:      string(eventType),
		TS:        c.now().UTC().Format(timestampLayout),
		SessionID: c.sessionID,
	})
	if err != nil {
		return models.StoreEventResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return models.StoreEventResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Idempotency-Key", idempotencyKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.StoreEventResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return models.StoreEventResponse{}, fmt.Errorf("track: status %d: %s", resp.StatusCode, b)
	}

	var out models.StoreEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.StoreEventResponse{}, err
	}
	return out, nil
}

// TodayStats fetches the current UTC day's counts.
func (c *Client) TodayStats(ctx context.Context) (models.DailyStatsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats/today", nil)
	if err != nil {
		return models.DailyStatsResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.DailyStatsResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return models.DailyStatsResponse{}, fmt.Errorf("stats: status %d: %s", resp.StatusCode, b)
	}

	var out models.DailyStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.DailyStatsResponse{}, err
	}
	return out, nil
}

// PollStats calls fn with fresh stats every interval until ctx is done.
// Fetch errors are passed to fn with zero stats; polling continues.
func (c *Client) PollStats(ctx context.Context, interval time.Duration, fn func(models.DailyStatsResponse, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		fn(c.TodayStats(ctx))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
