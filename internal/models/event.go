package models

import "time"

// EventType is the closed set of actions the collector records.
type EventType string

const (
	EventPageView   EventType = "page_view"
	EventCTAClick   EventType = "cta_click"
	EventFormSubmit EventType = "form_submit"
)

// EventTypes returns every member of the enumeration in a stable order.
// Stats responses are zero-filled over this set.
func EventTypes() []EventType {
	return []EventType{EventPageView, EventCTAClick, EventFormSubmit}
}

// Valid reports whether t is a member of the enumeration.
func (t EventType) Valid() bool {
	switch t {
	case EventPageView, EventCTAClick, EventFormSubmit:
		return true
	}
	return false
}

// Event is a persisted analytics event. Rows are append-only: created once
// via the idempotent insert, never updated or deleted.
type Event struct {
	ID             int64     `json:"id"`
	Type           EventType `json:"type"`
	TS             time.Time `json:"ts"`
	SessionID      string    `json:"session_id"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}

// StoreEventRequest is the POST /events payload. The timestamp format is
// validated separately because it is stricter than RFC3339 (exactly
// millisecond precision with a trailing Z).
type StoreEventRequest struct {
	Type      string `json:"type" binding:"required,oneof=page_view cta_click form_submit"`
	TS        string `json:"ts" binding:"required"`
	SessionID string `json:"session_id" binding:"required,min=1"`
}

// StoreEventResponse is returned by POST /events for both the created and
// the already-processed (replay) outcomes.
type StoreEventResponse struct {
	Message string `json:"message"`
	EventID int64  `json:"event_id"`
}

// DailyStatsResponse is returned by GET /stats/today.
type DailyStatsResponse struct {
	Date   string              `json:"date"`
	Counts map[EventType]int64 `json:"counts"`
	Total  int64               `json:"total"`
}
