// Package stats computes daily event summaries over the store.
package stats

import (
	"context"
	"time"

	"github.com/statsbeat/collector/internal/models"
)

// CounterStore is the slice of the store the aggregator reads.
type CounterStore interface {
	CountByType(ctx context.Context, from, to time.Time) (map[models.EventType]int64, error)
}

// Summary holds per-type counts for one UTC day. Counts always contains
// every member of the event-type enumeration, zero-filled.
type Summary struct {
	Counts map[models.EventType]int64
	Total  int64
}

// Aggregator answers daily stats queries. It is stateless and safe for
// concurrent use alongside any number of writers.
type Aggregator struct {
	store CounterStore
}

func NewAggregator(store CounterStore) *Aggregator {
	return &Aggregator{store: store}
}

// DayWindow returns the half-open interval [start, start+24h) of the UTC
// calendar day containing ref. An event timestamped exactly at start is in
// the window; one at the next day's midnight is not.
func DayWindow(ref time.Time) (start, end time.Time) {
	u := ref.UTC()
	start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// Daily counts stored events by type within the UTC day containing ref.
func (a *Aggregator) Daily(ctx context.Context, ref time.Time) (Summary, error) {
	from, to := DayWindow(ref)

	stored, err := a.store.CountByType(ctx, from, to)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Counts: make(map[models.EventType]int64, len(models.EventTypes()))}
	for _, t := range models.EventTypes() {
		n := stored[t]
		s.Counts[t] = n
		s.Total += n
	}
	return s, nil
}
