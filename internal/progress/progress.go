package progress

import (
	"context"
	"fmt"
)

// Stage is one named phase of a recommendation run. Stage transitions
// are emitted exactly once per run, in declaration order.
type Stage string

const (
	StageLoadingResorts    Stage = "loading_resorts"
	StageFetchingWeather   Stage = "fetching_weather"
	StageScrapingSnow      Stage = "scraping_snow"
	StageFetchingTransport Stage = "fetching_transport"
	StageScoring           Stage = "scoring"
	StageGeneratingSummary Stage = "generating_summary"
	StageComplete          Stage = "complete"
)

// Stages lists every stage in the order a run traverses them.
var Stages = []Stage{
	StageLoadingResorts,
	StageFetchingWeather,
	StageScrapingSnow,
	StageFetchingTransport,
	StageScoring,
	StageGeneratingSummary,
	StageComplete,
}

// Event is a single progress update. Current and Total are zero for
// plain stage transitions and populated for per-resort sub-progress
// within the fetch stages.
type Event struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

// Sink receives progress events in emission order.
type Sink interface {
	Emit(Event)
}

// NopSink discards every event. Used by callers that do not stream
// progress.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// Tracker is a channel-backed Sink bound to a request context. Events
// emitted after the context is cancelled are dropped, so a cancelled
// request produces no further updates.
type Tracker struct {
	ctx    context.Context
	events chan Event
}

// NewTracker creates a Tracker whose lifetime is tied to ctx. The
// buffer keeps the producer from blocking on a slow consumer for
// ordinary run lengths.
func NewTracker(ctx context.Context, buffer int) *Tracker {
	return &Tracker{
		ctx:    ctx,
		events: make(chan Event, buffer),
	}
}

// Emit queues an event for the consumer. It blocks only when the buffer
// is full and gives up as soon as the request context ends.
func (t *Tracker) Emit(ev Event) {
	select {
	case <-t.ctx.Done():
	case t.events <- ev:
	}
}

// Events is the consumer side of the tracker.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

// Close signals the consumer that no more events will arrive. Only the
// producer may call it, after its final Emit.
func (t *Tracker) Close() {
	close(t.events)
}

// SubProgressMessage builds the human-readable counter message for a
// fetch stage.
func SubProgressMessage(stage Stage, current, total int) string {
	switch stage {
	case StageFetchingWeather:
		return fmt.Sprintf("Fetching weather forecasts... (%d/%d)", current, total)
	case StageScrapingSnow:
		return fmt.Sprintf("Getting snow conditions... (%d/%d)", current, total)
	case StageFetchingTransport:
		return fmt.Sprintf("Getting transport connections... (%d/%d)", current, total)
	default:
		return fmt.Sprintf("Processing... (%d/%d)", current, total)
	}
}
