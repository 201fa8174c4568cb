// Package domain defines the core domain models for the timeline service.
package domain

import (
	"strings"
	"time"
)

// EventStatus represents the outcome of an execution event.
type EventStatus string

const (
	EventStatusStarted EventStatus = "started"
	EventStatusRunning EventStatus = "running"
	EventStatusSuccess EventStatus = "success"
	EventStatusError   EventStatus = "error"
	EventStatusFailed  EventStatus = "failed"
)

// TriggeredBy identifies what initiated an execution.
type TriggeredBy string

const (
	TriggeredByManual   TriggeredBy = "manual"
	TriggeredByUser     TriggeredBy = "user"
	TriggeredBySchedule TriggeredBy = "schedule"
	TriggeredByAgent    TriggeredBy = "agent"
)

// Event is one execution or collaboration record from the platform feed.
// The feed delivers events in reverse-chronological order; the engine
// derives a chronological index from the position in that list.
type Event struct {
	EventID      string      `json:"event_id"`
	SourceAgent  string      `json:"source_agent"`
	TargetAgent  string      `json:"target_agent,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	DurationMs   *int64      `json:"duration_ms,omitempty"`
	Status       EventStatus `json:"status"`
	ActivityType string      `json:"activity_type,omitempty"`
	TriggeredBy  TriggeredBy `json:"triggered_by,omitempty"`
	ExecutionID  string      `json:"execution_id,omitempty"`
}

// IsCollaboration reports whether the event records one agent invoking
// another. Collaboration events are what the arrow correlator consumes.
func (e Event) IsCollaboration() bool {
	return e.TargetAgent != "" && e.TargetAgent != e.SourceAgent
}

// IsPureCollaboration reports whether the event is only a delegation
// record with no independent execution on the source agent. Pure records
// contribute an arrow but never a bar; the target's own execution event
// produces the bar, and counting both would double-book the work.
func (e Event) IsPureCollaboration() bool {
	return e.IsCollaboration() && strings.HasPrefix(e.ActivityType, "collaboration")
}

// HasError reports whether the event ended in a failure state.
func (e Event) HasError() bool {
	return e.Status == EventStatusError || e.Status == EventStatusFailed
}
