package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

// ErrBlocked is returned when the control policy refuses an operation.
var ErrBlocked = errors.New("blocked by control policy")

// IngestEvent stores one feed event, refreshes the engine's event list
// and pushes the event to connected viewers. Missing ids are minted here.
func (s *Service) IngestEvent(ctx context.Context, event *domain.Event) error {
	if event.SourceAgent == "" {
		return fmt.Errorf("source_agent is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.EventID == "" {
		event.EventID = "evt_" + uuid.New().String()[:8]
	}
	if event.Status == "" {
		event.Status = domain.EventStatusStarted
	}

	if err := s.store.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	events, err := s.store.ListEventsDesc(ctx, s.config.EventPageSize, time.Time{})
	if err != nil {
		return fmt.Errorf("failed to reload events: %w", err)
	}
	s.engine.SetEvents(events)
	s.hub.Broadcast("event", event)
	return nil
}

// ListEvents returns a reverse-chronological event page.
func (s *Service) ListEvents(ctx context.Context, limit int, before time.Time) ([]domain.Event, error) {
	if limit <= 0 || limit > s.config.EventPageSize {
		limit = s.config.EventPageSize
	}
	events, err := s.store.ListEventsDesc(ctx, limit, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetExecution resolves an execution detail lookup by id.
func (s *Service) GetExecution(ctx context.Context, executionID string) (*domain.Event, error) {
	event, err := s.store.GetEventByExecutionID(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return event, nil
}
