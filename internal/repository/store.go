package store

import (
	"context"
	"time"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

// Store is the persistence interface for the timeline feed.
type Store interface {
	// Agents
	UpsertAgent(ctx context.Context, agent *domain.Agent) error
	GetAgent(ctx context.Context, name string) (*domain.Agent, error)
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	SetAgentAutonomy(ctx context.Context, name string, enabled bool) (bool, error)

	// Events. ListEventsDesc returns reverse-chronological order, the
	// contract the timeline engine consumes.
	InsertEvent(ctx context.Context, event *domain.Event) error
	ListEventsDesc(ctx context.Context, limit int, before time.Time) ([]domain.Event, error)
	GetEventByExecutionID(ctx context.Context, executionID string) (*domain.Event, error)
	CountEvents(ctx context.Context) (int, error)

	Close() error
}
