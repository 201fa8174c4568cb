package service

import (
	"context"
	"fmt"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
	"github.com/webmixgamer/trinity-timeline/policy"
)

// ListAgents returns the roster in row order.
func (s *Service) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return agents, nil
}

// UpsertAgent registers or updates a roster row and refreshes the engine.
func (s *Service) UpsertAgent(ctx context.Context, agent *domain.Agent) error {
	if agent.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := s.store.UpsertAgent(ctx, agent); err != nil {
		return fmt.Errorf("failed to upsert agent: %w", err)
	}
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload agents: %w", err)
	}
	s.engine.SetAgents(agents)
	return nil
}

// ToggleAutonomy flips an agent's autonomy flag if the control policy
// allows it. Returns the updated agent, or nil when the agent is unknown.
func (s *Service) ToggleAutonomy(ctx context.Context, name string, enabled bool) (*domain.Agent, error) {
	agent, err := s.store.GetAgent(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	if agent == nil {
		return nil, nil
	}

	decision, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
		"action":    "toggle_autonomy",
		"agent":     name,
		"is_system": agent.IsSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate autonomy policy: %w", err)
	}
	if decision == policy.DecisionBlock {
		return nil, ErrBlocked
	}

	if _, err := s.store.SetAgentAutonomy(ctx, name, enabled); err != nil {
		return nil, fmt.Errorf("failed to set autonomy: %w", err)
	}
	agent.AutonomyEnabled = enabled
	return agent, nil
}
