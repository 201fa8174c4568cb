// Package service ties the store, the timeline engine, the viewer hub and
// the control policy together behind the operations the HTTP surface
// exposes.
package service

import (
	"github.com/webmixgamer/trinity-timeline/internal/config"
	"github.com/webmixgamer/trinity-timeline/internal/engine"
	"github.com/webmixgamer/trinity-timeline/internal/repository"
	"github.com/webmixgamer/trinity-timeline/internal/transport/ws"
	"github.com/webmixgamer/trinity-timeline/policy"
)

type Service struct {
	store        store.Store
	hub          *ws.Hub
	engine       *engine.Engine
	policyEngine *policy.Engine
	config       *config.Config
}

func New(db store.Store, hub *ws.Hub, eng *engine.Engine, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        db,
		hub:          hub,
		engine:       eng,
		policyEngine: policyEngine,
		config:       cfg,
	}
}

// Engine exposes the timeline engine for wiring at startup.
func (s *Service) Engine() *engine.Engine { return s.engine }

// Close releases the engine's timers.
func (s *Service) Close() {
	s.engine.Close()
}
