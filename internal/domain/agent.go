package domain

import "encoding/json"

// Agent is one row in the platform's agent roster. Identity is the name;
// no two rows may carry the same name within one render pass.
type Agent struct {
	Name            string          `json:"name"`
	Status          string          `json:"status"`
	IsSystem        bool            `json:"is_system,omitempty"`
	AutonomyEnabled bool            `json:"autonomy_enabled,omitempty"`
	ContextPercent  float64         `json:"context_percent,omitempty"`
	ExecutionStats  json.RawMessage `json:"execution_stats,omitempty"`
}
