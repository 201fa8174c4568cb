// Package policy gates dashboard control actions (autonomy toggles,
// destructive playback operations) through an OPA rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values returned by the control policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.control_policy.decision"),
		rego.Module("control_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks a control action against the policy. Input is a map
// with keys like action, agent, is_system, live. Returns the decision
// string; an empty result set falls back to allow, the policy is expected
// to define its own default.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the default control policy content.
const DefaultPolicy = `
package control_policy

default decision = "allow"

# System agents run platform plumbing; their autonomy flag is not a
# dashboard-level decision.
decision = "block" {
	input.action == "toggle_autonomy"
	input.is_system == true
}

# Scrubbing the replay index while tracking a live stream desynchronizes
# every connected viewer.
decision = "block" {
	input.action == "seek"
	input.live == true
}
`
