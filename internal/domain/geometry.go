package domain

import "time"

// Tick is one gridline instant with its rendered label.
type Tick struct {
	Time  time.Time `json:"time"`
	X     float64   `json:"x"`
	Label string    `json:"label"`
	Major bool      `json:"major"` // exact hour boundary
}

// ActivityInterval is one agent execution rendered as a horizontal bar.
type ActivityInterval struct {
	Agent       string  `json:"agent"`
	StartX      float64 `json:"start_x"`
	Width       float64 `json:"width"`
	Start       int64   `json:"start"` // unix millis, used for arrow matching
	DurationMs  int64   `json:"duration_ms"`
	Active      bool    `json:"active"`
	HasError    bool    `json:"has_error"`
	IsEstimated bool    `json:"is_estimated"`
	ExecutionID string  `json:"execution_id,omitempty"`
}

// AgentRow is one horizontal lane of the timeline.
type AgentRow struct {
	Agent     Agent              `json:"agent"`
	Index     int                `json:"index"`
	Intervals []ActivityInterval `json:"intervals"`
}

// ArrowDirection indicates which way a correlation arrow points.
type ArrowDirection string

const (
	ArrowUp   ArrowDirection = "up"
	ArrowDown ArrowDirection = "down"
)

// CorrelationArrow is a cross-agent communication edge. An arrow exists
// only when the target agent has a matching interval near the triggering
// event; unmatched collaborations are dropped, never rendered dangling.
type CorrelationArrow struct {
	SourceRow int            `json:"source_row"`
	TargetRow int            `json:"target_row"`
	X         float64        `json:"x"`
	FromY     float64        `json:"from_y"`
	ToY       float64        `json:"to_y"`
	Direction ArrowDirection `json:"direction"`
	Active    bool           `json:"active"`
	HasError  bool           `json:"has_error"`
}

// Frame is one complete geometry snapshot: everything a renderer needs
// for a single pass, computed from a single coordinate mapping.
type Frame struct {
	Start     time.Time          `json:"start"`
	End       time.Time          `json:"end"`
	GridWidth float64            `json:"grid_width"`
	Zoom      float64            `json:"zoom"`
	Ticks     []Tick             `json:"ticks"`
	Rows      []AgentRow         `json:"rows"`
	Arrows    []CorrelationArrow `json:"arrows"`

	// NowX is the wall-clock live edge; CursorX is the playback clock's
	// simulated instant. These are independent signals and may disagree
	// when the viewer scrubs the event index without restarting playback.
	NowX    float64 `json:"now_x"`
	CursorX float64 `json:"cursor_x"`
}
