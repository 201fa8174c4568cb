// Package viewport implements the auto-scroll controller that keeps the
// live edge in view until the viewer navigates away.
package viewport

import "sync"

// State is the controller's position relative to the live edge.
type State string

const (
	// StateLockedToNow keeps the live edge pinned near the right side of
	// the visible area; the offset follows the wall clock and new events.
	StateLockedToNow State = "locked_to_now"
	// StateUserNavigated means the viewer scrolled away; the offset is
	// theirs until an explicit jump back.
	StateUserNavigated State = "user_navigated"
)

const (
	// leadFraction places the live edge at 90% of the visible width,
	// leaving a small lead margin ahead of it.
	leadFraction = 0.9

	// scrollThreshold is how far, in pixels, a manual offset may drift
	// from the locked offset before auto-scroll disengages.
	scrollThreshold = 8.0
)

// LockedOffset computes the scroll offset that places nowX at the lead
// fraction of the visible width. Never negative.
func LockedOffset(nowX, visibleWidth float64) float64 {
	off := nowX - leadFraction*visibleWidth
	if off < 0 {
		return 0
	}
	return off
}

// Controller is the locked-to-now / user-navigated state machine. It owns
// the scroll offset and the auto-scroll flag; callers feed it the current
// live-edge position and viewer input.
type Controller struct {
	mu     sync.Mutex
	state  State
	offset float64
}

// NewController starts locked to the live edge at offset zero.
func NewController() *Controller {
	return &Controller{state: StateLockedToNow}
}

// State returns the current machine state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Offset returns the current scroll offset.
func (c *Controller) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// AutoScroll reports whether the viewport still follows the live edge.
func (c *Controller) AutoScroll() bool {
	return c.State() == StateLockedToNow
}

// Follow recomputes the locked offset from a fresh live-edge position.
// Called on the periodic now-refresh and whenever the event count grows.
// A no-op while the viewer has navigated away.
func (c *Controller) Follow(nowX, visibleWidth float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLockedToNow {
		c.offset = LockedOffset(nowX, visibleWidth)
	}
	return c.offset
}

// HandleScroll applies a manual scroll. The offset is clamped to the max
// allowed position (the same 90% rule), and if the result differs from the
// locked offset by more than the threshold the machine transitions to
// user-navigated. Scrolling back near the live edge does not re-engage
// auto-scroll; only JumpToNow does.
func (c *Controller) HandleScroll(requested, nowX, visibleWidth float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	locked := LockedOffset(nowX, visibleWidth)
	if requested < 0 {
		requested = 0
	}
	if requested > locked {
		requested = locked
	}
	c.offset = requested

	diff := requested - locked
	if diff < 0 {
		diff = -diff
	}
	if diff > scrollThreshold {
		c.state = StateUserNavigated
	}
	return c.offset
}

// JumpToNow forces auto-scroll back on and recomputes the locked offset.
func (c *Controller) JumpToNow(nowX, visibleWidth float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateLockedToNow
	c.offset = LockedOffset(nowX, visibleWidth)
	return c.offset
}
