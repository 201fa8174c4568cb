// Package engine owns the timeline's mutable inputs and schedules
// recomputation of the derived geometry. Three time-driven processes
// coexist here, each individually cancellable: the live now-refresh
// ticker, the playback clock's re-evaluation, and the debounced recompute
// triggered by zoom and size changes. All three only ever schedule a pure
// rebuild of the frame; none of them mutate the raw event or agent inputs.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
	"github.com/webmixgamer/trinity-timeline/internal/playback"
	"github.com/webmixgamer/trinity-timeline/internal/timeline"
	"github.com/webmixgamer/trinity-timeline/internal/viewport"
)

const (
	defaultRefreshInterval  = time.Second
	defaultDebounceInterval = 150 * time.Millisecond
	defaultBaseGridWidth    = 1200.0
	defaultVisibleWidth     = 1000.0
)

// Snapshot is the engine's immutable input set. Events stay in the feed's
// reverse-chronological order.
type Snapshot struct {
	Agents            []domain.Agent
	Events            []domain.Event
	Start             time.Time
	End               time.Time
	Live              bool
	Zoom              float64
	CurrentEventIndex int
	ActiveOnly        bool
	VisibleWidth      float64
}

// Options configures an Engine.
type Options struct {
	RefreshInterval  time.Duration
	DebounceInterval time.Duration
	BaseGridWidth    float64
	Now              func() time.Time
	// OnFrame receives every freshly computed frame. May be nil.
	OnFrame func(domain.Frame)
}

// Engine ties the pure pipeline to the playback clock and the viewport
// controller and keeps the latest frame available.
type Engine struct {
	mu   sync.Mutex
	snap Snapshot

	clock *playback.Clock
	view  *viewport.Controller

	baseGridWidth float64
	refreshEvery  time.Duration
	debounceEvery time.Duration
	now           func() time.Time
	onFrame       func(domain.Frame)

	frame domain.Frame

	liveCancel context.CancelFunc
	liveDone   chan struct{}
	debounce   *time.Timer
	closed     bool
}

// New creates an engine with an idle clock and a locked viewport.
func New(opts Options) *Engine {
	e := &Engine{
		baseGridWidth: opts.BaseGridWidth,
		refreshEvery:  opts.RefreshInterval,
		debounceEvery: opts.DebounceInterval,
		now:           opts.Now,
		onFrame:       opts.OnFrame,
		view:          viewport.NewController(),
	}
	if e.baseGridWidth <= 0 {
		e.baseGridWidth = defaultBaseGridWidth
	}
	if e.refreshEvery <= 0 {
		e.refreshEvery = defaultRefreshInterval
	}
	if e.debounceEvery <= 0 {
		e.debounceEvery = defaultDebounceInterval
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.clock = playback.NewClock(
		playback.WithNowFunc(e.now),
		playback.WithTickListener(func() { e.Recompute() }),
	)
	e.snap.Zoom = 1
	e.snap.VisibleWidth = defaultVisibleWidth
	return e
}

// Clock exposes the playback clock for control operations.
func (e *Engine) Clock() *playback.Clock { return e.clock }

// Viewport exposes the auto-scroll controller.
func (e *Engine) Viewport() *viewport.Controller { return e.view }

// Frame returns the most recently computed geometry.
func (e *Engine) Frame() domain.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// SetInputs replaces the whole snapshot and recomputes immediately.
// Entering or leaving live mode starts or cancels the now-refresh ticker.
func (e *Engine) SetInputs(snap Snapshot) domain.Frame {
	e.mu.Lock()
	if snap.Zoom == 0 {
		snap.Zoom = e.snap.Zoom
	}
	if snap.VisibleWidth == 0 {
		snap.VisibleWidth = e.snap.VisibleWidth
	}
	wasLive := e.snap.Live
	e.snap = snap
	e.mu.Unlock()

	if snap.Live != wasLive {
		e.setLiveRefresh(snap.Live)
	}
	return e.Recompute()
}

// SetEvents swaps the event list. While the viewport is locked to now, a
// growing event count re-derives the locked offset so the live edge stays
// at the lead fraction.
func (e *Engine) SetEvents(events []domain.Event) domain.Frame {
	e.mu.Lock()
	grew := len(events) > len(e.snap.Events)
	e.snap.Events = events
	e.mu.Unlock()

	frame := e.Recompute()
	if grew {
		e.mu.Lock()
		vw := e.snap.VisibleWidth
		e.mu.Unlock()
		e.view.Follow(frame.NowX, vw)
	}
	return frame
}

// SetAgents swaps the roster and recomputes.
func (e *Engine) SetAgents(agents []domain.Agent) domain.Frame {
	e.mu.Lock()
	e.snap.Agents = agents
	e.mu.Unlock()
	return e.Recompute()
}

// SetCurrentEventIndex scrubs replay progress. The playback clock is
// deliberately left alone: the index-based active flag and the clock's
// simulated instant are independent signals and disagreement between them
// is an upstream design decision this engine preserves.
func (e *Engine) SetCurrentEventIndex(idx int) domain.Frame {
	if idx < 0 {
		idx = 0
	}
	e.mu.Lock()
	e.snap.CurrentEventIndex = idx
	e.mu.Unlock()
	return e.Recompute()
}

// SetZoom clamps and stores the zoom factor, then schedules a debounced
// recompute. Rapid zoom input coalesces into one rebuild.
func (e *Engine) SetZoom(zoom float64) {
	e.mu.Lock()
	e.snap.Zoom = timeline.ClampZoom(zoom)
	e.mu.Unlock()
	e.scheduleRecompute()
}

// SetVisibleWidth records a viewport resize and schedules a debounced
// recompute.
func (e *Engine) SetVisibleWidth(w float64) {
	if w <= 0 {
		return
	}
	e.mu.Lock()
	e.snap.VisibleWidth = w
	e.mu.Unlock()
	e.scheduleRecompute()
}

// Scroll applies manual viewer input to the viewport controller.
func (e *Engine) Scroll(offset float64) float64 {
	e.mu.Lock()
	nowX := e.frame.NowX
	vw := e.snap.VisibleWidth
	e.mu.Unlock()
	return e.view.HandleScroll(offset, nowX, vw)
}

// JumpToNow re-engages auto-scroll against the latest frame.
func (e *Engine) JumpToNow() float64 {
	frame := e.Recompute()
	e.mu.Lock()
	vw := e.snap.VisibleWidth
	e.mu.Unlock()
	return e.view.JumpToNow(frame.NowX, vw)
}

// Recompute rebuilds the frame from the current snapshot and both clocks,
// stores it and hands it to the frame listener.
func (e *Engine) Recompute() domain.Frame {
	e.mu.Lock()
	snap := e.snap
	e.mu.Unlock()

	in := timeline.Input{
		Agents:            snap.Agents,
		Events:            snap.Events,
		Start:             snap.Start,
		End:               snap.End,
		Live:              snap.Live,
		Now:               e.now(),
		BaseGridWidth:     e.baseGridWidth,
		Zoom:              snap.Zoom,
		CurrentEventIndex: snap.CurrentEventIndex,
		ActiveOnly:        snap.ActiveOnly,
	}
	if e.clock.Mode() != playback.ModeIdle {
		in.PlaybackInstant = e.clock.SimulatedInstant(firstEventTime(snap.Events))
	}
	frame := timeline.BuildFrame(in)

	e.mu.Lock()
	e.frame = frame
	onFrame := e.onFrame
	closed := e.closed
	e.mu.Unlock()

	if snap.Live {
		e.view.Follow(frame.NowX, snap.VisibleWidth)
	}
	if onFrame != nil && !closed {
		onFrame(frame)
	}
	return frame
}

// Close cancels the live ticker, any pending debounce and the playback
// clock. The engine must not be reused afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.mu.Unlock()

	e.setLiveRefresh(false)
	e.clock.Close()
}

// firstEventTime returns the oldest event's timestamp. The feed is
// reverse-chronological, so that is the last element.
func firstEventTime(events []domain.Event) time.Time {
	if len(events) == 0 {
		return time.Time{}
	}
	return events[len(events)-1].Timestamp
}

func (e *Engine) scheduleRecompute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.debounceEvery, func() { e.Recompute() })
}

// setLiveRefresh starts or cancels the periodic now-refresh. The ticker
// keeps gridlines and the live edge current even when no events arrive.
func (e *Engine) setLiveRefresh(on bool) {
	e.mu.Lock()
	if !on {
		cancel, done := e.liveCancel, e.liveDone
		e.liveCancel, e.liveDone = nil, nil
		e.mu.Unlock()
		if cancel != nil {
			cancel()
			<-done
		}
		return
	}
	if e.liveCancel != nil || e.closed {
		e.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.liveCancel = cancel
	e.liveDone = done
	interval := e.refreshEvery
	e.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Recompute()
			}
		}
	}()
}
