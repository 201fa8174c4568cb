package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
	"github.com/webmixgamer/trinity-timeline/internal/playback"
)

type frameCounter struct {
	mu sync.Mutex
	n  int
}

func (f *frameCounter) inc(domain.Frame) {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func (f *frameCounter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

func testSnapshot(live bool) Snapshot {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return Snapshot{
		Agents: []domain.Agent{{Name: "alice"}, {Name: "bob"}},
		Events: []domain.Event{
			{SourceAgent: "bob", Timestamp: start.Add(20 * time.Minute)},
			{SourceAgent: "alice", Timestamp: start.Add(10 * time.Minute)},
		},
		Start: start,
		End:   start.Add(2 * time.Hour),
		Live:  live,
		Zoom:  1,
	}
}

func TestEngineRecomputeProducesFrame(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	frame := e.SetInputs(testSnapshot(false))
	if len(frame.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(frame.Rows))
	}
	if got := e.Frame(); len(got.Rows) != 2 {
		t.Fatalf("expected cached frame, got %d rows", len(got.Rows))
	}
}

func TestEngineLiveRefreshTicks(t *testing.T) {
	fc := &frameCounter{}
	e := New(Options{RefreshInterval: 20 * time.Millisecond, OnFrame: fc.inc})

	e.SetInputs(testSnapshot(true))
	time.Sleep(150 * time.Millisecond)
	e.Close()

	after := fc.count()
	if after < 3 {
		t.Fatalf("expected periodic recomputes in live mode, got %d", after)
	}
	time.Sleep(100 * time.Millisecond)
	if fc.count() != after {
		t.Fatalf("live ticker survived Close: %d -> %d", after, fc.count())
	}
}

func TestEngineZoomDebounce(t *testing.T) {
	fc := &frameCounter{}
	e := New(Options{DebounceInterval: 40 * time.Millisecond, OnFrame: fc.inc})
	defer e.Close()

	e.SetInputs(testSnapshot(false))
	base := fc.count()

	// A burst of zoom input coalesces into a single rebuild.
	for z := 1.0; z <= 2.0; z += 0.25 {
		e.SetZoom(z)
	}
	if fc.count() != base {
		t.Fatalf("expected no immediate recompute, got %d extra", fc.count()-base)
	}
	time.Sleep(120 * time.Millisecond)
	if got := fc.count() - base; got != 1 {
		t.Fatalf("expected exactly one debounced recompute, got %d", got)
	}
	if e.Frame().Zoom != 2.0 {
		t.Fatalf("expected final zoom applied, got %f", e.Frame().Zoom)
	}
}

func TestEngineEventGrowthFollowsLiveEdge(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	snap := testSnapshot(true)
	snap.VisibleWidth = 400
	e.SetInputs(snap)
	before := e.Viewport().Offset()

	grown := append([]domain.Event{
		{SourceAgent: "alice", Timestamp: snap.Start.Add(30 * time.Minute)},
	}, snap.Events...)
	e.SetEvents(grown)

	if !e.Viewport().AutoScroll() {
		t.Fatalf("expected viewport still locked")
	}
	if e.Viewport().Offset() < before {
		t.Fatalf("expected offset to keep up with the live edge")
	}
}

func TestEngineScrollAndJump(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	snap := testSnapshot(true)
	snap.VisibleWidth = 200
	e.SetInputs(snap)

	e.Scroll(0)
	if e.Viewport().AutoScroll() {
		t.Fatalf("expected manual scroll to disengage auto-scroll")
	}

	e.JumpToNow()
	if !e.Viewport().AutoScroll() {
		t.Fatalf("expected jump-to-now to restore auto-scroll")
	}
}

func TestEngineIndexScrubLeavesClockAlone(t *testing.T) {
	e := New(Options{})
	defer e.Close()

	e.SetInputs(testSnapshot(false))
	e.Clock().Play()
	e.Clock().Pause()

	frame := e.SetCurrentEventIndex(2)
	for _, row := range frame.Rows {
		for _, iv := range row.Intervals {
			if !iv.Active {
				t.Fatalf("expected all bars active at index 2")
			}
		}
	}
	if e.Clock().Mode() != playback.ModePaused {
		t.Fatalf("scrubbing the index must not touch the clock, got %s", e.Clock().Mode())
	}
}

func TestEngineCloseIsIdempotent(t *testing.T) {
	e := New(Options{})
	e.SetInputs(testSnapshot(true))
	e.Clock().Play()

	e.Close()
	e.Close()

	if e.Clock().Mode() != playback.ModeIdle {
		t.Fatalf("expected clock stopped on close")
	}
}
