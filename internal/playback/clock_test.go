package playback

import (
	"sync"
	"testing"
	"time"
)

// fakeNow is a manually advanced wall clock.
type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeNow() *fakeNow {
	return &fakeNow{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestClockStartsIdle(t *testing.T) {
	c := NewClock()
	defer c.Close()

	if c.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %s", c.Mode())
	}
	if c.Elapsed() != 0 {
		t.Fatalf("expected zero elapsed, got %v", c.Elapsed())
	}
	if c.Speed() != DefaultSpeed {
		t.Fatalf("expected default speed, got %f", c.Speed())
	}
}

func TestClockElapsedMonotonicWhilePlaying(t *testing.T) {
	now := newFakeNow()
	c := NewClock(WithNowFunc(now.Now))
	defer c.Close()

	c.Play()
	prev := c.Elapsed()
	for i := 0; i < 10; i++ {
		now.Advance(50 * time.Millisecond)
		got := c.Elapsed()
		if got < prev {
			t.Fatalf("elapsed decreased: %v < %v", got, prev)
		}
		prev = got
	}
	if prev != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %v", prev)
	}
}

func TestClockPauseFreezesElapsed(t *testing.T) {
	now := newFakeNow()
	c := NewClock(WithNowFunc(now.Now))
	defer c.Close()

	c.Play()
	now.Advance(2 * time.Second)
	before := c.Elapsed()
	c.Pause()

	if c.Mode() != ModePaused {
		t.Fatalf("expected paused, got %s", c.Mode())
	}
	if got := c.Elapsed(); got != before {
		t.Fatalf("pause changed elapsed: %v != %v", got, before)
	}
	now.Advance(time.Minute)
	if got := c.Elapsed(); got != before {
		t.Fatalf("elapsed moved while paused: %v != %v", got, before)
	}
}

func TestClockResumeAccumulates(t *testing.T) {
	now := newFakeNow()
	c := NewClock(WithNowFunc(now.Now))
	defer c.Close()

	c.Play()
	now.Advance(time.Second)
	c.Pause()
	now.Advance(time.Hour) // paused time does not count
	c.Play()
	now.Advance(time.Second)

	if got := c.Elapsed(); got != 2*time.Second {
		t.Fatalf("expected 2s accumulated, got %v", got)
	}
}

func TestClockStopResets(t *testing.T) {
	now := newFakeNow()
	c := NewClock(WithNowFunc(now.Now))
	defer c.Close()

	c.Play()
	now.Advance(5 * time.Second)
	c.Stop()

	if c.Mode() != ModeIdle {
		t.Fatalf("expected idle after stop, got %s", c.Mode())
	}
	if c.Elapsed() != 0 {
		t.Fatalf("expected zero elapsed after stop, got %v", c.Elapsed())
	}
}

func TestClockSpeedScalesSimulatedInstant(t *testing.T) {
	now := newFakeNow()
	c := NewClock(WithNowFunc(now.Now))
	defer c.Close()

	first := time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC)
	c.SetSpeed(4)
	c.Play()
	now.Advance(10 * time.Second)

	got := c.SimulatedInstant(first)
	want := first.Add(40 * time.Second)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestClockSetSpeedKeepsElapsedContinuous(t *testing.T) {
	now := newFakeNow()
	c := NewClock(WithNowFunc(now.Now))
	defer c.Close()

	c.Play()
	now.Advance(10 * time.Second)
	c.SetSpeed(8)
	if got := c.Elapsed(); got != 10*time.Second {
		t.Fatalf("speed change moved elapsed: %v", got)
	}
	now.Advance(time.Second)
	if got := c.Elapsed(); got != 11*time.Second {
		t.Fatalf("expected 11s, got %v", got)
	}
}

func TestClockRejectsNonPositiveSpeed(t *testing.T) {
	c := NewClock()
	defer c.Close()

	c.SetSpeed(0)
	c.SetSpeed(-2)
	if c.Speed() != DefaultSpeed {
		t.Fatalf("expected speed unchanged, got %f", c.Speed())
	}
}

func TestClockSeekRebases(t *testing.T) {
	now := newFakeNow()
	c := NewClock(WithNowFunc(now.Now))
	defer c.Close()

	c.Seek(30 * time.Second)
	if got := c.Elapsed(); got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
	c.Seek(-time.Second)
	if got := c.Elapsed(); got != 0 {
		t.Fatalf("expected clamp to zero, got %v", got)
	}
}

func TestClockTickerCancelledOnPause(t *testing.T) {
	var mu sync.Mutex
	ticks := 0
	c := NewClock(WithTickListener(func() {
		mu.Lock()
		ticks++
		mu.Unlock()
	}))
	defer c.Close()

	c.Play()
	time.Sleep(250 * time.Millisecond)
	c.Pause() // waits for the ticker goroutine to exit

	mu.Lock()
	after := ticks
	mu.Unlock()
	time.Sleep(250 * time.Millisecond)
	mu.Lock()
	final := ticks
	mu.Unlock()

	if after == 0 {
		t.Fatalf("expected ticks while playing")
	}
	if final != after {
		t.Fatalf("ticker survived pause: %d -> %d", after, final)
	}
}

func TestClockSimulatedInstantZeroWithoutFirstEvent(t *testing.T) {
	c := NewClock()
	defer c.Close()

	if got := c.SimulatedInstant(time.Time{}); !got.IsZero() {
		t.Fatalf("expected zero instant, got %v", got)
	}
}
