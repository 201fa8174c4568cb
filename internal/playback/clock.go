// Package playback implements the replay clock: a small state machine
// driving elapsed replay time and the speed multiplier.
package playback

import (
	"context"
	"sync"
	"time"
)

// Mode is the clock's lifecycle state.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModePlaying Mode = "playing"
	ModePaused  Mode = "paused"
)

// DefaultSpeed is the multiplier applied when none has been set.
const DefaultSpeed = 1.0

// tickPeriod is how often the clock re-evaluates elapsed time and notifies
// its listener while playing.
const tickPeriod = 100 * time.Millisecond

// Clock drives replay position. While playing, elapsed grows with the wall
// clock from the origin recorded at Play; Pause freezes it, Stop resets to
// idle. The speed multiplier scales the simulated instant, not the elapsed
// wall time itself.
//
// All methods are safe for concurrent use. The ticker goroutine started by
// Play is owned by the clock and cancelled on Pause, Stop and Close; a
// leaked ticker is the primary correctness risk here, so teardown is tested
// explicitly.
type Clock struct {
	mu sync.Mutex

	mode         Mode
	speed        float64
	startWall    time.Time // wall-clock origin of the current play segment
	startElapsed time.Duration

	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
	onTick func()
}

// Option configures a Clock.
type Option func(*Clock)

// WithNowFunc replaces the wall-clock source, for tests.
func WithNowFunc(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// WithTickListener registers a callback invoked on every scheduling tick
// while the clock is playing. Callbacks run on the ticker goroutine.
func WithTickListener(fn func()) Option {
	return func(c *Clock) { c.onTick = fn }
}

// NewClock creates an idle clock with elapsed zero and speed 1x.
func NewClock(opts ...Option) *Clock {
	c := &Clock{
		mode:  ModeIdle,
		speed: DefaultSpeed,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current lifecycle state.
func (c *Clock) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Speed returns the current multiplier.
func (c *Clock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Elapsed returns the replay position. Non-decreasing while playing;
// frozen at the last observed value after Pause.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

func (c *Clock) elapsedLocked() time.Duration {
	if c.mode != ModePlaying {
		return c.startElapsed
	}
	return c.startElapsed + c.now().Sub(c.startWall)
}

// SimulatedInstant positions the replay cursor: the timestamp of the first
// chronological event advanced by elapsed scaled with the speed
// multiplier. This is the clock's notion of "now", distinct from the
// index-based active flag computed by the aggregator.
func (c *Clock) SimulatedInstant(firstEvent time.Time) time.Time {
	if firstEvent.IsZero() {
		return time.Time{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	scaled := time.Duration(float64(c.elapsedLocked()) * c.speed)
	return firstEvent.Add(scaled)
}

// Play transitions idle/paused -> playing and starts the recurring
// re-evaluation. Playing again is a no-op.
func (c *Clock) Play() {
	c.mu.Lock()
	if c.mode == ModePlaying {
		c.mu.Unlock()
		return
	}
	c.startWall = c.now()
	c.mode = ModePlaying

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	onTick := c.onTick
	c.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(tickPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if onTick != nil {
					onTick()
				}
			}
		}
	}()
}

// Pause freezes elapsed at its current value and cancels the ticker.
func (c *Clock) Pause() {
	c.mu.Lock()
	if c.mode != ModePlaying {
		c.mu.Unlock()
		return
	}
	c.startElapsed = c.elapsedLocked()
	c.mode = ModePaused
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	cancel()
	<-done
}

// Stop cancels any pending re-evaluation and resets to idle with elapsed
// zero.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mode = ModeIdle
	c.startElapsed = 0
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// SetSpeed changes the multiplier. The origin is rebased first so elapsed
// stays continuous across the change. Non-positive speeds are ignored.
func (c *Clock) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModePlaying {
		c.startElapsed = c.elapsedLocked()
		c.startWall = c.now()
	}
	c.speed = speed
}

// Seek moves the replay position to the given elapsed value without
// changing mode. Negative values clamp to zero.
func (c *Clock) Seek(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startElapsed = elapsed
	if c.mode == ModePlaying {
		c.startWall = c.now()
	}
}

// Close releases the ticker; the clock must not be reused afterwards.
func (c *Clock) Close() {
	c.Stop()
}
