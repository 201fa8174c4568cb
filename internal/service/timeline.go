package service

import (
	"context"
	"fmt"
	"time"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
	"github.com/webmixgamer/trinity-timeline/internal/engine"
	"github.com/webmixgamer/trinity-timeline/internal/playback"
	"github.com/webmixgamer/trinity-timeline/internal/timeline"
	"github.com/webmixgamer/trinity-timeline/policy"
)

// TimelineQuery selects the range and view parameters for one frame.
type TimelineQuery struct {
	Start             time.Time
	End               time.Time
	Live              bool
	Zoom              float64
	TimeRangeHours    float64
	CurrentEventIndex int
	ActiveOnly        bool
	VisibleWidth      float64
}

// Timeline reloads the feed from the store and computes a fresh frame.
func (s *Service) Timeline(ctx context.Context, q TimelineQuery) (domain.Frame, error) {
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to list agents: %w", err)
	}
	events, err := s.store.ListEventsDesc(ctx, s.config.EventPageSize, time.Time{})
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to list events: %w", err)
	}

	zoom := q.Zoom
	if zoom == 0 && q.TimeRangeHours > 0 {
		zoom = timeline.DefaultZoom(q.TimeRangeHours)
	}

	frame := s.engine.SetInputs(engine.Snapshot{
		Agents:            agents,
		Events:            events,
		Start:             q.Start,
		End:               q.End,
		Live:              q.Live,
		Zoom:              zoom,
		CurrentEventIndex: q.CurrentEventIndex,
		ActiveOnly:        q.ActiveOnly,
		VisibleWidth:      q.VisibleWidth,
	})
	return frame, nil
}

// Frame returns the engine's latest computed geometry without reloading.
func (s *Service) Frame() domain.Frame {
	return s.engine.Frame()
}

// PlaybackState describes the clock for control responses.
type PlaybackState struct {
	Mode      playback.Mode `json:"mode"`
	ElapsedMs int64         `json:"elapsed_ms"`
	Speed     float64       `json:"speed"`
}

func (s *Service) playbackState() PlaybackState {
	c := s.engine.Clock()
	return PlaybackState{
		Mode:      c.Mode(),
		ElapsedMs: c.Elapsed().Milliseconds(),
		Speed:     c.Speed(),
	}
}

// Play starts or resumes the replay clock.
func (s *Service) Play() PlaybackState {
	s.engine.Clock().Play()
	return s.playbackState()
}

// Pause freezes the replay clock.
func (s *Service) Pause() PlaybackState {
	s.engine.Clock().Pause()
	return s.playbackState()
}

// StopPlayback resets the clock to idle and rewinds the replay index.
func (s *Service) StopPlayback() PlaybackState {
	s.engine.Clock().Stop()
	s.engine.SetCurrentEventIndex(0)
	return s.playbackState()
}

// SetSpeed changes the replay speed multiplier.
func (s *Service) SetSpeed(speed float64) (PlaybackState, error) {
	if speed <= 0 {
		return s.playbackState(), fmt.Errorf("speed must be positive")
	}
	s.engine.Clock().SetSpeed(speed)
	return s.playbackState(), nil
}

// Seek scrubs the replay index. The policy can refuse it, e.g. while the
// timeline tracks a live stream. The clock is deliberately untouched; the
// index and the clock are independent notions of replay progress.
func (s *Service) Seek(ctx context.Context, eventIndex int, live bool) (PlaybackState, error) {
	decision, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
		"action": "seek",
		"live":   live,
	})
	if err != nil {
		return s.playbackState(), fmt.Errorf("failed to evaluate seek policy: %w", err)
	}
	if decision == policy.DecisionBlock {
		return s.playbackState(), ErrBlocked
	}
	s.engine.SetCurrentEventIndex(eventIndex)
	return s.playbackState(), nil
}

// ViewportState describes the auto-scroll controller for responses.
type ViewportState struct {
	Offset     float64 `json:"offset"`
	AutoScroll bool    `json:"auto_scroll"`
	State      string  `json:"state"`
}

func (s *Service) viewportState() ViewportState {
	v := s.engine.Viewport()
	return ViewportState{
		Offset:     v.Offset(),
		AutoScroll: v.AutoScroll(),
		State:      string(v.State()),
	}
}

// Scroll applies manual viewer scroll input.
func (s *Service) Scroll(offset, visibleWidth float64) ViewportState {
	if visibleWidth > 0 {
		s.engine.SetVisibleWidth(visibleWidth)
	}
	s.engine.Scroll(offset)
	return s.viewportState()
}

// JumpToNow re-engages auto-scroll.
func (s *Service) JumpToNow() ViewportState {
	s.engine.JumpToNow()
	return s.viewportState()
}

// SetZoom requests a zoom change; the rebuild is debounced by the engine.
func (s *Service) SetZoom(zoom float64) float64 {
	clamped := timeline.ClampZoom(zoom)
	s.engine.SetZoom(clamped)
	return clamped
}
