package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webmixgamer/trinity-timeline/internal/service"
)

// GetTimeline computes a fresh geometry frame for the requested range.
// GET /v1/timeline?start=...&end=...&live=true&zoom=2&current_event_index=5
func (h *Handler) GetTimeline(c echo.Context) error {
	ctx := c.Request().Context()

	q := service.TimelineQuery{
		Live:       c.QueryParam("live") == "true",
		ActiveOnly: c.QueryParam("active_only") == "true",
	}

	// Absent or malformed bounds resolve to zero values; the engine
	// answers those with empty geometry rather than an error.
	if v := c.QueryParam("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q.Start = t
		}
	}
	if v := c.QueryParam("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q.End = t
		}
	}
	if v := c.QueryParam("zoom"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.Zoom = f
		}
	}
	if v := c.QueryParam("time_range_hours"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.TimeRangeHours = f
		}
	}
	if v := c.QueryParam("current_event_index"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			q.CurrentEventIndex = n
		}
	}
	if v := c.QueryParam("visible_width"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.VisibleWidth = f
		}
	}

	frame, err := h.service.Timeline(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, frame)
}

// Play starts or resumes replay.
// POST /v1/playback/play
func (h *Handler) Play(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Play())
}

// Pause freezes replay.
// POST /v1/playback/pause
func (h *Handler) Pause(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Pause())
}

// Stop resets replay to idle.
// POST /v1/playback/stop
func (h *Handler) Stop(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.StopPlayback())
}

// SpeedRequest is the body for speed changes.
type SpeedRequest struct {
	Speed float64 `json:"speed"`
}

// SetSpeed changes the replay speed multiplier.
// POST /v1/playback/speed
func (h *Handler) SetSpeed(c echo.Context) error {
	var req SpeedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	state, err := h.service.SetSpeed(req.Speed)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, state)
}

// SeekRequest is the body for replay index scrubs.
type SeekRequest struct {
	EventIndex int  `json:"event_index"`
	Live       bool `json:"live"`
}

// Seek scrubs the replay index.
// POST /v1/playback/seek
func (h *Handler) Seek(c echo.Context) error {
	ctx := c.Request().Context()

	var req SeekRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.EventIndex < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "event_index must be non-negative"})
	}

	state, err := h.service.Seek(ctx, req.EventIndex, req.Live)
	if err != nil {
		if errors.Is(err, service.ErrBlocked) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "seek blocked while live"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, state)
}

// ScrollRequest is the body for manual scroll input.
type ScrollRequest struct {
	Offset       float64 `json:"offset"`
	VisibleWidth float64 `json:"visible_width"`
}

// Scroll applies manual viewer scroll input.
// POST /v1/viewport/scroll
func (h *Handler) Scroll(c echo.Context) error {
	var req ScrollRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	return c.JSON(http.StatusOK, h.service.Scroll(req.Offset, req.VisibleWidth))
}

// JumpToNow re-engages auto-scroll.
// POST /v1/viewport/jump
func (h *Handler) JumpToNow(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.JumpToNow())
}

// ZoomRequest is the body for zoom changes.
type ZoomRequest struct {
	Zoom float64 `json:"zoom"`
}

// SetZoom requests a zoom change; out-of-range values are clamped.
// POST /v1/viewport/zoom
func (h *Handler) SetZoom(c echo.Context) error {
	var req ZoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	return c.JSON(http.StatusOK, map[string]float64{"zoom": h.service.SetZoom(req.Zoom)})
}
