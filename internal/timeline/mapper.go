package timeline

import "time"

const (
	// MinZoom and MaxZoom bound the zoom factor; requests outside the
	// range are clamped, never rejected.
	MinZoom = 0.5
	MaxZoom = 20.0

	// defaultVisibleHours is the window the default zoom aims to show.
	defaultVisibleHours = 2.0
)

// Mapper converts instants to horizontal pixel positions. One Mapper is
// built per render pass and shared by the tick generator, the activity
// aggregator and the arrow correlator so the three products can never
// desynchronize.
type Mapper struct {
	Start     time.Time
	Duration  time.Duration
	GridWidth float64
}

// NewMapper builds the shared mapper for a resolved range. gridWidth is
// baseGridWidth scaled by the clamped zoom factor.
func NewMapper(r Range, baseGridWidth, zoom float64) Mapper {
	return Mapper{
		Start:     r.Start,
		Duration:  r.Duration,
		GridWidth: baseGridWidth * ClampZoom(zoom),
	}
}

// X maps an instant to its horizontal position. Linear and monotonic.
func (m Mapper) X(t time.Time) float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(t.Sub(m.Start)) / float64(m.Duration) * m.GridWidth
}

// ClampZoom bounds a requested zoom factor to [MinZoom, MaxZoom].
func ClampZoom(zoom float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// DefaultZoom picks a zoom so that roughly two hours of a totalHours-wide
// horizon are visible at the base width. Non-positive horizons fall back
// to 1x.
func DefaultZoom(totalHours float64) float64 {
	if totalHours <= 0 {
		return 1
	}
	return ClampZoom(totalHours / defaultVisibleHours)
}
