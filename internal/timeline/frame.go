package timeline

import (
	"time"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

// Input is the immutable snapshot a frame is computed from. Events must be
// in the feed's reverse-chronological order.
type Input struct {
	Agents []domain.Agent
	Events []domain.Event

	Start time.Time
	End   time.Time
	Live  bool
	Now   time.Time

	BaseGridWidth float64
	Zoom          float64

	CurrentEventIndex int
	ActiveOnly        bool

	// PlaybackInstant is the playback clock's simulated "now". Zero means
	// no replay cursor is shown. Independent of CurrentEventIndex.
	PlaybackInstant time.Time
}

// BuildFrame runs the whole pipeline: resolve the range, build the shared
// mapper, then derive ticks, rows and arrows from the same mapping. An
// unresolvable range yields a frame with empty geometry and no error.
func BuildFrame(in Input) domain.Frame {
	r, ok := ResolveRange(in.Start, in.End, in.Live, in.Now)
	if !ok {
		return domain.Frame{
			Ticks:  []domain.Tick{},
			Rows:   []domain.AgentRow{},
			Arrows: []domain.CorrelationArrow{},
		}
	}

	zoom := ClampZoom(in.Zoom)
	m := NewMapper(r, in.BaseGridWidth, zoom)

	rows := BuildRows(in.Agents, in.Events, m, in.CurrentEventIndex, RowOptions{ActiveOnly: in.ActiveOnly})
	frame := domain.Frame{
		Start:     r.Start,
		End:       r.End,
		GridWidth: m.GridWidth,
		Zoom:      zoom,
		Ticks:     Ticks(r, m),
		Rows:      rows,
		Arrows:    BuildArrows(in.Events, rows, m, in.CurrentEventIndex),
	}

	if in.Live || !in.Now.IsZero() {
		frame.NowX = m.X(in.Now)
	}
	if !in.PlaybackInstant.IsZero() {
		frame.CursorX = m.X(in.PlaybackInstant)
	}
	return frame
}
