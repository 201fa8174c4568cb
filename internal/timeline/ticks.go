package timeline

import (
	"time"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

const (
	tickInterval = 15 * time.Minute

	// maxTicks caps gridline generation at roughly 7 days of 15-minute
	// intervals. The cap is what keeps a degenerate range (start near the
	// epoch, end at the wall clock) from iterating for billions of steps,
	// so it must hold no matter what the resolver let through.
	maxTicks = 700
)

// Ticks produces gridline instants at 15-minute intervals, starting from
// the first interval boundary at or after the range start and stopping at
// the range end or the hard cap, whichever comes first. Ticks on exact
// hour boundaries are flagged Major.
func Ticks(r Range, m Mapper) []domain.Tick {
	if r.Duration <= 0 {
		return nil
	}

	first := r.Start.Truncate(tickInterval)
	if first.Before(r.Start) {
		first = first.Add(tickInterval)
	}

	var ticks []domain.Tick
	for t := first; !t.After(r.End) && len(ticks) < maxTicks; t = t.Add(tickInterval) {
		ticks = append(ticks, domain.Tick{
			Time:  t,
			X:     m.X(t),
			Label: t.Format("15:04"),
			Major: t.Minute() == 0,
		})
	}
	return ticks
}
