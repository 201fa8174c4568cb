package timeline

import (
	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

const (
	// RowHeight is the vertical pitch of one agent lane. Exported so the
	// transport layer can report it alongside the frame.
	RowHeight = 40.0

	// arrowPad offsets arrow endpoints outward from the row center so the
	// arrow terminates just outside the box instead of overlapping it.
	arrowPad = 6.0

	// arrowToleranceMs is the window within which the target agent must
	// have started an execution for a collaboration event to produce an
	// arrow. No match within the window means no arrow at all.
	arrowToleranceMs = int64(30000)
)

// BuildArrows derives cross-agent communication edges from collaboration
// events. An arrow is emitted only when both agents are present among the
// displayed rows and the target row owns an interval starting within the
// tolerance window of the event timestamp; everything else is dropped so
// no arrow ever points at nothing.
func BuildArrows(events []domain.Event, rows []domain.AgentRow, m Mapper, currentEventIndex int) []domain.CorrelationArrow {
	if m.Duration <= 0 || len(rows) == 0 {
		return nil
	}

	rowIdx := make(map[string]int, len(rows))
	for _, r := range rows {
		rowIdx[r.Agent.Name] = r.Index
	}

	total := len(events)
	var arrows []domain.CorrelationArrow
	for i, e := range events {
		if !e.IsCollaboration() {
			continue
		}
		src, ok := rowIdx[e.SourceAgent]
		if !ok {
			continue
		}
		dst, ok := rowIdx[e.TargetAgent]
		if !ok || dst == src {
			continue
		}
		if !targetHasMatch(rows[dst], e.Timestamp.UnixMilli()) {
			continue
		}

		x := m.X(e.Timestamp)
		if x < 0 {
			x = 0
		}

		srcCenter := float64(src)*RowHeight + RowHeight/2
		dstCenter := float64(dst)*RowHeight + RowHeight/2
		dir := domain.ArrowDown
		fromY := srcCenter + arrowPad
		toY := dstCenter - arrowPad
		if dst < src {
			dir = domain.ArrowUp
			fromY = srcCenter - arrowPad
			toY = dstCenter + arrowPad
		}

		chronoIndex := total - 1 - i
		arrows = append(arrows, domain.CorrelationArrow{
			SourceRow: src,
			TargetRow: dst,
			X:         x,
			FromY:     fromY,
			ToY:       toY,
			Direction: dir,
			Active:    chronoIndex < currentEventIndex,
			HasError:  e.HasError(),
		})
	}
	return arrows
}

func targetHasMatch(row domain.AgentRow, tsMillis int64) bool {
	for _, iv := range row.Intervals {
		delta := iv.Start - tsMillis
		if delta < 0 {
			delta = -delta
		}
		if delta <= arrowToleranceMs {
			return true
		}
	}
	return false
}
