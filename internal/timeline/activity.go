package timeline

import (
	"sort"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
)

const (
	// MinBarWidth is the visibility floor for activity bars. Zero-length
	// executions still render as a sliver.
	MinBarWidth = 4.0

	// estimatedDurationMs is assumed when the feed carries no duration.
	estimatedDurationMs = 30000
)

// RowOptions controls row placement and filtering.
type RowOptions struct {
	// ActiveOnly drops rows that produced no intervals.
	ActiveOnly bool
}

// BuildRows groups the event list by originating agent into duration-sized
// activity intervals, one row per roster agent.
//
// Events arrive in reverse-chronological order (the feed's contract). The
// chronological index of event i is len(events)-1-i; an interval is Active
// when that index has already been passed by currentEventIndex. This is the
// replay-progress notion of "now", independent of the playback clock's
// simulated instant.
//
// Pure collaboration records never produce an interval: the target agent's
// own execution event does, and counting both would double-book the work.
// Events from agents missing in the roster are silently dropped; that is an
// upstream feed inconsistency, not a fault to surface.
func BuildRows(agents []domain.Agent, events []domain.Event, m Mapper, currentEventIndex int, opts RowOptions) []domain.AgentRow {
	if m.Duration <= 0 {
		return nil
	}

	ordered := orderAgents(agents)
	byName := make(map[string]int, len(ordered))
	intervals := make([][]domain.ActivityInterval, len(ordered))
	for i, a := range ordered {
		byName[a.Name] = i
	}

	total := len(events)
	for i, e := range events {
		if e.IsPureCollaboration() {
			continue
		}
		rowIdx, ok := byName[e.SourceAgent]
		if !ok {
			continue
		}

		durMs := int64(estimatedDurationMs)
		estimated := true
		if e.DurationMs != nil && *e.DurationMs >= 0 {
			durMs = *e.DurationMs
			estimated = false
		}

		width := float64(durMs) / float64(m.Duration.Milliseconds()) * m.GridWidth
		if width < MinBarWidth {
			width = MinBarWidth
		}
		startX := m.X(e.Timestamp)
		if startX < 0 {
			startX = 0
		}

		chronoIndex := total - 1 - i
		intervals[rowIdx] = append(intervals[rowIdx], domain.ActivityInterval{
			Agent:       e.SourceAgent,
			StartX:      startX,
			Width:       width,
			Start:       e.Timestamp.UnixMilli(),
			DurationMs:  durMs,
			Active:      chronoIndex < currentEventIndex,
			HasError:    e.HasError(),
			IsEstimated: estimated,
			ExecutionID: e.ExecutionID,
		})
	}

	rows := make([]domain.AgentRow, 0, len(ordered))
	for i, a := range ordered {
		if opts.ActiveOnly && len(intervals[i]) == 0 {
			continue
		}
		rows = append(rows, domain.AgentRow{
			Agent:     a,
			Index:     len(rows),
			Intervals: intervals[i],
		})
	}
	return rows
}

// orderAgents places system agents first, then the rest alphabetically.
// Duplicate names collapse to the first occurrence.
func orderAgents(agents []domain.Agent) []domain.Agent {
	seen := make(map[string]bool, len(agents))
	out := make([]domain.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Name == "" || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsSystem != out[j].IsSystem {
			return out[i].IsSystem
		}
		return out[i].Name < out[j].Name
	})
	return out
}
