// Package timeline implements the pure geometry pipeline for the agent
// activity timeline: time base resolution, instant-to-pixel mapping, tick
// generation, activity aggregation and cross-agent arrow correlation.
//
// Everything in this package is a pure function over immutable inputs.
// Degenerate inputs (missing bounds, zero duration) yield empty outputs,
// never an error and never an unbounded loop.
package timeline

import "time"

// Range is the resolved [Start, End] instant range for one render pass.
type Range struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// ResolveRange derives the active time range from explicit bounds and, in
// live mode, the wall clock. A zero start is treated as insufficient data:
// combined with "end = now" it would imply billions of grid intervals, so
// the caller must produce empty geometry instead.
func ResolveRange(start, end time.Time, live bool, now time.Time) (Range, bool) {
	if start.IsZero() {
		return Range{}, false
	}
	if live && now.After(end) {
		end = now
	}
	if end.IsZero() {
		return Range{}, false
	}
	d := end.Sub(start)
	if d <= 0 {
		return Range{}, false
	}
	return Range{Start: start, End: end, Duration: d}, true
}
