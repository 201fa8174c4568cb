package timeline

import (
	"testing"
	"time"
)

func TestTicksStartOnBoundary(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 7, 0, 0, time.UTC)
	r := testRange(t, start, 2*time.Hour)
	m := NewMapper(r, 1200, 1)

	ticks := Ticks(r, m)
	if len(ticks) == 0 {
		t.Fatalf("expected ticks")
	}
	want := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	if !ticks[0].Time.Equal(want) {
		t.Fatalf("expected first tick %v, got %v", want, ticks[0].Time)
	}
	for _, tick := range ticks {
		if tick.Time.Before(r.Start) || tick.Time.After(r.End) {
			t.Fatalf("tick %v outside range", tick.Time)
		}
	}
}

func TestTicksMajorOnHour(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := testRange(t, start, time.Hour)
	m := NewMapper(r, 1200, 1)

	ticks := Ticks(r, m)
	if len(ticks) != 5 {
		t.Fatalf("expected 5 ticks across one inclusive hour, got %d", len(ticks))
	}
	for _, tick := range ticks {
		wantMajor := tick.Time.Minute() == 0
		if tick.Major != wantMajor {
			t.Fatalf("tick %v major=%v, want %v", tick.Time, tick.Major, wantMajor)
		}
	}
	if ticks[0].Label != "10:00" {
		t.Fatalf("unexpected label %q", ticks[0].Label)
	}
}

func TestTicksHardCap(t *testing.T) {
	// A near-epoch start with end at the wall clock is exactly the
	// degenerate shape the cap exists for.
	start := time.Unix(1, 0).UTC()
	r, ok := ResolveRange(start, time.Now().UTC(), true, time.Now().UTC())
	if !ok {
		t.Fatalf("expected resolvable range")
	}
	m := NewMapper(r, 1200, 1)

	ticks := Ticks(r, m)
	if len(ticks) > maxTicks {
		t.Fatalf("tick cap violated: %d > %d", len(ticks), maxTicks)
	}
	if len(ticks) != maxTicks {
		t.Fatalf("expected cap to be hit for a decades-long range, got %d", len(ticks))
	}
}

func TestTicksEmptyOnInvalidRange(t *testing.T) {
	if got := Ticks(Range{}, Mapper{}); got != nil {
		t.Fatalf("expected nil ticks for zero range, got %d", len(got))
	}
}
