package timeline

import (
	"testing"
	"time"
)

func TestResolveRangeZeroStart(t *testing.T) {
	now := time.Now()
	if _, ok := ResolveRange(time.Time{}, now, false, now); ok {
		t.Fatalf("expected zero start to be invalid")
	}
	if _, ok := ResolveRange(time.Time{}, time.Time{}, true, now); ok {
		t.Fatalf("expected zero start to be invalid in live mode")
	}
}

func TestResolveRangeLiveExtendsEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	now := start.Add(3 * time.Hour)

	r, ok := ResolveRange(start, end, true, now)
	if !ok {
		t.Fatalf("expected valid range")
	}
	if !r.End.Equal(now) {
		t.Fatalf("expected end=now, got %v", r.End)
	}

	// Non-live keeps the explicit end even when now is later.
	r, ok = ResolveRange(start, end, false, now)
	if !ok {
		t.Fatalf("expected valid range")
	}
	if !r.End.Equal(end) {
		t.Fatalf("expected explicit end, got %v", r.End)
	}
}

func TestResolveRangeNonPositiveDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, ok := ResolveRange(start, start, false, start); ok {
		t.Fatalf("expected zero duration to be invalid")
	}
	if _, ok := ResolveRange(start, start.Add(-time.Minute), false, start); ok {
		t.Fatalf("expected negative duration to be invalid")
	}
}
