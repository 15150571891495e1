package interval_test

import (
	"errors"
	"testing"
	"time"

	"hhscout/collector-service/internal/interval"
)

var end = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

// ── Valid windows ──────────────────────────────────────────────────────────

func TestPlan_IntervalCount(t *testing.T) {
	cases := []struct {
		windowDays int
		chunkDays  int
		want       int
	}{
		{30, 7, 5},  // 7+7+7+7+2
		{30, 30, 1}, // single chunk
		{30, 31, 1}, // chunk larger than window clamps to one interval
		{7, 7, 1},
		{7, 1, 7},
		{1, 7, 1},
		{14, 7, 2},
		{31, 7, 5}, // 7+7+7+7+3
		{90, 30, 3},
	}
	for _, c := range cases {
		got, err := interval.Plan(end, c.windowDays, c.chunkDays)
		if err != nil {
			t.Errorf("Plan(%d, %d) unexpected error: %v", c.windowDays, c.chunkDays, err)
			continue
		}
		if len(got) != c.want {
			t.Errorf("Plan(%d, %d) produced %d intervals, want %d", c.windowDays, c.chunkDays, len(got), c.want)
		}
	}
}

func TestPlan_IntervalsTileTheWindow(t *testing.T) {
	for _, chunkDays := range []int{1, 3, 7, 11, 30} {
		ivs, err := interval.Plan(end, 30, chunkDays)
		if err != nil {
			t.Fatalf("Plan(30, %d) unexpected error: %v", chunkDays, err)
		}

		windowStart := end.AddDate(0, 0, -30)
		if !ivs[0].Start.Equal(windowStart) {
			t.Errorf("chunk=%d: first interval starts at %v, want %v", chunkDays, ivs[0].Start, windowStart)
		}
		if !ivs[len(ivs)-1].End.Equal(end) {
			t.Errorf("chunk=%d: last interval ends at %v, want exactly %v", chunkDays, ivs[len(ivs)-1].End, end)
		}

		for i, iv := range ivs {
			if !iv.Start.Before(iv.End) {
				t.Errorf("chunk=%d: interval %d is not half-open: [%v, %v)", chunkDays, i, iv.Start, iv.End)
			}
			if i > 0 && !iv.Start.Equal(ivs[i-1].End) {
				t.Errorf("chunk=%d: gap or overlap between interval %d and %d", chunkDays, i-1, i)
			}
		}
	}
}

func TestPlan_FullChunksThenRemainder(t *testing.T) {
	ivs, err := interval.Plan(end, 30, 7)
	if err != nil {
		t.Fatalf("Plan(30, 7) unexpected error: %v", err)
	}
	if len(ivs) != 5 {
		t.Fatalf("Plan(30, 7) produced %d intervals, want 5", len(ivs))
	}
	for i := 0; i < 4; i++ {
		if got := ivs[i].Start.AddDate(0, 0, 7); !got.Equal(ivs[i].End) {
			t.Errorf("interval %d spans %v..%v, want a full 7-day chunk", i, ivs[i].Start, ivs[i].End)
		}
	}
	// Final interval carries the 2-day remainder, never overshooting the end.
	if got := ivs[4].Start.AddDate(0, 0, 2); !got.Equal(ivs[4].End) {
		t.Errorf("final interval spans %v..%v, want the 2-day remainder", ivs[4].Start, ivs[4].End)
	}
}

// ── Invalid windows ────────────────────────────────────────────────────────

func TestPlan_InvalidWindow(t *testing.T) {
	cases := []struct {
		name       string
		windowDays int
		chunkDays  int
	}{
		{"zero window", 0, 7},
		{"negative window", -5, 7},
		{"zero chunk", 30, 0},
		{"negative chunk", 30, -1},
	}
	for _, c := range cases {
		_, err := interval.Plan(end, c.windowDays, c.chunkDays)
		if err == nil {
			t.Errorf("%s: Plan(%d, %d) expected error, got nil", c.name, c.windowDays, c.chunkDays)
			continue
		}
		if !errors.Is(err, interval.ErrInvalidWindow) {
			t.Errorf("%s: error %v is not ErrInvalidWindow", c.name, err)
		}
	}
}
