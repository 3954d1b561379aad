package copier

import (
	"testing"
	"time"
)

func trackerAt(elapsed time.Duration) *Tracker {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Tracker{start: base, now: func() time.Time { return base.Add(elapsed) }}
}

func TestSnapshotEstimateAndRate(t *testing.T) {
	tr := trackerAt(10 * time.Second)

	// 1000 blocks in 10s is 204800 B/s, halfway through.
	snap := tr.Snapshot(1000, 1000)
	if snap.Elapsed != 10*time.Second {
		t.Fatalf("elapsed = %v", snap.Elapsed)
	}
	if snap.Estimated != 20*time.Second {
		t.Fatalf("estimated = %v, want 20s", snap.Estimated)
	}
	if snap.RateUnit != "kB/s" || snap.Rate < 204.7 || snap.Rate > 204.9 {
		t.Fatalf("rate = %.2f%s, want 204.8kB/s", snap.Rate, snap.RateUnit)
	}

	if got, want := snap.String(), "00:10 out of 00:20, 204.8kB/s"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestSnapshotRateUnits(t *testing.T) {
	// 1 block in 10s: 204.8 B/s.
	if snap := trackerAt(10 * time.Second).Snapshot(1, 1); snap.RateUnit != "B/s" {
		t.Fatalf("unit = %s, want B/s", snap.RateUnit)
	}
	// 100000 blocks in 10s: 20.48 MB/s.
	if snap := trackerAt(10 * time.Second).Snapshot(100000, 1); snap.RateUnit != "MB/s" {
		t.Fatalf("unit = %s, want MB/s", snap.RateUnit)
	}
}

func TestSnapshotWithoutProgressShowsElapsedOnly(t *testing.T) {
	snap := trackerAt(95 * time.Second).Snapshot(0, 500)
	if snap.Estimated != 0 {
		t.Fatalf("estimated = %v, want none", snap.Estimated)
	}
	if got := snap.String(); got != "01:35" {
		t.Fatalf("String() = %q, want bare elapsed clock", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{61 * time.Second, "01:01"},
		{90 * time.Minute, "90:00"},
		{-5 * time.Second, "00:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.d); got != tc.want {
			t.Errorf("formatClock(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
