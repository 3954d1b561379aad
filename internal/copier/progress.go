package copier

import (
	"fmt"
	"time"

	"discrescue/internal/dvd"
)

// Tracker derives elapsed time, a linear completion estimate and a human
// readable transfer rate from block counts. The estimate assumes the rate
// observed so far holds for the remainder, which is about as good as it
// gets on optical media.
type Tracker struct {
	start time.Time
	now   func() time.Time
}

// NewTracker starts the clock.
func NewTracker() *Tracker {
	return &Tracker{start: time.Now(), now: time.Now}
}

// Snapshot captures progress at one instant.
type Snapshot struct {
	Elapsed   time.Duration
	Estimated time.Duration
	Rate      float64
	RateUnit  string
}

// Snapshot computes the current figures for processed blocks done and
// remaining blocks left to go.
func (t *Tracker) Snapshot(processed, remaining int64) Snapshot {
	elapsed := t.now().Sub(t.start)
	snap := Snapshot{Elapsed: elapsed}

	if processed > 0 && elapsed > 0 {
		total := processed + remaining
		snap.Estimated = time.Duration(float64(elapsed) * float64(total) / float64(processed))

		rate := float64(processed*dvd.BlockSize) / elapsed.Seconds()
		switch {
		case rate >= 1e6:
			snap.Rate, snap.RateUnit = rate/1e6, "MB/s"
		case rate >= 1e3:
			snap.Rate, snap.RateUnit = rate/1e3, "kB/s"
		default:
			snap.Rate, snap.RateUnit = rate, "B/s"
		}
	}
	return snap
}

// String renders "01:23 out of 04:56, 1.3MB/s". Without enough data for an
// estimate it shows just the elapsed clock.
func (s Snapshot) String() string {
	if s.Estimated <= 0 {
		return formatClock(s.Elapsed)
	}
	return fmt.Sprintf("%s out of %s, %.1f%s",
		formatClock(s.Elapsed), formatClock(s.Estimated), s.Rate, s.RateUnit)
}

// formatClock renders a duration as MM:SS, letting minutes run past 59 for
// long extractions.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
