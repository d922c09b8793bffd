package hal

import "time"

// maxFrameGap caps how far one step may advance the clock after a stall.
const maxFrameGap = 250 * time.Millisecond

type hostTime struct {
	now  time.Duration
	last time.Time
}

func newHostTime() *hostTime { return &hostTime{} }

func (t *hostTime) Now() time.Duration { return t.now }

// step advances by the wall-clock time since the previous step.
func (t *hostTime) step() {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		return
	}
	gap := now.Sub(t.last)
	t.last = now
	if gap > maxFrameGap {
		gap = maxFrameGap
	}
	if gap > 0 {
		t.now += gap
	}
}

// advance moves the clock by exactly d.
func (t *hostTime) advance(d time.Duration) {
	if d > 0 {
		t.now += d
	}
}
