// Package clock measures scene time for the render loop.
package clock

import "time"

// maxDelta caps one frame's delta so a stalled frame does not teleport
// simulations forward.
const maxDelta = 0.25

// FrameClock converts a monotonic time source into per-frame elapsed and
// delta seconds. While paused, elapsed stands still and delta is zero.
type FrameClock struct {
	now     func() time.Duration
	started bool
	last    time.Duration
	paused  bool
	elapsed float64
	delta   float64
}

// New returns a clock reading from now.
func New(now func() time.Duration) *FrameClock {
	return &FrameClock{now: now}
}

// Advance samples the time source once and returns scene time in seconds.
func (c *FrameClock) Advance() (elapsed, delta float64) {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
	}
	d := t - c.last
	c.last = t
	if d < 0 || c.paused {
		d = 0
	}
	c.delta = d.Seconds()
	if c.delta > maxDelta {
		c.delta = maxDelta
	}
	c.elapsed += c.delta
	return c.elapsed, c.delta
}

// Reset restarts elapsed time from zero.
func (c *FrameClock) Reset() {
	c.elapsed = 0
	c.delta = 0
}

func (c *FrameClock) Pause()  { c.paused = true }
func (c *FrameClock) Resume() { c.paused = false }

func (c *FrameClock) Paused() bool { return c.paused }

// Elapsed returns the elapsed seconds as of the last Advance.
func (c *FrameClock) Elapsed() float64 { return c.elapsed }

// Delta returns the delta seconds of the last Advance.
func (c *FrameClock) Delta() float64 { return c.delta }
