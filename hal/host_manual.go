package hal

import "time"

// Manual is a host driven by its caller: the caller advances the clock and
// feeds key events. Front ends without their own frame loop, such as a
// terminal UI, use it.
type Manual struct {
	h *hostHAL
}

func NewManual(width, height int) *Manual {
	return &Manual{h: newHost(width, height)}
}

func (m *Manual) HAL() HAL                 { return m.h }
func (m *Manual) Framebuffer() Framebuffer { return m.h.fb }

// Tick advances the clock by the wall time since the previous Tick.
func (m *Manual) Tick() { m.h.t.step() }

// Advance moves the clock by exactly d.
func (m *Manual) Advance(d time.Duration) { m.h.t.advance(d) }

// Send queues a key event. It reports false when the queue is full.
func (m *Manual) Send(ev KeyEvent) bool {
	select {
	case m.h.kbd.ch <- ev:
		return true
	default:
		return false
	}
}
