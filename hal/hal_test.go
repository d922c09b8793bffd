package hal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFramebufferResizeReallocates(t *testing.T) {
	fb := newHostFramebuffer(32, 16)
	fb.ClearRGB(255, 0, 0)
	fb.Resize(64, 48)
	if fb.Width() != 64 || fb.Height() != 48 || fb.StrideBytes() != 128 || len(fb.Buffer()) != 128*48 {
		t.Fatalf("resize: %dx%d stride=%d len=%d", fb.Width(), fb.Height(), fb.StrideBytes(), len(fb.Buffer()))
	}
	fb.Resize(1, 1)
	if fb.Width() != minFramebufferSide || fb.Height() != minFramebufferSide {
		t.Fatalf("resize below minimum: %dx%d", fb.Width(), fb.Height())
	}
}

func TestToRGBAExpandsPixels(t *testing.T) {
	fb := newHostFramebuffer(16, 16)
	fb.ClearRGB(255, 255, 255)
	img := ToRGBA(fb, nil)
	if p := img.RGBAAt(3, 4); p.R != 255 || p.G != 255 || p.B != 255 || p.A != 255 {
		t.Fatalf("pixel = %+v", p)
	}
	if again := ToRGBA(fb, img); again != img {
		t.Fatalf("matching destination was reallocated")
	}
}

func TestRunHeadlessUnpacedAdvancesFixedStep(t *testing.T) {
	var frames int
	var last time.Duration
	err := RunHeadless(context.Background(), func(h HAL) func() error {
		return func() error {
			frames++
			last = h.Time().Now()
			return nil
		}
	}, HeadlessConfig{Width: 16, Height: 16, Hz: 50, Ticks: 10, Unpaced: true})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if frames != 10 || last != 200*time.Millisecond {
		t.Fatalf("frames=%d now=%v", frames, last)
	}
}

func TestRunHeadlessStopsOnErrStop(t *testing.T) {
	var frames int
	err := RunHeadless(context.Background(), func(HAL) func() error {
		return func() error {
			frames++
			if frames == 3 {
				return ErrStop
			}
			return nil
		}
	}, HeadlessConfig{Unpaced: true})
	if err != nil || frames != 3 {
		t.Fatalf("err=%v frames=%d", err, frames)
	}

	boom := errors.New("boom")
	err = RunHeadless(context.Background(), func(HAL) func() error {
		return func() error { return boom }
	}, HeadlessConfig{Unpaced: true})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestManualHostIsCallerDriven(t *testing.T) {
	m := NewManual(32, 24)
	if got := m.HAL().Time().Now(); got != 0 {
		t.Fatalf("initial now = %v", got)
	}
	m.Advance(40 * time.Millisecond)
	m.Advance(-time.Second)
	if got := m.HAL().Time().Now(); got != 40*time.Millisecond {
		t.Fatalf("now = %v, want 40ms", got)
	}

	if !m.Send(KeyEvent{Code: KeyF1, Press: true}) {
		t.Fatalf("send rejected")
	}
	select {
	case ev := <-m.HAL().Input().Keyboard().Events():
		if ev.Code != KeyF1 || !ev.Press {
			t.Fatalf("event = %+v", ev)
		}
	default:
		t.Fatalf("no event queued")
	}

	m.Framebuffer().Resize(48, 32)
	if fb := m.HAL().Display().Framebuffer(); fb.Width() != 48 || fb.Height() != 32 {
		t.Fatalf("framebuffer %dx%d", fb.Width(), fb.Height())
	}
}
