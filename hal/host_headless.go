package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Width  int
	Height int
	Hz     int
	// Ticks stops the runner after this many frames. Zero runs until ctx ends.
	Ticks uint64
	// Unpaced runs frames back to back and advances the clock by exactly
	// 1/Hz per frame, which makes runs reproducible.
	Unpaced bool
}

// RunHeadless drives newApp's step function without opening a window.
// A step returning ErrStop ends the run without error.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 320, 240
	}

	h := newHost(cfg.Width, cfg.Height)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	var tick uint64
	run := func() (bool, error) {
		if cfg.Unpaced {
			h.t.advance(d)
		} else {
			h.t.step()
		}
		if step != nil {
			if err := step(); err != nil {
				if errors.Is(err, ErrStop) {
					return true, nil
				}
				return true, err
			}
		}
		tick++
		return cfg.Ticks > 0 && tick >= cfg.Ticks, nil
	}

	if cfg.Unpaced {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if done, err := run(); done {
				return err
			}
		}
	}

	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if done, err := run(); done {
				return err
			}
		}
	}
}
