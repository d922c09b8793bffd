package app

import (
	"errors"
	"fmt"
	"strings"

	"axiom/engine/guard"
)

// frameGuard runs one frame and converts a panic into an error.
func frameGuard(fn func() error) error { return guard.Call(fn) }

// fail records a frame fault. The fault screen stays up until F2.
func (s *System) fail(err error) {
	s.fault = err
	s.journal.Errorf("Frame fault: %v", err)

	var pe *guard.PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		s.logger.Error("frame panicked", "panic", fmt.Sprint(pe.Value), "stack", string(pe.Stack))
		return
	}
	s.logger.Error("frame failed", "error", err)
}

func (s *System) drawFault() {
	lines := []string{fmt.Sprintf("error: %v", s.fault), "press F2 to reset"}
	var pe *guard.PanicError
	if errors.As(s.fault, &pe) && len(pe.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(pe.Stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	s.overlay.DrawFault(&s.target, "Axiom fault", lines)
}
