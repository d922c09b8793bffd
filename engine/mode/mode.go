// Package mode holds the session state machine.
package mode

import (
	"errors"
	"fmt"
)

// State is the session mode shown to the user.
type State uint8

const (
	Idle State = iota
	Loading
	Active
	Paused
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Loading:
		return "LOADING"
	case Active:
		return "ACTIVE"
	case Paused:
		return "PAUSED"
	case Error:
		return "ERROR"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Event drives a transition.
type Event uint8

const (
	// Request starts generation of a new program.
	Request Event = iota
	// Installed reports a program was swapped in.
	Installed
	// Failed reports generation or installation failed.
	Failed
	Pause
	Resume
	// Reset returns to Idle from anywhere.
	Reset
)

func (e Event) String() string {
	switch e {
	case Request:
		return "request"
	case Installed:
		return "installed"
	case Failed:
		return "failed"
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case Reset:
		return "reset"
	}
	return fmt.Sprintf("Event(%d)", uint8(e))
}

// ErrIllegalTransition is returned when an event does not apply to the
// current state. The state is left unchanged.
var ErrIllegalTransition = errors.New("mode: illegal transition")

var transitions = map[State]map[Event]State{
	Idle:    {Request: Loading},
	Loading: {Installed: Active, Failed: Error},
	Active:  {Request: Loading, Pause: Paused},
	Paused:  {Resume: Active, Request: Loading},
	Error:   {Request: Loading},
}

// Machine is the mode state machine. It is not safe for concurrent use;
// only the frame thread fires events.
type Machine struct {
	state    State
	onChange func(from, to State, ev Event)
}

// New returns a machine in Idle.
func New() *Machine { return &Machine{state: Idle} }

// OnChange registers a callback run after every successful transition.
func (m *Machine) OnChange(fn func(from, to State, ev Event)) { m.onChange = fn }

func (m *Machine) State() State { return m.state }

// Next returns the state ev would lead to.
func (m *Machine) Next(ev Event) (State, bool) {
	if ev == Reset {
		return Idle, true
	}
	to, ok := transitions[m.state][ev]
	return to, ok
}

// Fire applies ev.
func (m *Machine) Fire(ev Event) error {
	to, ok := m.Next(ev)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrIllegalTransition, ev, m.state)
	}
	from := m.state
	m.state = to
	if m.onChange != nil {
		m.onChange(from, to, ev)
	}
	return nil
}
