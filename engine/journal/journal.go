// Package journal records the user-visible event log.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Severity classifies an event for display.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
	SeveritySystem
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	case SeveritySystem:
		return "system"
	default:
		return "info"
	}
}

// Event is one log line.
type Event struct {
	Time     time.Time
	Severity Severity
	Text     string
}

// Sink receives events.
type Sink interface {
	Append(Event)
}

// Journal stamps events and fans them out to sinks.
type Journal struct {
	mu    sync.Mutex
	sinks []Sink
	now   func() time.Time
}

// New returns a journal writing to sinks.
func New(sinks ...Sink) *Journal {
	return &Journal{sinks: sinks, now: time.Now}
}

// WithClock replaces the timestamp source.
func (j *Journal) WithClock(now func() time.Time) *Journal {
	j.now = now
	return j
}

// AddSink attaches another sink.
func (j *Journal) AddSink(s Sink) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sinks = append(j.sinks, s)
}

func (j *Journal) Log(sev Severity, text string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	ev := Event{Time: j.now(), Severity: sev, Text: text}
	sinks := append([]Sink(nil), j.sinks...)
	j.mu.Unlock()
	for _, s := range sinks {
		s.Append(ev)
	}
}

func (j *Journal) Info(text string)    { j.Log(SeverityInfo, text) }
func (j *Journal) Success(text string) { j.Log(SeveritySuccess, text) }
func (j *Journal) Error(text string)   { j.Log(SeverityError, text) }
func (j *Journal) System(text string)  { j.Log(SeveritySystem, text) }

func (j *Journal) Infof(format string, args ...any)   { j.Info(fmt.Sprintf(format, args...)) }
func (j *Journal) Errorf(format string, args ...any)  { j.Error(fmt.Sprintf(format, args...)) }
func (j *Journal) Systemf(format string, args ...any) { j.System(fmt.Sprintf(format, args...)) }

// Ring keeps the most recent events in memory.
type Ring struct {
	mu   sync.Mutex
	buf  []Event
	next int
	full bool
}

// NewRing returns a ring holding up to n events.
func NewRing(n int) *Ring {
	if n <= 0 {
		n = 64
	}
	return &Ring{buf: make([]Event, n)}
}

func (r *Ring) Append(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = ev
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// Snapshot returns events oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Tail returns up to n of the newest events, oldest first.
func (r *Ring) Tail(n int) []Event {
	all := r.Snapshot()
	if n < len(all) {
		all = all[len(all)-n:]
	}
	return all
}

// SlogSink mirrors events into a structured logger.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Append(ev Event) {
	if s.Logger == nil {
		return
	}
	level := slog.LevelInfo
	if ev.Severity == SeverityError {
		level = slog.LevelWarn
	}
	s.Logger.Log(context.Background(), level, ev.Text, "severity", ev.Severity.String())
}
