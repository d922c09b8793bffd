package journal

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJournalFansOutWithTimestamp(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a, b := NewRing(4), NewRing(4)
	j := New(a).WithClock(func() time.Time { return at })
	j.AddSink(b)

	j.Success("Code generation successful.")
	j.Errorf("Compile error: %s", "bad token")

	for _, r := range []*Ring{a, b} {
		got := r.Snapshot()
		require.Len(t, got, 2)
		require.Equal(t, Event{Time: at, Severity: SeveritySuccess, Text: "Code generation successful."}, got[0])
		require.Equal(t, SeverityError, got[1].Severity)
		require.Equal(t, "Compile error: bad token", got[1].Text)
	}
}

func TestRingWrapsOldestFirst(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Append(Event{Text: fmt.Sprint(i)})
	}
	var texts []string
	for _, ev := range r.Snapshot() {
		texts = append(texts, ev.Text)
	}
	require.Equal(t, []string{"2", "3", "4"}, texts)
	require.Len(t, r.Tail(2), 2)
	require.Equal(t, "4", r.Tail(2)[1].Text)
	require.Len(t, r.Tail(10), 3)
}

func TestSlogSinkWritesSeverity(t *testing.T) {
	var buf bytes.Buffer
	sink := SlogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	sink.Append(Event{Severity: SeverityError, Text: "Runtime error: boom"})
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), `msg="Runtime error: boom"`)
	require.Contains(t, buf.String(), "severity=error")
}

func TestNilJournalIsNoop(t *testing.T) {
	var j *Journal
	require.NotPanics(t, func() { j.Info("ignored") })
}
