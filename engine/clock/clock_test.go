package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSource struct{ t time.Duration }

func (f *fakeSource) now() time.Duration { return f.t }

func TestAdvanceAccumulates(t *testing.T) {
	src := &fakeSource{t: 5 * time.Second}
	c := New(src.now)

	e, d := c.Advance()
	require.Zero(t, e)
	require.Zero(t, d)

	src.t += 100 * time.Millisecond
	e, d = c.Advance()
	require.InDelta(t, 0.1, e, 1e-9)
	require.InDelta(t, 0.1, d, 1e-9)

	src.t += 50 * time.Millisecond
	e, _ = c.Advance()
	require.InDelta(t, 0.15, e, 1e-9)
}

func TestPauseFreezesElapsed(t *testing.T) {
	src := &fakeSource{}
	c := New(src.now)
	c.Advance()
	src.t += time.Second / 10
	c.Advance()

	c.Pause()
	src.t += 2 * time.Second
	e, d := c.Advance()
	require.InDelta(t, 0.1, e, 1e-9)
	require.Zero(t, d)

	c.Resume()
	src.t += time.Second / 10
	e, d = c.Advance()
	require.InDelta(t, 0.2, e, 1e-9)
	require.InDelta(t, 0.1, d, 1e-9)
}

func TestResetAndDeltaCap(t *testing.T) {
	src := &fakeSource{}
	c := New(src.now)
	c.Advance()
	src.t += 10 * time.Second
	_, d := c.Advance()
	require.Equal(t, maxDelta, d)

	c.Reset()
	require.Zero(t, c.Elapsed())
	src.t += 20 * time.Millisecond
	e, _ := c.Advance()
	require.InDelta(t, 0.02, e, 1e-9)
}
