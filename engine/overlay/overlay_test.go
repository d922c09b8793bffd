package overlay

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiom/engine/journal"
	"axiom/engine/mode"
	"axiom/engine/quarkgl"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		cols  int
		limit int
		want  []string
	}{
		{"short", "hello", 10, 0, []string{"hello"}},
		{"word break", "hello brave world", 11, 0, []string{"hello brave", "world"}},
		{"hard break", "abcdefghij", 4, 0, []string{"abcd", "efgh", "ij"}},
		{"newlines", "a\nb", 5, 0, []string{"a", "b"}},
		{"limit", "one two three four", 5, 2, []string{"one", "tw..."}},
		{"empty", "", 5, 0, nil},
		{"runes", "äöüäöü", 3, 0, []string{"äöü", "äöü"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.in, tt.cols, tt.limit))
		})
	}
	assert.Nil(t, Wrap("x", 0, 0))
}

func countColor(img *quarkgl.RGBATarget, c color.RGBA) int {
	n := 0
	w, h := img.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := img.Img.RGBAAt(x, y)
			if p.R == c.R && p.G == c.G && p.B == c.B {
				n++
			}
		}
	}
	return n
}

func TestDrawBadgeFollowsMode(t *testing.T) {
	o := New()
	for _, st := range []mode.State{mode.Idle, mode.Loading, mode.Active, mode.Paused, mode.Error} {
		target := quarkgl.NewRGBATarget(320, 240)
		o.Draw(target, View{Mode: st})
		assert.Positive(t, countColor(target, ModeColor(st)), st.String())
	}
}

func TestDrawShowsLogAndPrompt(t *testing.T) {
	o := New()
	target := quarkgl.NewRGBATarget(320, 240)
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	o.Draw(target, View{
		Mode:   mode.Error,
		Prompt: "spinning galaxy",
		Cursor: true,
		Events: []journal.Event{
			{Time: at, Severity: journal.SeveritySuccess, Text: "ok"},
			{Time: at, Severity: journal.SeverityError, Text: "ReferenceError: x is not defined"},
		},
	})
	assert.Positive(t, countColor(target, SeverityColor(journal.SeveritySuccess)))
	assert.Positive(t, countColor(target, colorCursor))
	assert.Positive(t, countColor(target, colorFG))
}

func TestLogLinesKeepsNewest(t *testing.T) {
	o := New()
	o.LogLines = 2
	var evs []journal.Event
	for _, s := range []string{"a", "b", "c"} {
		evs = append(evs, journal.Event{Text: s})
	}
	lines := o.logLines(evs, 80)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0].text, " b"))
	assert.True(t, strings.HasSuffix(lines[1].text, " c"))
}

func TestDrawOnTinyTargetDoesNotPanic(t *testing.T) {
	o := New()
	target := quarkgl.NewRGBATarget(8, 8)
	assert.NotPanics(t, func() {
		o.Draw(target, View{Mode: mode.Active, Explanation: strings.Repeat("long ", 50), ShowStats: true,
			Events: []journal.Event{{Text: "hello"}}})
	})
}

func TestDrawFault(t *testing.T) {
	o := New()
	target := quarkgl.NewRGBATarget(160, 60)
	o.DrawFault(target, "fault", []string{strings.Repeat("stack frame ", 40)})
	assert.Equal(t, quarkgl.RGB(0x20, 0, 0), target.Pixel(159, 59))
	assert.Positive(t, countColor(target, colorFG))
}

func TestFillRectangleBlendsTranslucent(t *testing.T) {
	target := quarkgl.NewRGBATarget(4, 4)
	target.Clear(quarkgl.RGB(0, 0, 0))
	d := &display{t: target}
	require.NoError(t, d.FillRectangle(-2, -2, 4, 4, color.RGBA{R: 200, A: 0x80}))
	p := target.Pixel(0, 0)
	assert.Greater(t, p.R, uint8(0))
	assert.Less(t, p.R, uint8(200))
	assert.Equal(t, quarkgl.RGB(0, 0, 0), target.Pixel(2, 2))
}
