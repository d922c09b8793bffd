package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiom/app"
	"axiom/engine/mode"
	"axiom/engine/surface"
	"axiom/hal"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	m := New(Options{Width: 32, Height: 24, Hz: 30}, func(h hal.HAL) *app.System {
		cfg := surface.DefaultConfig()
		cfg.StarCount = 20
		return app.New(h, app.Config{Surface: cfg, HideOverlay: true})
	})
	t.Cleanup(func() { _ = m.System().Close() })
	return m
}

func TestKeyEvents(t *testing.T) {
	evs := keyEvents(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	require.Len(t, evs, 2)
	assert.Equal(t, 'a', evs[0].Rune)
	assert.Equal(t, 'b', evs[1].Rune)

	evs = keyEvents(tea.KeyMsg{Type: tea.KeyF2})
	require.Len(t, evs, 1)
	assert.Equal(t, hal.KeyF2, evs[0].Code)

	assert.Equal(t, ' ', keyEvents(tea.KeyMsg{Type: tea.KeySpace})[0].Rune)
	assert.Empty(t, keyEvents(tea.KeyMsg{Type: tea.KeyCtrlA}))
}

func TestTypingAndTicking(t *testing.T) {
	m := newModel(t)
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("galaxy")},
		{Type: tea.KeyEnter},
	} {
		_, cmd := m.Update(msg)
		assert.Nil(t, cmd)
	}
	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	require.NotNil(t, m.img)
	assert.Equal(t, image.Rect(0, 0, 32, 24), m.img.Bounds())

	assert.Eventually(t, func() bool {
		m.Update(tickMsg(time.Now()))
		return m.System().Controller().Mode() == mode.Active
	}, 5*time.Second, 5*time.Millisecond)

	view := m.View()
	assert.Contains(t, view, "ACTIVE")
	assert.Contains(t, view, `Processing input: "galaxy"`)
	assert.Contains(t, view, "> _")
}

func TestCtrlCQuits(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	out := HalfBlocks(img)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, 6, strings.Count(out, "▀"))
	assert.Equal(t, "#ff0000", hexColor(img, 0, 0))
}
