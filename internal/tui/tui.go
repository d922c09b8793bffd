// Package tui runs the runtime inside a terminal: the framebuffer is drawn
// with half-block cells and the journal and prompt are plain text below it.
package tui

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"axiom/app"
	"axiom/engine/journal"
	"axiom/engine/mode"
	"axiom/hal"
)

// Options sizes the terminal view.
type Options struct {
	// Width and Height are the framebuffer size in pixels. Each terminal
	// cell shows two stacked pixels.
	Width  int
	Height int
	Hz     int
	// LogLines is how many journal events are listed under the image.
	LogLines int
}

// Model is the bubbletea model.
type Model struct {
	host *hal.Manual
	sys  *app.System
	opts Options
	img  *image.RGBA
	err  error
}

type tickMsg time.Time

// New builds a model. newSystem receives the HAL the model drives.
func New(opts Options, newSystem func(hal.HAL) *app.System) *Model {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 96, 64
	}
	if opts.Hz <= 0 {
		opts.Hz = 20
	}
	if opts.LogLines <= 0 {
		opts.LogLines = 6
	}
	host := hal.NewManual(opts.Width, opts.Height)
	return &Model{host: host, sys: newSystem(host.HAL()), opts: opts}
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(m *Model) error {
	defer m.sys.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	return m.err
}

func (m *Model) System() *app.System { return m.sys }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.Hz), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		for _, ev := range keyEvents(msg) {
			m.host.Send(ev)
		}
	case tickMsg:
		m.host.Tick()
		if err := m.sys.Step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.img = hal.ToRGBA(m.host.Framebuffer(), m.img)
		return m, m.tick()
	}
	return m, nil
}

var keyCodes = map[tea.KeyType]hal.KeyCode{
	tea.KeyEnter:     hal.KeyEnter,
	tea.KeyBackspace: hal.KeyBackspace,
	tea.KeyEsc:       hal.KeyEscape,
	tea.KeyTab:       hal.KeyTab,
	tea.KeyDelete:    hal.KeyDelete,
	tea.KeyUp:        hal.KeyUp,
	tea.KeyDown:      hal.KeyDown,
	tea.KeyLeft:      hal.KeyLeft,
	tea.KeyRight:     hal.KeyRight,
	tea.KeyPgUp:      hal.KeyPageUp,
	tea.KeyPgDown:    hal.KeyPageDown,
	tea.KeyF1:        hal.KeyF1,
	tea.KeyF2:        hal.KeyF2,
	tea.KeyF3:        hal.KeyF3,
}

// keyEvents maps a terminal key to HAL key events. Pasted text arrives as
// one message and becomes one event per rune.
func keyEvents(msg tea.KeyMsg) []hal.KeyEvent {
	switch msg.Type {
	case tea.KeyRunes:
		evs := make([]hal.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			evs = append(evs, hal.KeyEvent{Press: true, Rune: r})
		}
		return evs
	case tea.KeySpace:
		return []hal.KeyEvent{{Press: true, Rune: ' '}}
	}
	if code, ok := keyCodes[msg.Type]; ok {
		return []hal.KeyEvent{{Code: code, Press: true}}
	}
	return nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#eeeeee"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666677"))
	explStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Italic(true)

	severityStyles = map[journal.Severity]lipgloss.Style{
		journal.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ab4ff")),
		journal.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#4adf6a")),
		journal.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")),
		journal.SeveritySystem:  lipgloss.NewStyle().Foreground(lipgloss.Color("#c08aff")),
	}
	modeColors = map[mode.State]string{
		mode.Idle:    "#999999",
		mode.Loading: "#ffc83c",
		mode.Active:  "#4adf6a",
		mode.Paused:  "#66aaff",
		mode.Error:   "#ff5555",
	}
)

func (m *Model) View() string {
	var b strings.Builder
	st := m.sys.Controller().Mode()
	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(modeColors[st])).
		Padding(0, 1).
		Render(st.String())
	b.WriteString(titleStyle.Render("AXIOM") + " " + badge + "\n")
	if m.img != nil {
		b.WriteString(HalfBlocks(m.img))
	}
	if ex := m.sys.Controller().Explanation(); ex != "" {
		b.WriteString(explStyle.Render(ex) + "\n")
	}
	events := m.sys.Events()
	if n := m.opts.LogLines; len(events) > n {
		events = events[len(events)-n:]
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s %s", ev.Time.Format("15:04:05"), ev.Text)
		b.WriteString(severityStyles[ev.Severity].Render(line) + "\n")
	}
	b.WriteString(promptStyle.Render("> "+m.sys.Input()+"_") + "\n")
	b.WriteString(helpStyle.Render("enter submit  F1 pause  F2 reset  F3 wireframe  arrows orbit  pgup/pgdn zoom  ctrl+c quit"))
	return b.String()
}

// HalfBlocks renders img two rows per line using the upper half block with
// the top pixel as foreground and the bottom pixel as background.
func HalfBlocks(img *image.RGBA) string {
	bounds := img.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := hexColor(img, x, y)
			bottom := top
			if y+1 < bounds.Max.Y {
				bottom = hexColor(img, x, y+1)
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hexColor(img *image.RGBA, x, y int) string {
	p := img.RGBAAt(x, y)
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}
