// Package overlay draws the text layer over a rendered frame: the mode
// badge, the journal tail, the prompt line and the program explanation.
package overlay

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"axiom/engine/journal"
	"axiom/engine/mode"
	"axiom/engine/quarkgl"
)

var (
	colorFG      = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorDim     = color.RGBA{R: 0x88, G: 0x88, B: 0x99, A: 0xff}
	colorPanelBG = color.RGBA{R: 0x05, G: 0x06, B: 0x0c, A: 0xb0}
	colorInputBG = color.RGBA{R: 0x14, G: 0x16, B: 0x24, A: 0xe0}
	colorCursor  = color.RGBA{R: 0x66, G: 0xdd, B: 0xff, A: 0xff}

	colorInfo    = color.RGBA{R: 0x9a, G: 0xb4, B: 0xff, A: 0xff}
	colorSuccess = color.RGBA{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff}
	colorError   = color.RGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}
	colorSystem  = color.RGBA{R: 0xc0, G: 0x8a, B: 0xff, A: 0xff}
)

// View is everything the overlay shows for one frame.
type View struct {
	Mode        mode.State
	Events      []journal.Event
	Prompt      string
	Cursor      bool
	Explanation string
	Stats       quarkgl.Stats
	ShowStats   bool
}

// Overlay renders views with a fixed-width bitmap font.
type Overlay struct {
	font       tinyfont.Fonter
	fontWidth  int16
	fontHeight int16
	fontOffset int16

	// LogLines bounds how many journal events are drawn.
	LogLines int
}

func New() *Overlay {
	font := &proggy.TinySZ8pt7b
	_, outbox := tinyfont.LineWidth(font, "0")
	o := &Overlay{
		font:       font,
		fontWidth:  int16(outbox),
		fontHeight: int16(font.YAdvance),
		fontOffset: int16(font.YAdvance) - 3,
		LogLines:   6,
	}
	if o.fontWidth <= 0 {
		o.fontWidth = 6
	}
	if o.fontHeight <= 0 {
		o.fontHeight = 10
		o.fontOffset = 8
	}
	return o
}

// LineHeight returns the pixel height of one text row.
func (o *Overlay) LineHeight() int { return int(o.fontHeight) }

// Columns returns how many characters fit across width pixels.
func (o *Overlay) Columns(width int) int {
	cols := width / int(o.fontWidth)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Draw paints v over t.
func (o *Overlay) Draw(t quarkgl.Target, v View) {
	d := &display{t: t}
	w, h := t.Size()
	cols := o.Columns(w - 4)
	lh := o.fontHeight

	// Header.
	o.text(d, 2, 1, "AXIOM", colorFG)
	badge := v.Mode.String()
	bw := int16(utf8.RuneCountInString(badge)+2) * o.fontWidth
	bx := int16(w) - bw - 2
	_ = d.FillRectangle(bx, 1, bw, lh, ModeColor(v.Mode))
	o.text(d, bx+o.fontWidth, 1, badge, color.RGBA{A: 0xff})

	y := 2 + lh
	if v.ShowStats {
		s := fmt.Sprintf("nodes %d  tris %d  pts %d", v.Stats.Nodes, v.Stats.Triangles, v.Stats.Points)
		o.text(d, 2, y, clip(s, cols), colorDim)
		y += lh
	}
	if v.Explanation != "" {
		for _, line := range Wrap(v.Explanation, cols, 2) {
			o.text(d, 2, y, line, colorDim)
			y += lh
		}
	}

	// Prompt line sits on the bottom edge, the log tail just above it.
	inputY := int16(h) - lh - 2
	_ = d.FillRectangle(0, inputY-1, int16(w), lh+2, colorInputBG)
	prompt := "> " + v.Prompt
	if rs := []rune(prompt); len(rs) >= cols {
		prompt = "<" + string(rs[len(rs)-max(cols-2, 0):])
	}
	o.text(d, 2, inputY, prompt, colorFG)
	if v.Cursor {
		cx := 2 + int16(utf8.RuneCountInString(prompt))*o.fontWidth
		_ = d.FillRectangle(cx, inputY+1, o.fontWidth, lh-2, colorCursor)
	}

	lines := o.logLines(v.Events, cols)
	if len(lines) == 0 {
		return
	}
	top := inputY - int16(len(lines))*lh - 2
	if top < y {
		skip := int((y - top + lh - 1) / lh)
		if skip >= len(lines) {
			return
		}
		lines = lines[skip:]
		top = inputY - int16(len(lines))*lh - 2
	}
	_ = d.FillRectangle(0, top-1, int16(w), int16(len(lines))*lh+2, colorPanelBG)
	for i, l := range lines {
		o.text(d, 2, top+int16(i)*lh, l.text, l.color)
	}
}

type logLine struct {
	text  string
	color color.RGBA
}

func (o *Overlay) logLines(events []journal.Event, cols int) []logLine {
	if n := o.LogLines; n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	var out []logLine
	for _, ev := range events {
		c := SeverityColor(ev.Severity)
		for _, line := range Wrap(ev.Time.Format("15:04:05")+" "+ev.Text, cols, 3) {
			out = append(out, logLine{text: line, color: c})
		}
	}
	return out
}

// DrawFault replaces the frame with a fault report, wrapping long lines.
func (o *Overlay) DrawFault(t quarkgl.Target, title string, details []string) {
	t.Clear(quarkgl.RGB(0x20, 0x00, 0x00))
	d := &display{t: t}
	w, h := t.Size()
	cols := o.Columns(w - 4)
	y := int16(2)
	for _, line := range append([]string{title}, details...) {
		for _, chunk := range Wrap(line, cols, 0) {
			if y+o.fontHeight > int16(h) {
				return
			}
			o.text(d, 2, y, chunk, colorFG)
			y += o.fontHeight
		}
	}
}

func (o *Overlay) text(d *display, x, y int16, s string, c color.RGBA) {
	tinyfont.WriteLine(d, o.font, x, y+o.fontOffset, s, c)
}

// ModeColor is the badge color for a mode.
func ModeColor(s mode.State) color.RGBA {
	switch s {
	case mode.Loading:
		return color.RGBA{R: 0xff, G: 0xc8, B: 0x3c, A: 0xff}
	case mode.Active:
		return colorSuccess
	case mode.Paused:
		return color.RGBA{R: 0x66, G: 0xaa, B: 0xff, A: 0xff}
	case mode.Error:
		return colorError
	}
	return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
}

// SeverityColor is the text color for a journal severity.
func SeverityColor(s journal.Severity) color.RGBA {
	switch s {
	case journal.SeveritySuccess:
		return colorSuccess
	case journal.SeverityError:
		return colorError
	case journal.SeveritySystem:
		return colorSystem
	}
	return colorInfo
}

// Wrap splits s into lines of at most cols runes, breaking on spaces when
// it can. With limit > 0 the result is cut to limit lines, the last ending in "...".
func Wrap(s string, cols, limit int) []string {
	if cols <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		para = strings.TrimRight(para, " ")
		for para != "" {
			chunk, rest := takeRunes(para, cols)
			if rest != "" && rest[0] != ' ' {
				if i := strings.LastIndexByte(chunk, ' '); i > 0 {
					chunk, rest = chunk[:i], chunk[i+1:]+rest
				}
			}
			out = append(out, chunk)
			para = strings.TrimLeft(rest, " ")
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
		last := []rune(out[limit-1])
		if keep := cols - 3; len(last) > keep {
			last = last[:max(keep, 0)]
		}
		out[limit-1] = string(last) + "..."
	}
	return out
}

func clip(s string, cols int) string {
	s, _ = takeRunes(s, cols)
	return s
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
