package cli

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"axiom/engine/journal"
	"axiom/hal"
)

// Snapshot upscales the framebuffer by scale with nearest-neighbour sampling.
func Snapshot(fb hal.Framebuffer, scale int) *image.RGBA {
	src := hal.ToRGBA(fb, nil)
	if scale <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// writerSink prints journal events as lines.
type writerSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *writerSink) Append(ev journal.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "[%s] %s\n", ev.Severity, ev.Text)
}
