package quarkgl

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// Blender is implemented by targets that can read back pixels to combine
// translucent fragments. Targets without it get thresholded alpha.
type Blender interface {
	Blend(x, y int, c Color, mode BlendMode)
}

// RenderMode selects the rasterization mode.
type RenderMode uint8

const (
	RenderSolidFlat RenderMode = iota
	// RenderWireframe draws triangle edges for every mesh regardless of material.
	RenderWireframe
)
