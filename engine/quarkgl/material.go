package quarkgl

// Side and blending constants mirror the values scene programs pass around.
const (
	FrontSide  = 0
	BackSide   = 1
	DoubleSide = 2

	NoBlending       = 0
	NormalBlending   = 1
	AdditiveBlending = 2
)

// Material describes how a drawable is shaded. One struct covers every
// material kind; Type records which constructor produced it.
type Material struct {
	resource
	Type            string
	Color           *ColorRGB
	Emissive        *ColorRGB
	Opacity         float64
	Transparent     bool
	Wireframe       bool
	VertexColors    bool
	FlatShading     bool
	Size            float64
	SizeAttenuation bool
	Blending        int
	DepthWrite      bool
	DepthTest       bool
	Side            int
	Map             *Texture
	Linewidth       float64
}

// NewMaterial returns a material of the given kind with renderer defaults.
func NewMaterial(kind string) *Material {
	return &Material{
		Type:            kind,
		Color:           &ColorRGB{R: 1, G: 1, B: 1},
		Emissive:        &ColorRGB{},
		Opacity:         1,
		Size:            1,
		SizeAttenuation: true,
		Blending:        NormalBlending,
		DepthWrite:      true,
		DepthTest:       true,
		Side:            FrontSide,
		Linewidth:       1,
	}
}

// Lit reports whether scene lights affect the material.
func (m *Material) Lit() bool {
	switch m.Type {
	case "MeshStandardMaterial", "MeshPhongMaterial", "MeshLambertMaterial", "MeshPhysicalMaterial", "MeshToonMaterial":
		return true
	}
	return false
}

func (m *Material) Clone() *Material {
	c := *m
	c.resource = resource{}
	c.Color = m.Color.Clone()
	c.Emissive = m.Emissive.Clone()
	m.adopt(&c)
	return &c
}

func (m *Material) blendMode() BlendMode {
	if m.Blending == AdditiveBlending {
		return BlendAdditive
	}
	return BlendNormal
}

func (m *Material) alpha() float64 {
	if !m.Transparent {
		return 1
	}
	return clampF64(m.Opacity, 0, 1)
}

func (m *Material) translucent() bool {
	return m.alpha() < 1 || m.Blending == AdditiveBlending
}

func (m *Material) ownedResources() []Disposable {
	if m.Map != nil {
		return []Disposable{m, m.Map}
	}
	return []Disposable{m}
}

// Texture is an image source bound to a material. Pixel data is not sampled
// by the software renderer; the texture only tints through its material.
type Texture struct {
	resource
	Source      string
	NeedsUpdate bool
	Width       int
	Height      int
}

func NewTexture(source string) *Texture { return &Texture{Source: source} }

// TextureLoader creates textures tracked by the ledger it was built with.
type TextureLoader struct {
	ledger *Ledger
}

func NewTextureLoader(l *Ledger) *TextureLoader { return &TextureLoader{ledger: l} }

// Load returns a texture for url. Trailing callbacks are accepted and ignored.
func (t *TextureLoader) Load(url string, _ ...any) *Texture {
	tex := NewTexture(url)
	t.ledger.Track(tex)
	return tex
}
