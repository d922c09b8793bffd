package quarkgl

// Mesh draws triangles from its geometry.
type Mesh struct {
	Object3D
	Geometry *Geometry
	Material *Material
}

func NewMesh(g *Geometry, m *Material) *Mesh {
	mesh := &Mesh{Geometry: g, Material: m}
	mesh.init(mesh, "Mesh")
	return mesh
}

// Points draws one square sprite per vertex.
type Points struct {
	Object3D
	Geometry *Geometry
	Material *Material
}

func NewPoints(g *Geometry, m *Material) *Points {
	p := &Points{Geometry: g, Material: m}
	p.init(p, "Points")
	return p
}

// LineMode selects how Line connects its vertices.
type LineMode uint8

const (
	LineStrip LineMode = iota
	LineLoop
	LineSegments
)

// Line draws segments between vertices.
type Line struct {
	Object3D
	Geometry *Geometry
	Material *Material
	mode     LineMode
}

func NewLine(g *Geometry, m *Material, mode LineMode) *Line {
	l := &Line{Geometry: g, Material: m, mode: mode}
	kind := "Line"
	switch mode {
	case LineLoop:
		kind = "LineLoop"
	case LineSegments:
		kind = "LineSegments"
	}
	l.init(l, kind)
	return l
}

func drawableResources(g *Geometry, m *Material) []Disposable {
	var out []Disposable
	if g != nil {
		out = append(out, g)
	}
	if m != nil {
		out = append(out, m.ownedResources()...)
	}
	return out
}

func (m *Mesh) ownedResources() []Disposable   { return drawableResources(m.Geometry, m.Material) }
func (p *Points) ownedResources() []Disposable { return drawableResources(p.Geometry, p.Material) }
func (l *Line) ownedResources() []Disposable   { return drawableResources(l.Geometry, l.Material) }

// LightKind distinguishes light behaviour in the renderer.
type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
	LightHemisphere
)

// Light is a scene node that contributes to lit materials.
type Light struct {
	Object3D
	resource
	Color       *ColorRGB
	GroundColor *ColorRGB
	Intensity   float64
	Distance    float64
	Decay       float64
	kind        LightKind
}

func NewLight(kind LightKind, color *ColorRGB, intensity float64) *Light {
	if color == nil {
		color = &ColorRGB{R: 1, G: 1, B: 1}
	}
	l := &Light{Color: color, GroundColor: &ColorRGB{}, Intensity: intensity, Decay: 2, kind: kind}
	name := "AmbientLight"
	switch kind {
	case LightDirectional:
		name = "DirectionalLight"
		l.init(l, name)
		l.Position.Set(0, 1, 0)
		return l
	case LightPoint:
		name = "PointLight"
	case LightHemisphere:
		name = "HemisphereLight"
	}
	l.init(l, name)
	return l
}

// Kind reports what sort of light this is.
func (l *Light) Kind() LightKind { return l.kind }

func (l *Light) ownedResources() []Disposable { return []Disposable{l} }

type resourceOwner interface {
	ownedResources() []Disposable
}

// DisposeTree disposes every resource referenced by n and its descendants and
// returns how many were live before the call.
func DisposeTree(n Node) int {
	if n == nil {
		return 0
	}
	disposed := 0
	n.Object().Traverse(func(node Node) {
		owner, ok := node.(resourceOwner)
		if !ok {
			return
		}
		for _, r := range owner.ownedResources() {
			if r.IsDisposed() {
				continue
			}
			r.Dispose()
			disposed++
		}
	})
	return disposed
}
