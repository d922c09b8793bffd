package quarkgl

import "math"

// maxSegments bounds tessellation requested by scene modules.
const maxSegments = 128

// BufferAttribute is a flat array of per-vertex components.
//
// Count is the item count at construction; Len reflects the current Array.
type BufferAttribute struct {
	Array       []float32
	ItemSize    int
	Count       int
	NeedsUpdate bool
}

func NewBufferAttribute(array []float32, itemSize int) *BufferAttribute {
	if itemSize <= 0 {
		itemSize = 3
	}
	return &BufferAttribute{Array: array, ItemSize: itemSize, Count: len(array) / itemSize}
}

// Len returns the number of items currently in Array.
func (a *BufferAttribute) Len() int {
	if a == nil || a.ItemSize <= 0 {
		return 0
	}
	return len(a.Array) / a.ItemSize
}

func (a *BufferAttribute) component(i, c int) float64 {
	idx := i*a.ItemSize + c
	if c >= a.ItemSize || idx < 0 || idx >= len(a.Array) {
		return 0
	}
	return float64(a.Array[idx])
}

func (a *BufferAttribute) GetX(i int) float64 { return a.component(i, 0) }
func (a *BufferAttribute) GetY(i int) float64 { return a.component(i, 1) }
func (a *BufferAttribute) GetZ(i int) float64 { return a.component(i, 2) }

func (a *BufferAttribute) SetXYZ(i int, x, y, z float64) *BufferAttribute {
	base := i * a.ItemSize
	if base < 0 || a.ItemSize < 3 || base+2 >= len(a.Array) {
		return a
	}
	a.Array[base] = float32(x)
	a.Array[base+1] = float32(y)
	a.Array[base+2] = float32(z)
	return a
}

func (a *BufferAttribute) vec3(i int) Vec3 {
	base := i * a.ItemSize
	if base < 0 || base+2 >= len(a.Array) || a.ItemSize < 3 {
		return Vec3{}
	}
	return Vec3{a.Array[base], a.Array[base+1], a.Array[base+2]}
}

// Geometry holds vertex attributes and an optional triangle index.
type Geometry struct {
	resource
	Type       string
	Attributes map[string]*BufferAttribute
	Index      []uint32
	Parameters map[string]float64
}

func NewBufferGeometry() *Geometry {
	return &Geometry{
		Type:       "BufferGeometry",
		Attributes: make(map[string]*BufferAttribute),
		Parameters: make(map[string]float64),
	}
}

func (g *Geometry) SetAttribute(name string, a *BufferAttribute) *Geometry {
	if a == nil {
		delete(g.Attributes, name)
		return g
	}
	g.Attributes[name] = a
	return g
}

func (g *Geometry) GetAttribute(name string) *BufferAttribute { return g.Attributes[name] }

func (g *Geometry) DeleteAttribute(name string) *Geometry {
	delete(g.Attributes, name)
	return g
}

func (g *Geometry) SetIndex(index []uint32) *Geometry {
	g.Index = index
	return g
}

func (g *Geometry) SetFromPoints(points []*Vector3) *Geometry {
	arr := make([]float32, 0, len(points)*3)
	for _, p := range points {
		if p == nil {
			continue
		}
		arr = append(arr, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return g.SetAttribute("position", NewBufferAttribute(arr, 3))
}

// VertexCount returns the number of positions.
func (g *Geometry) VertexCount() int { return g.Attributes["position"].Len() }

func (g *Geometry) Clone() *Geometry {
	c := NewBufferGeometry()
	c.Type = g.Type
	for k, a := range g.Attributes {
		c.Attributes[k] = NewBufferAttribute(append([]float32(nil), a.Array...), a.ItemSize)
	}
	c.Index = append([]uint32(nil), g.Index...)
	for k, v := range g.Parameters {
		c.Parameters[k] = v
	}
	g.adopt(c)
	return c
}

// ComputeVertexNormals accumulates face normals into a "normal" attribute.
func (g *Geometry) ComputeVertexNormals() {
	pos := g.Attributes["position"]
	n := pos.Len()
	if n == 0 {
		return
	}
	normals := make([]Vec3, n)
	g.eachTriangle(func(a, b, c int) {
		fn := Cross(pos.vec3(b).Sub(pos.vec3(a)), pos.vec3(c).Sub(pos.vec3(a)))
		normals[a] = normals[a].Add(fn)
		normals[b] = normals[b].Add(fn)
		normals[c] = normals[c].Add(fn)
	})
	arr := make([]float32, n*3)
	for i, v := range normals {
		v = Normalize(v)
		arr[i*3], arr[i*3+1], arr[i*3+2] = v.X, v.Y, v.Z
	}
	g.Attributes["normal"] = NewBufferAttribute(arr, 3)
}

func (g *Geometry) eachTriangle(fn func(a, b, c int)) {
	n := g.VertexCount()
	if len(g.Index) > 0 {
		for i := 0; i+2 < len(g.Index); i += 3 {
			a, b, c := int(g.Index[i]), int(g.Index[i+1]), int(g.Index[i+2])
			if a < n && b < n && c < n {
				fn(a, b, c)
			}
		}
		return
	}
	for i := 0; i+2 < n; i += 3 {
		fn(i, i+1, i+2)
	}
}

func (g *Geometry) transform(m Mat4) *Geometry {
	pos := g.Attributes["position"]
	for i := 0; i < pos.Len(); i++ {
		p := Mat4MulPoint(m, pos.vec3(i))
		pos.SetXYZ(i, float64(p.X), float64(p.Y), float64(p.Z))
	}
	if nrm := g.Attributes["normal"]; nrm != nil {
		for i := 0; i < nrm.Len(); i++ {
			p := Normalize(Mat4MulDir(m, nrm.vec3(i)))
			nrm.SetXYZ(i, float64(p.X), float64(p.Y), float64(p.Z))
		}
	}
	return g
}

func (g *Geometry) RotateX(a float64) *Geometry { return g.transform(Mat4RotateX(Scalar(a))) }
func (g *Geometry) RotateY(a float64) *Geometry { return g.transform(Mat4RotateY(Scalar(a))) }
func (g *Geometry) RotateZ(a float64) *Geometry { return g.transform(Mat4RotateZ(Scalar(a))) }

func (g *Geometry) Translate(x, y, z float64) *Geometry {
	return g.transform(Mat4Translate(V3(Scalar(x), Scalar(y), Scalar(z))))
}

func (g *Geometry) Scale(x, y, z float64) *Geometry {
	return g.transform(Mat4Scale(V3(Scalar(x), Scalar(y), Scalar(z))))
}

// Center translates the geometry so its bounding box is centered at the origin.
func (g *Geometry) Center() *Geometry {
	pos := g.Attributes["position"]
	if pos.Len() == 0 {
		return g
	}
	lo, hi := pos.vec3(0), pos.vec3(0)
	for i := 1; i < pos.Len(); i++ {
		p := pos.vec3(i)
		lo = Vec3{minF(lo.X, p.X), minF(lo.Y, p.Y), minF(lo.Z, p.Z)}
		hi = Vec3{maxF(hi.X, p.X), maxF(hi.Y, p.Y), maxF(hi.Z, p.Z)}
	}
	c := lo.Add(hi).Mul(0.5)
	return g.Translate(float64(-c.X), float64(-c.Y), float64(-c.Z))
}

func (g *Geometry) ownedResources() []Disposable { return []Disposable{g} }

type meshBuilder struct {
	pos []float32
	idx []uint32
}

func (b *meshBuilder) vertex(x, y, z float64) uint32 {
	b.pos = append(b.pos, float32(x), float32(y), float32(z))
	return uint32(len(b.pos)/3 - 1)
}

func (b *meshBuilder) tri(a, c, d uint32) { b.idx = append(b.idx, a, c, d) }

func (b *meshBuilder) quad(a, c, d, e uint32) {
	b.tri(a, c, e)
	b.tri(c, d, e)
}

func (b *meshBuilder) build(kind string, params map[string]float64) *Geometry {
	g := NewBufferGeometry()
	g.Type = kind
	g.Attributes["position"] = NewBufferAttribute(b.pos, 3)
	g.Index = b.idx
	for k, v := range params {
		g.Parameters[k] = v
	}
	g.ComputeVertexNormals()
	return g
}

func segments(v float64, lo int) int {
	n := int(v)
	if n < lo {
		n = lo
	}
	if n > maxSegments {
		n = maxSegments
	}
	return n
}

func NewBoxGeometry(w, h, d float64) *Geometry {
	var b meshBuilder
	hx, hy, hz := w/2, h/2, d/2
	faces := [6][4][3]float64{
		{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}},
		{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}},
		{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}},
		{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}},
		{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}},
		{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}},
	}
	for _, f := range faces {
		var ids [4]uint32
		for i, v := range f {
			ids[i] = b.vertex(v[0], v[1], v[2])
		}
		b.quad(ids[0], ids[1], ids[2], ids[3])
	}
	return b.build("BoxGeometry", map[string]float64{"width": w, "height": h, "depth": d})
}

// grid tessellates a parametric surface over u, v in [0,1].
func (b *meshBuilder) grid(us, vs int, f func(u, v float64) (x, y, z float64)) {
	base := uint32(len(b.pos) / 3)
	for j := 0; j <= vs; j++ {
		for i := 0; i <= us; i++ {
			b.vertex(f(float64(i)/float64(us), float64(j)/float64(vs)))
		}
	}
	row := uint32(us + 1)
	for j := 0; j < vs; j++ {
		for i := 0; i < us; i++ {
			a := base + uint32(j)*row + uint32(i)
			b.quad(a, a+1, a+row+1, a+row)
		}
	}
}

func NewSphereGeometry(radius, widthSegments, heightSegments float64) *Geometry {
	var b meshBuilder
	ws, hs := segments(widthSegments, 3), segments(heightSegments, 2)
	b.grid(ws, hs, func(u, v float64) (float64, float64, float64) {
		phi, theta := u*2*math.Pi, v*math.Pi
		return -radius * math.Cos(phi) * math.Sin(theta), radius * math.Cos(theta), radius * math.Sin(phi) * math.Sin(theta)
	})
	return b.build("SphereGeometry", map[string]float64{"radius": radius})
}

func NewPlaneGeometry(w, h, ws, hs float64) *Geometry {
	var b meshBuilder
	b.grid(segments(ws, 1), segments(hs, 1), func(u, v float64) (float64, float64, float64) {
		return (u - 0.5) * w, (0.5 - v) * h, 0
	})
	return b.build("PlaneGeometry", map[string]float64{"width": w, "height": h})
}

func NewTorusGeometry(radius, tube, radialSegments, tubularSegments float64) *Geometry {
	var b meshBuilder
	b.grid(segments(tubularSegments, 3), segments(radialSegments, 2), func(u, v float64) (float64, float64, float64) {
		a, t := u*2*math.Pi, v*2*math.Pi
		r := radius + tube*math.Cos(t)
		return r * math.Cos(a), r * math.Sin(a), tube * math.Sin(t)
	})
	return b.build("TorusGeometry", map[string]float64{"radius": radius, "tube": tube})
}

func NewTorusKnotGeometry(radius, tube, tubularSegments, radialSegments, p, q float64) *Geometry {
	var b meshBuilder
	curve := func(u float64) Vec3 {
		qu := q / p * u
		cs := math.Cos(qu)
		return V3(
			Scalar(radius*(2+cs)*0.5*math.Cos(u)),
			Scalar(radius*(2+cs)*0.5*math.Sin(u)),
			Scalar(radius*math.Sin(qu)*0.5),
		)
	}
	if p == 0 {
		p = 2
	}
	b.grid(segments(tubularSegments, 3), segments(radialSegments, 3), func(u, v float64) (float64, float64, float64) {
		t := u * p * 2 * math.Pi
		p1, p2 := curve(t), curve(t+0.01)
		T := p2.Sub(p1)
		N := p2.Add(p1)
		B := Normalize(Cross(T, N))
		N = Normalize(Cross(B, T))
		a := v * 2 * math.Pi
		cx, cy := Scalar(-tube*math.Cos(a)), Scalar(tube*math.Sin(a))
		out := p1.Add(N.Mul(cx)).Add(B.Mul(cy))
		return float64(out.X), float64(out.Y), float64(out.Z)
	})
	return b.build("TorusKnotGeometry", map[string]float64{"radius": radius, "tube": tube, "p": p, "q": q})
}

func NewCylinderGeometry(radiusTop, radiusBottom, height, radialSegments float64) *Geometry {
	var b meshBuilder
	rs := segments(radialSegments, 3)
	b.grid(rs, 1, func(u, v float64) (float64, float64, float64) {
		r := Lerp(radiusTop, radiusBottom, v)
		a := u * 2 * math.Pi
		return r * math.Sin(a), height/2 - v*height, r * math.Cos(a)
	})
	addCap := func(y, r float64, top bool) {
		if r <= 0 {
			return
		}
		center := b.vertex(0, y, 0)
		first := uint32(len(b.pos) / 3)
		for i := 0; i <= rs; i++ {
			a := float64(i) / float64(rs) * 2 * math.Pi
			b.vertex(r*math.Sin(a), y, r*math.Cos(a))
		}
		for i := uint32(0); i < uint32(rs); i++ {
			if top {
				b.tri(center, first+i, first+i+1)
			} else {
				b.tri(center, first+i+1, first+i)
			}
		}
	}
	addCap(height/2, radiusTop, true)
	addCap(-height/2, radiusBottom, false)
	return b.build("CylinderGeometry", map[string]float64{"radiusTop": radiusTop, "radiusBottom": radiusBottom, "height": height})
}

func NewConeGeometry(radius, height, radialSegments float64) *Geometry {
	g := NewCylinderGeometry(0, radius, height, radialSegments)
	g.Type = "ConeGeometry"
	return g
}

func NewRingGeometry(inner, outer, thetaSegments float64) *Geometry {
	var b meshBuilder
	b.grid(segments(thetaSegments, 3), 1, func(u, v float64) (float64, float64, float64) {
		r := Lerp(inner, outer, v)
		a := u * 2 * math.Pi
		return r * math.Cos(a), r * math.Sin(a), 0
	})
	return b.build("RingGeometry", map[string]float64{"innerRadius": inner, "outerRadius": outer})
}

func NewIcosahedronGeometry(radius, detail float64) *Geometry {
	t := (1 + math.Sqrt(5)) / 2
	verts := [][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return polyhedron("IcosahedronGeometry", verts, faces, radius, detail)
}

func NewOctahedronGeometry(radius, detail float64) *Geometry {
	verts := [][3]float64{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	faces := [][3]int{{0, 2, 4}, {0, 4, 3}, {0, 3, 5}, {0, 5, 2}, {1, 2, 5}, {1, 5, 3}, {1, 3, 4}, {1, 4, 2}}
	return polyhedron("OctahedronGeometry", verts, faces, radius, detail)
}

// polyhedron subdivides each face detail+1 times and projects onto the sphere.
func polyhedron(kind string, verts [][3]float64, faces [][3]int, radius, detail float64) *Geometry {
	var b meshBuilder
	n := int(detail)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	cols := n + 1
	project := func(p [3]float64) uint32 {
		l := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
		return b.vertex(p[0]/l*radius, p[1]/l*radius, p[2]/l*radius)
	}
	mix := func(a, c [3]float64, t float64) [3]float64 {
		return [3]float64{Lerp(a[0], c[0], t), Lerp(a[1], c[1], t), Lerp(a[2], c[2], t)}
	}
	for _, f := range faces {
		a, bb, c := verts[f[0]], verts[f[1]], verts[f[2]]
		grid := make([][]uint32, cols+1)
		for i := 0; i <= cols; i++ {
			aj := mix(a, c, float64(i)/float64(cols))
			bj := mix(bb, c, float64(i)/float64(cols))
			rows := cols - i
			grid[i] = make([]uint32, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = project(aj)
					continue
				}
				grid[i][j] = project(mix(aj, bj, float64(j)/float64(rows)))
			}
		}
		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					b.tri(grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					b.tri(grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}
	return b.build(kind, map[string]float64{"radius": radius, "detail": float64(n)})
}

func minF(a, b Scalar) Scalar {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b Scalar) Scalar {
	if a > b {
		return a
	}
	return b
}
