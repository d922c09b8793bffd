package quarkgl

// Renderer is a software renderer that walks a scene graph every frame.
//
// Create it once and reuse it; scratch buffers are kept between frames.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	// Stats describes the last rendered frame.
	Stats Stats

	depthBuf []float32
	blender  Blender
	lights   lighting
	draws    []drawItem
	verts    []screenVertex
	fog      *Fog
	eye      Vec3

	seen  map[*Object3D]struct{}
	stack []pending
}

// pending is a node waiting to be collected under its parent's transform.
type pending struct {
	node   Node
	parent Mat4
}

// Stats counts what the last Render call visited and drew.
type Stats struct {
	Nodes     int
	Triangles int
	Points    int
	Segments  int
}

type drawItem struct {
	node        Node
	world       Mat4
	translucent bool
}

type screenVertex struct {
	x, y  int
	z     float32
	w     Scalar
	world Vec3
	ok    bool
}

// pixelOp describes how a fragment is written.
type pixelOp struct {
	alpha      uint8
	mode       BlendMode
	depthTest  bool
	depthWrite bool
}

// NewRenderer creates a renderer for a given target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Mode:       RenderSolidFlat,
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

func (r *Renderer) SetRenderMode(m RenderMode) { r.Mode = m }

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on {
		r.depthBuf = nil
		return
	}
	if w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}
}

// Render draws the tree under root into t as seen from cam.
func (r *Renderer) Render(t Target, root Node, cam *PerspectiveCamera) {
	if r == nil || t == nil || root == nil || cam == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)
	r.Stats = Stats{}
	r.blender, _ = t.(Blender)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	snap := cam.Snapshot()
	view := snap.View()
	proj := snap.Projection(Scalar(w) / Scalar(h))

	r.lights.reset()
	r.draws = r.draws[:0]
	r.fog = nil
	r.eye = snap.Position
	r.collect(root)
	if !r.lights.any {
		r.lights.defaults()
	}

	// Opaque items first so translucent ones blend over them.
	for pass := 0; pass < 2; pass++ {
		for _, d := range r.draws {
			if d.translucent != (pass == 1) {
				continue
			}
			switch n := d.node.(type) {
			case *Mesh:
				r.renderMesh(t, w, h, view, proj, d.world, n, snap.Position)
			case *Points:
				r.renderPoints(t, w, h, view, proj, d.world, n)
			case *Line:
				r.renderLine(t, w, h, view, proj, d.world, n)
			}
		}
	}
}

// collect flattens the visible tree into lights and draw items. Each node
// is visited once per frame, however its child lists are linked.
func (r *Renderer) collect(root Node) {
	if r.seen == nil {
		r.seen = make(map[*Object3D]struct{})
	}
	clear(r.seen)
	r.stack = append(r.stack[:0], pending{node: root, parent: Mat4Identity()})
	for len(r.stack) > 0 {
		it := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		o := it.node.Object()
		if o == nil || !o.Visible {
			continue
		}
		if _, ok := r.seen[o]; ok {
			continue
		}
		r.seen[o] = struct{}{}
		world := Mat4Mul(it.parent, o.LocalMatrix())
		r.visit(it.node, world)
		for i := len(o.Children) - 1; i >= 0; i-- {
			if c := o.Children[i]; c != nil {
				r.stack = append(r.stack, pending{node: c, parent: world})
			}
		}
	}
}

func (r *Renderer) visit(n Node, world Mat4) {
	r.Stats.Nodes++
	switch v := n.(type) {
	case *Group:
		if r.fog == nil {
			r.fog = v.Fog
		}
	case *Scene:
		if r.fog == nil {
			r.fog = v.Fog
		}
	case *Light:
		r.lights.add(v, world)
	case *Mesh:
		r.draws = append(r.draws, drawItem{node: n, world: world, translucent: v.Material != nil && v.Material.translucent()})
	case *Points:
		r.draws = append(r.draws, drawItem{node: n, world: world, translucent: v.Material != nil && v.Material.translucent()})
	case *Line:
		r.draws = append(r.draws, drawItem{node: n, world: world, translucent: v.Material != nil && v.Material.translucent()})
	}
}

// project transforms every position into screen space.
func (r *Renderer) project(pos *BufferAttribute, world, mvp Mat4, w, h int) []screenVertex {
	n := pos.Len()
	if cap(r.verts) < n {
		r.verts = make([]screenVertex, n)
	}
	verts := r.verts[:n]
	for i := range verts {
		p := pos.vec3(i)
		clip := Mat4MulV4(mvp, Vec4{X: p.X, Y: p.Y, Z: p.Z, W: 1})
		ndc, ok := clipToNDC(clip)
		// Drop vertices behind the camera, past the far plane or far off-screen.
		if !ok || clip.W <= 1e-5 || ndc.Z < -1 || ndc.Z > 1 || ndc.X < -8 || ndc.X > 8 || ndc.Y < -8 || ndc.Y > 8 {
			verts[i] = screenVertex{}
			continue
		}
		x, y := ndcToScreen(ndc, w, h)
		verts[i] = screenVertex{x: x, y: y, z: ndc.Z, w: clip.W, world: Mat4MulPoint(world, p), ok: true}
	}
	return verts
}

func (r *Renderer) renderMesh(t Target, w, h int, view, proj, world Mat4, m *Mesh, eye Vec3) {
	g, mat := m.Geometry, m.Material
	if g == nil || mat == nil || g.IsDisposed() {
		return
	}
	pos := g.Attributes["position"]
	if pos.Len() == 0 {
		return
	}
	verts := r.project(pos, world, Mat4Mul(proj, Mat4Mul(view, world)), w, h)

	var colors *BufferAttribute
	if mat.VertexColors {
		colors = g.Attributes["color"]
	}
	op := pixelOp{
		alpha:      uint8(mat.alpha()*255 + 0.5),
		mode:       mat.blendMode(),
		depthTest:  mat.DepthTest,
		depthWrite: mat.DepthWrite,
	}
	wire := mat.Wireframe || r.Mode == RenderWireframe
	base := colorVec(mat.Color)
	emissive := colorVec(mat.Emissive)
	lit := mat.Lit()

	g.eachTriangle(func(a, b, c int) {
		if !verts[a].ok || !verts[b].ok || !verts[c].ok {
			return
		}
		if edgeFn(verts[a].x, verts[a].y, verts[b].x, verts[b].y, verts[c].x, verts[c].y) < 0 {
			b, c = c, b
		}
		va, vb, vc := verts[a], verts[b], verts[c]
		r.Stats.Triangles++

		light := V3(1, 1, 1)
		center := va.world.Add(vb.world).Add(vc.world).Mul(1.0 / 3)
		if lit {
			n := triangleNormal(va.world, vb.world, vc.world)
			if Dot(n, eye.Sub(va.world)) < 0 {
				n = n.Mul(-1)
			}
			light = r.lights.shade(n, center)
		}

		if colors != nil {
			ca := toPixel(r.fogged(mulVec(colorAt(colors, a), light).Add(emissive), va.world), op.alpha)
			cb := toPixel(r.fogged(mulVec(colorAt(colors, b), light).Add(emissive), vb.world), op.alpha)
			cc := toPixel(r.fogged(mulVec(colorAt(colors, c), light).Add(emissive), vc.world), op.alpha)
			if wire {
				r.drawLine(t, va.x, va.y, vb.x, vb.y, ca, op.mode)
				r.drawLine(t, vb.x, vb.y, vc.x, vc.y, cb, op.mode)
				r.drawLine(t, vc.x, vc.y, va.x, va.y, cc, op.mode)
				return
			}
			r.fillTriangle(t, w, h, va, ca, vb, cb, vc, cc, op)
			return
		}

		col := toPixel(r.fogged(mulVec(base, light).Add(emissive), center), op.alpha)
		if wire {
			r.drawLine(t, va.x, va.y, vb.x, vb.y, col, op.mode)
			r.drawLine(t, vb.x, vb.y, vc.x, vc.y, col, op.mode)
			r.drawLine(t, vc.x, vc.y, va.x, va.y, col, op.mode)
			return
		}
		r.fillTriangleFlat(t, w, h, va, vb, vc, col, op)
	})
}

// maxPointSize bounds sprite size in pixels.
const maxPointSize = 6

func (r *Renderer) renderPoints(t Target, w, h int, view, proj, world Mat4, p *Points) {
	g, mat := p.Geometry, p.Material
	if g == nil || mat == nil || g.IsDisposed() {
		return
	}
	pos := g.Attributes["position"]
	if pos.Len() == 0 {
		return
	}
	verts := r.project(pos, world, Mat4Mul(proj, Mat4Mul(view, world)), w, h)
	var colors *BufferAttribute
	if mat.VertexColors {
		colors = g.Attributes["color"]
	}
	alpha := uint8(mat.alpha()*255 + 0.5)
	op := pixelOp{alpha: alpha, mode: mat.blendMode(), depthTest: mat.DepthTest, depthWrite: mat.DepthWrite}
	base := colorVec(mat.Color)

	for i, v := range verts {
		if !v.ok {
			continue
		}
		size := Scalar(mat.Size)
		if mat.SizeAttenuation && v.w > 0 {
			size = size * proj[5] * Scalar(h) / (2 * v.w)
		}
		px := int(size + 0.5)
		if px < 1 {
			px = 1
		}
		if px > maxPointSize {
			px = maxPointSize
		}
		col := base
		if colors != nil {
			col = colorAt(colors, i)
		}
		c := toPixel(r.fogged(col, v.world), alpha)
		r.Stats.Points++
		x0, y0 := v.x-px/2, v.y-px/2
		for dy := 0; dy < px; dy++ {
			for dx := 0; dx < px; dx++ {
				x, y := x0+dx, y0+dy
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				if !r.depthTest(w, x, y, v.z, op) {
					continue
				}
				r.plot(t, x, y, c, op.mode)
			}
		}
	}
}

func (r *Renderer) renderLine(t Target, w, h int, view, proj, world Mat4, l *Line) {
	g, mat := l.Geometry, l.Material
	if g == nil || mat == nil || g.IsDisposed() {
		return
	}
	pos := g.Attributes["position"]
	n := pos.Len()
	if n < 2 {
		return
	}
	verts := r.project(pos, world, Mat4Mul(proj, Mat4Mul(view, world)), w, h)
	var colors *BufferAttribute
	if mat.VertexColors {
		colors = g.Attributes["color"]
	}
	alpha := uint8(mat.alpha()*255 + 0.5)
	base := colorVec(mat.Color)
	mode := mat.blendMode()

	segment := func(a, b int) {
		if !verts[a].ok || !verts[b].ok {
			return
		}
		col := base
		if colors != nil {
			col = colorAt(colors, a)
		}
		mid := verts[a].world.Add(verts[b].world).Mul(0.5)
		c := toPixel(r.fogged(col, mid), alpha)
		r.Stats.Segments++
		r.drawLine(t, verts[a].x, verts[a].y, verts[b].x, verts[b].y, c, mode)
	}
	switch l.mode {
	case LineSegments:
		for i := 0; i+1 < n; i += 2 {
			segment(i, i+1)
		}
	default:
		for i := 0; i+1 < n; i++ {
			segment(i, i+1)
		}
		if l.mode == LineLoop {
			segment(n-1, 0)
		}
	}
}

type dirLight struct {
	dir   Vec3
	color Vec3
}

type pointLight struct {
	pos      Vec3
	color    Vec3
	distance Scalar
}

type lighting struct {
	any     bool
	ambient Vec3
	dirs    []dirLight
	points  []pointLight
}

func (l *lighting) reset() {
	l.any = false
	l.ambient = Vec3{}
	l.dirs = l.dirs[:0]
	l.points = l.points[:0]
}

// defaults applies when a scene has no lights at all.
func (l *lighting) defaults() {
	l.ambient = V3(0.25, 0.25, 0.25)
	l.dirs = append(l.dirs, dirLight{dir: Normalize(V3(-1, -1, -1)), color: V3(0.75, 0.75, 0.75)})
}

func (l *lighting) add(light *Light, world Mat4) {
	l.any = true
	c := colorVec(light.Color).Mul(Scalar(light.Intensity))
	switch light.kind {
	case LightAmbient:
		l.ambient = l.ambient.Add(c)
	case LightHemisphere:
		g := colorVec(light.GroundColor).Mul(Scalar(light.Intensity))
		l.ambient = l.ambient.Add(c.Add(g).Mul(0.5))
	case LightDirectional:
		p := Mat4MulPoint(world, Vec3{})
		dir := Normalize(p.Mul(-1))
		if dir == (Vec3{}) {
			dir = V3(0, -1, 0)
		}
		l.dirs = append(l.dirs, dirLight{dir: dir, color: c})
	case LightPoint:
		l.points = append(l.points, pointLight{pos: Mat4MulPoint(world, Vec3{}), color: c, distance: Scalar(light.Distance)})
	}
}

// shade returns the light reaching a surface with normal n at point p.
func (l *lighting) shade(n, p Vec3) Vec3 {
	acc := l.ambient
	for _, d := range l.dirs {
		if k := Dot(n, d.dir.Mul(-1)); k > 0 {
			acc = acc.Add(d.color.Mul(k))
		}
	}
	for _, pl := range l.points {
		toLight := pl.pos.Sub(p)
		k := Dot(n, Normalize(toLight))
		if k <= 0 {
			continue
		}
		if pl.distance > 0 {
			k *= Clamp01(1 - Len(toLight)/pl.distance)
		}
		acc = acc.Add(pl.color.Mul(k))
	}
	return acc
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) (ndcPoint, bool) {
	if p.W == 0 {
		return ndcPoint{}, false
	}
	invW := 1.0 / p.W
	return ndcPoint{X: p.X * invW, Y: p.Y * invW, Z: p.Z * invW}, true
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5)
}

func triangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

func colorVec(c *ColorRGB) Vec3 {
	if c == nil {
		return V3(1, 1, 1)
	}
	return V3(Scalar(c.R), Scalar(c.G), Scalar(c.B))
}

func colorAt(a *BufferAttribute, i int) Vec3 {
	if a.ItemSize < 3 {
		return V3(1, 1, 1)
	}
	return a.vec3(i)
}

func mulVec(a, b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

func toPixel(v Vec3, alpha uint8) Color {
	return Color{
		R: uint8(Clamp01(v.X)*255 + 0.5),
		G: uint8(Clamp01(v.Y)*255 + 0.5),
		B: uint8(Clamp01(v.Z)*255 + 0.5),
		A: alpha,
	}
}

func (r *Renderer) plot(t Target, x, y int, c Color, mode BlendMode) {
	switch {
	case c.A == 0xFF && mode == BlendNormal:
		t.SetPixel(x, y, c)
	case r.blender != nil:
		r.blender.Blend(x, y, c, mode)
	case c.A >= 0x80:
		t.SetPixel(x, y, c.WithAlpha(0xFF))
	}
}

func (r *Renderer) depthTest(w int, x, y int, z float32, op pixelOp) bool {
	if !r.Depth || r.depthBuf == nil || !op.depthTest {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is in [-1,1]. Map to [0,1].
	d := clampF32(z*0.5+0.5, 0, 1)
	if d >= r.depthBuf[idx] {
		return false
	}
	if op.depthWrite {
		r.depthBuf[idx] = d
	}
	return true
}

func (r *Renderer) drawLine(t Target, x0, y0, x1, y1 int, c Color, mode BlendMode) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		r.plot(t, x0, y0, c, mode)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// bounds returns the clamped screen box of a triangle and whether it is non-empty.
func bounds(w, h int, a, b, c screenVertex) (minX, minY, maxX, maxY int, ok bool) {
	minX, maxX = min3(a.x, b.x, c.x), max3(a.x, b.x, c.x)
	minY, maxY = min3(a.y, b.y, c.y), max3(a.y, b.y, c.y)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	return minX, minY, maxX, maxY, minX <= maxX && minY <= maxY
}

func (r *Renderer) fillTriangleFlat(t Target, w, h int, v0, v1, v2 screenVertex, c Color, op pixelOp) {
	minX, minY, maxX, maxY, ok := bounds(w, h, v0, v1, v2)
	if !ok {
		return
	}
	area := edgeFn(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	invArea := 1.0 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(v1.x, v1.y, v2.x, v2.y, x, y)
			w1 := edgeFn(v2.x, v2.y, v0.x, v0.y, x, y)
			w2 := edgeFn(v0.x, v0.y, v1.x, v1.y, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			z := float32(w0)*invArea*v0.z + float32(w1)*invArea*v1.z + float32(w2)*invArea*v2.z
			if !r.depthTest(w, x, y, z, op) {
				continue
			}
			r.plot(t, x, y, c, op.mode)
		}
	}
}

func (r *Renderer) fillTriangle(t Target, w, h int, v0 screenVertex, c0 Color, v1 screenVertex, c1 Color, v2 screenVertex, c2 Color, op pixelOp) {
	minX, minY, maxX, maxY, ok := bounds(w, h, v0, v1, v2)
	if !ok {
		return
	}
	area := edgeFn(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	invArea := 1.0 / float32(area)

	r0, g0, b0 := float32(c0.R), float32(c0.G), float32(c0.B)
	r1, g1, b1 := float32(c1.R), float32(c1.G), float32(c1.B)
	r2, g2, b2 := float32(c2.R), float32(c2.G), float32(c2.B)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(v1.x, v1.y, v2.x, v2.y, x, y)
			w1 := edgeFn(v2.x, v2.y, v0.x, v0.y, x, y)
			w2 := edgeFn(v0.x, v0.y, v1.x, v1.y, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			z := a0*v0.z + a1*v1.z + a2*v2.z
			if !r.depthTest(w, x, y, z, op) {
				continue
			}
			rr := uint8(clampF32(a0*r0+a1*r1+a2*r2, 0, 255))
			gg := uint8(clampF32(a0*g0+a1*g1+a2*g2, 0, 255))
			bb := uint8(clampF32(a0*b0+a1*b1+a2*b2, 0, 255))
			r.plot(t, x, y, Color{R: rr, G: gg, B: bb, A: op.alpha}, op.mode)
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
