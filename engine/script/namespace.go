package script

import (
	"math"
	"math/rand/v2"

	"github.com/dop251/goja"

	"axiom/engine/quarkgl"
)

// binder builds the THREE namespace for one program. Every disposable the
// namespace hands out is tracked in the program's ledger.
type binder struct {
	vm     *goja.Runtime
	ledger *quarkgl.Ledger
	random func() float64
	ns     *goja.Object
	names  []string
}

func newBinder(vm *goja.Runtime, ledger *quarkgl.Ledger, random func() float64) *binder {
	if random == nil {
		random = rand.Float64
	}
	return &binder{vm: vm, ledger: ledger, random: random, ns: vm.NewObject()}
}

func (b *binder) set(name string, v any) {
	if err := b.ns.Set(name, v); err != nil {
		panic(err)
	}
	b.names = append(b.names, name)
}

func (b *binder) ctor(name string, fn func(args []goja.Value) any) {
	b.set(name, func(call goja.ConstructorCall) *goja.Object {
		return b.vm.ToValue(fn(call.Arguments)).(*goja.Object)
	})
}

func (b *binder) track(d quarkgl.Disposable) { b.ledger.Track(d) }

// namespace populates and returns the THREE object.
func (b *binder) namespace() *goja.Object {
	b.bindNodes()
	b.bindLights()
	b.bindGeometries()
	b.bindMaterials()
	b.bindValues()
	b.bindConstants()
	return b.ns
}

func (b *binder) bindNodes() {
	b.ctor("Group", func([]goja.Value) any { return quarkgl.NewGroup() })
	b.ctor("Object3D", func([]goja.Value) any {
		g := quarkgl.NewGroup()
		g.Type = "Object3D"
		return g
	})
	b.ctor("Scene", func([]goja.Value) any { return quarkgl.NewScene() })
	b.ctor("Mesh", func(args []goja.Value) any {
		return quarkgl.NewMesh(b.geometryArg(args, 0), b.materialArg(args, 1, "MeshBasicMaterial"))
	})
	b.ctor("Points", func(args []goja.Value) any {
		return quarkgl.NewPoints(b.geometryArg(args, 0), b.materialArg(args, 1, "PointsMaterial"))
	})
	lines := map[string]quarkgl.LineMode{
		"Line":         quarkgl.LineStrip,
		"LineLoop":     quarkgl.LineLoop,
		"LineSegments": quarkgl.LineSegments,
	}
	for _, name := range []string{"Line", "LineLoop", "LineSegments"} {
		mode := lines[name]
		b.ctor(name, func(args []goja.Value) any {
			return quarkgl.NewLine(b.geometryArg(args, 0), b.materialArg(args, 1, "LineBasicMaterial"), mode)
		})
	}
	b.ctor("PerspectiveCamera", func(args []goja.Value) any {
		return quarkgl.NewPerspectiveCamera(num(args, 0, 50), num(args, 1, 1), num(args, 2, 0.1), num(args, 3, 2000))
	})
}

func (b *binder) bindLights() {
	light := func(kind quarkgl.LightKind) func(args []goja.Value) any {
		return func(args []goja.Value) any {
			l := quarkgl.NewLight(kind, colorArg(args, 0, 0xffffff), num(args, 1, 1))
			b.track(l)
			return l
		}
	}
	b.ctor("AmbientLight", light(quarkgl.LightAmbient))
	b.ctor("DirectionalLight", light(quarkgl.LightDirectional))
	b.ctor("PointLight", func(args []goja.Value) any {
		l := quarkgl.NewLight(quarkgl.LightPoint, colorArg(args, 0, 0xffffff), num(args, 1, 1))
		l.Distance = num(args, 2, 0)
		l.Decay = num(args, 3, 2)
		b.track(l)
		return l
	})
	b.ctor("HemisphereLight", func(args []goja.Value) any {
		l := quarkgl.NewLight(quarkgl.LightHemisphere, colorArg(args, 0, 0xffffff), num(args, 2, 1))
		l.GroundColor = colorArg(args, 1, 0xffffff)
		b.track(l)
		return l
	})
}

func (b *binder) bindGeometries() {
	geometry := func(name string, build func(args []goja.Value) *quarkgl.Geometry) {
		b.ctor(name, func(args []goja.Value) any {
			g := build(args)
			b.track(g)
			return g
		})
	}
	geometry("BufferGeometry", func([]goja.Value) *quarkgl.Geometry { return quarkgl.NewBufferGeometry() })
	geometry("BoxGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewBoxGeometry(num(a, 0, 1), num(a, 1, 1), num(a, 2, 1))
	})
	geometry("SphereGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewSphereGeometry(num(a, 0, 1), num(a, 1, 32), num(a, 2, 16))
	})
	geometry("IcosahedronGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewIcosahedronGeometry(num(a, 0, 1), num(a, 1, 0))
	})
	geometry("OctahedronGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewOctahedronGeometry(num(a, 0, 1), num(a, 1, 0))
	})
	geometry("TorusGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewTorusGeometry(num(a, 0, 1), num(a, 1, 0.4), num(a, 2, 12), num(a, 3, 48))
	})
	geometry("TorusKnotGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewTorusKnotGeometry(num(a, 0, 1), num(a, 1, 0.4), num(a, 2, 64), num(a, 3, 8), num(a, 4, 2), num(a, 5, 3))
	})
	geometry("PlaneGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewPlaneGeometry(num(a, 0, 1), num(a, 1, 1), num(a, 2, 1), num(a, 3, 1))
	})
	geometry("CylinderGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewCylinderGeometry(num(a, 0, 1), num(a, 1, 1), num(a, 2, 1), num(a, 3, 32))
	})
	geometry("ConeGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewConeGeometry(num(a, 0, 1), num(a, 1, 1), num(a, 2, 32))
	})
	geometry("RingGeometry", func(a []goja.Value) *quarkgl.Geometry {
		return quarkgl.NewRingGeometry(num(a, 0, 0.5), num(a, 1, 1), num(a, 2, 32))
	})

	attribute := func(args []goja.Value) any {
		return quarkgl.NewBufferAttribute(b.floats(arg(args, 0)), int(num(args, 1, 3)))
	}
	b.ctor("BufferAttribute", attribute)
	b.ctor("Float32BufferAttribute", attribute)
}

func (b *binder) bindMaterials() {
	for _, name := range []string{
		"MeshBasicMaterial",
		"MeshStandardMaterial",
		"MeshPhongMaterial",
		"MeshLambertMaterial",
		"PointsMaterial",
		"LineBasicMaterial",
	} {
		kind := name
		b.ctor(kind, func(args []goja.Value) any {
			m := quarkgl.NewMaterial(kind)
			b.applyMaterial(m, arg(args, 0))
			b.track(m)
			return m
		})
	}
	b.ctor("TextureLoader", func([]goja.Value) any { return quarkgl.NewTextureLoader(b.ledger) })
}

func (b *binder) bindValues() {
	b.ctor("Color", func(args []goja.Value) any {
		vals := make([]any, len(args))
		for i, a := range args {
			vals[i] = export(a)
		}
		return quarkgl.NewColor(vals...)
	})
	b.ctor("Vector3", func(args []goja.Value) any {
		return quarkgl.NewVector3(num(args, 0, 0), num(args, 1, 0), num(args, 2, 0))
	})
	b.ctor("Fog", func(args []goja.Value) any {
		return quarkgl.NewFog(colorArg(args, 0, 0xffffff), num(args, 1, 1), num(args, 2, 1000))
	})
	b.ctor("FogExp2", func(args []goja.Value) any {
		return quarkgl.NewFogExp2(colorArg(args, 0, 0xffffff), num(args, 1, 0.00025))
	})

	mu := b.vm.NewObject()
	for name, fn := range map[string]any{
		"lerp":     quarkgl.Lerp,
		"clamp":    func(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) },
		"degToRad": func(d float64) float64 { return d * math.Pi / 180 },
		"radToDeg": func(r float64) float64 { return r * 180 / math.Pi },
		"randFloat": func(lo, hi float64) float64 {
			return lo + b.random()*(hi-lo)
		},
		"randFloatSpread": func(r float64) float64 { return r * (0.5 - b.random()) },
		"randInt": func(lo, hi float64) float64 {
			return lo + math.Floor(b.random()*(hi-lo+1))
		},
	} {
		if err := mu.Set(name, fn); err != nil {
			panic(err)
		}
	}
	b.set("MathUtils", mu)
}

func (b *binder) bindConstants() {
	b.set("FrontSide", quarkgl.FrontSide)
	b.set("BackSide", quarkgl.BackSide)
	b.set("DoubleSide", quarkgl.DoubleSide)
	b.set("NoBlending", quarkgl.NoBlending)
	b.set("NormalBlending", quarkgl.NormalBlending)
	b.set("AdditiveBlending", quarkgl.AdditiveBlending)
	for i, name := range []string{"BasicShadowMap", "PCFShadowMap", "PCFSoftShadowMap", "VSMShadowMap"} {
		b.set(name, i)
	}
}

func (b *binder) geometryArg(args []goja.Value, i int) *quarkgl.Geometry {
	if g, ok := export(arg(args, i)).(*quarkgl.Geometry); ok && g != nil {
		return g
	}
	g := quarkgl.NewBufferGeometry()
	b.track(g)
	return g
}

func (b *binder) materialArg(args []goja.Value, i int, kind string) *quarkgl.Material {
	v := export(arg(args, i))
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	if m, ok := v.(*quarkgl.Material); ok && m != nil {
		return m
	}
	m := quarkgl.NewMaterial(kind)
	b.track(m)
	return m
}

// applyMaterial copies recognised option keys onto m. Unknown keys are ignored.
func (b *binder) applyMaterial(m *quarkgl.Material, opts goja.Value) {
	obj, ok := opts.(*goja.Object)
	if !ok {
		return
	}
	for _, key := range obj.Keys() {
		v := obj.Get(key)
		switch key {
		case "color":
			if c, ok := quarkgl.ParseColor(export(v)); ok {
				*m.Color = c
			}
		case "emissive":
			if c, ok := quarkgl.ParseColor(export(v)); ok {
				*m.Emissive = c
			}
		case "opacity":
			m.Opacity = v.ToFloat()
		case "transparent":
			m.Transparent = v.ToBoolean()
		case "wireframe":
			m.Wireframe = v.ToBoolean()
		case "vertexColors":
			m.VertexColors = v.ToBoolean()
		case "flatShading":
			m.FlatShading = v.ToBoolean()
		case "sizeAttenuation":
			m.SizeAttenuation = v.ToBoolean()
		case "depthWrite":
			m.DepthWrite = v.ToBoolean()
		case "depthTest":
			m.DepthTest = v.ToBoolean()
		case "size":
			m.Size = v.ToFloat()
		case "linewidth":
			m.Linewidth = v.ToFloat()
		case "blending":
			m.Blending = int(v.ToInteger())
		case "side":
			m.Side = int(v.ToInteger())
		case "map":
			if t, ok := export(v).(*quarkgl.Texture); ok {
				m.Map = t
			}
		}
	}
}

// floats converts a typed array, a plain array or a length into vertex data.
func (b *binder) floats(v goja.Value) []float32 {
	switch x := export(v).(type) {
	case nil:
		return nil
	case []float32:
		return x
	case []float64:
		out := make([]float32, len(x))
		for i, f := range x {
			out[i] = float32(f)
		}
		return out
	case []any:
		out := make([]float32, len(x))
		for i, e := range x {
			out[i] = float32(number(e))
		}
		return out
	case int64:
		return make([]float32, max(x, 0))
	case float64:
		return make([]float32, max(int(x), 0))
	}
	var out []float32
	if err := b.vm.ExportTo(v, &out); err != nil {
		panic(b.vm.NewTypeError("expected an array of numbers"))
	}
	return out
}

func arg(args []goja.Value, i int) goja.Value {
	if i < len(args) {
		return args[i]
	}
	return goja.Undefined()
}

func export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

// num returns argument i as a number, or def when it is missing or NaN.
func num(args []goja.Value, i int, def float64) float64 {
	v := arg(args, i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return def
	}
	f := v.ToFloat()
	if math.IsNaN(f) {
		return def
	}
	return f
}

func number(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case int:
		return float64(x)
	case float32:
		return float64(x)
	}
	return 0
}

func colorArg(args []goja.Value, i int, def int64) *quarkgl.ColorRGB {
	if c, ok := quarkgl.ParseColor(export(arg(args, i))); ok {
		return &c
	}
	return quarkgl.ColorHex(def)
}
