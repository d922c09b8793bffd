package quarkgl

import "testing"

func newTestView() (*Renderer, *RGBATarget, *Scene, *PerspectiveCamera) {
	r := NewRenderer(64, 64, true)
	t := NewRGBATarget(64, 64)
	cam := NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.Position.Set(0, 0, 5)
	return r, t, NewScene(), cam
}

func TestRenderBasicMeshCoversCenter(t *testing.T) {
	r, target, scene, cam := newTestView()
	mat := NewMaterial("MeshBasicMaterial")
	mat.Color.SetHex(0xff0000)
	mesh := NewMesh(NewBoxGeometry(2, 2, 2), mat)
	scene.Add(mesh)

	r.Render(target, scene, cam)
	if got := target.Pixel(32, 32); got != RGB(255, 0, 0) {
		t.Fatalf("center = %+v, want red", got)
	}
	if got := target.Pixel(0, 0); got != RGB(0, 0, 0) {
		t.Fatalf("corner = %+v, want clear color", got)
	}
	if r.Stats.Triangles == 0 || r.Stats.Nodes != 2 {
		t.Fatalf("stats = %+v", r.Stats)
	}

	mesh.Visible = false
	r.Render(target, scene, cam)
	if got := target.Pixel(32, 32); got != RGB(0, 0, 0) {
		t.Fatalf("hidden mesh drawn: %+v", got)
	}
}

func TestRenderLitMeshUsesDefaultLightWithoutLights(t *testing.T) {
	r, target, scene, cam := newTestView()
	scene.Add(NewMesh(NewBoxGeometry(2, 2, 2), NewMaterial("MeshStandardMaterial")))

	r.Render(target, scene, cam)
	got := target.Pixel(32, 32)
	if got.R != got.G || got.G != got.B || got.R < 100 || got.R > 220 {
		t.Fatalf("lit center = %+v", got)
	}
}

func TestRenderLitMeshDarkWithOnlyDimAmbient(t *testing.T) {
	r, target, scene, cam := newTestView()
	scene.Add(NewMesh(NewBoxGeometry(2, 2, 2), NewMaterial("MeshLambertMaterial")))
	scene.Add(NewLight(LightAmbient, ColorHex(0xffffff), 0.2))

	r.Render(target, scene, cam)
	if got := target.Pixel(32, 32); got.R > 60 {
		t.Fatalf("ambient-only center too bright: %+v", got)
	}
}

func TestRenderAdditivePoints(t *testing.T) {
	r, target, scene, cam := newTestView()
	g := NewBufferGeometry()
	g.SetAttribute("position", NewBufferAttribute([]float32{0, 0, 0, 0, 0, 0}, 3))
	mat := NewMaterial("PointsMaterial")
	mat.Color.SetRGB(0.5, 0, 0)
	mat.Size = 1
	mat.SizeAttenuation = false
	mat.Blending = AdditiveBlending
	mat.DepthTest = false
	scene.Add(NewPoints(g, mat))

	r.Render(target, scene, cam)
	if r.Stats.Points != 2 {
		t.Fatalf("points drawn = %d", r.Stats.Points)
	}
	if got := target.Pixel(32, 32); got.R < 200 {
		t.Fatalf("additive center = %+v", got)
	}
}

func TestRenderWireframeModeLeavesInteriorEmpty(t *testing.T) {
	r, target, scene, cam := newTestView()
	scene.Add(NewMesh(NewPlaneGeometry(2, 2, 1, 1), NewMaterial("MeshBasicMaterial")))
	r.SetRenderMode(RenderWireframe)

	r.Render(target, scene, cam)
	if got := target.Pixel(25, 36); got != RGB(0, 0, 0) {
		t.Fatalf("interior filled in wireframe mode: %+v", got)
	}
}

func TestRenderSkipsDisposedGeometry(t *testing.T) {
	r, target, scene, cam := newTestView()
	mesh := NewMesh(NewBoxGeometry(2, 2, 2), NewMaterial("MeshBasicMaterial"))
	mesh.Geometry.Dispose()
	scene.Add(mesh)

	r.Render(target, scene, cam)
	if r.Stats.Triangles != 0 {
		t.Fatalf("disposed geometry drawn")
	}
}

func TestRGB565TargetBlendReadsBack(t *testing.T) {
	tg := &RGB565Target{Buf: make([]byte, 4*4*2), Stride: 8, W: 4, H: 4}
	tg.SetPixel(1, 1, RGB(0, 0, 248))
	tg.Blend(1, 1, RGB(248, 0, 0), BlendAdditive)
	got := tg.Pixel(1, 1)
	if got.R < 240 || got.B < 240 {
		t.Fatalf("blended = %+v", got)
	}
}

func TestRenderSurvivesChildCycle(t *testing.T) {
	r, target, scene, cam := newTestView()
	g := NewGroup()
	mat := NewMaterial("MeshBasicMaterial")
	mat.Color.SetHex(0x00ff00)
	g.Add(NewMesh(NewBoxGeometry(2, 2, 2), mat))
	scene.Add(g)
	g.Children = append(g.Children, g)

	r.Render(target, scene, cam)
	if got := target.Pixel(32, 32); got != RGB(0, 255, 0) {
		t.Fatalf("center = %+v, want green", got)
	}
	if r.Stats.Nodes != 3 {
		t.Fatalf("nodes = %d, want 3", r.Stats.Nodes)
	}
}

func TestRenderFogFadesByDistance(t *testing.T) {
	r, target, scene, cam := newTestView()
	mat := NewMaterial("MeshBasicMaterial")
	mat.Color.SetHex(0xff0000)
	scene.Add(NewMesh(NewBoxGeometry(2, 2, 2), mat))

	scene.Fog = NewFog(0xffffff, 0, 1)
	r.Render(target, scene, cam)
	if got := target.Pixel(32, 32); got != RGB(255, 255, 255) {
		t.Fatalf("fogged center = %+v, want fog color", got)
	}

	scene.Fog = NewFogExp2(0xffffff, 0.0001)
	r.Render(target, scene, cam)
	if got := target.Pixel(32, 32); got.R != 255 || got.G > 5 {
		t.Fatalf("thin fog center = %+v, want nearly red", got)
	}

	scene.Fog = nil
	r.Render(target, scene, cam)
	if got := target.Pixel(32, 32); got != RGB(255, 0, 0) {
		t.Fatalf("center = %+v, want red", got)
	}
}
