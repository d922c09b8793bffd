package quarkgl

import (
	"math"
	"testing"
)

func TestOrbitKeepsProgramPlacedCamera(t *testing.T) {
	cam := NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.Position.Set(0, 3, 4)
	c := &OrbitController{Damping: 0.1}
	c.Update(cam)
	if cam.Position.DistanceTo(NewVector3(0, 3, 4)) > 1e-4 {
		t.Fatalf("idle update moved camera to %+v", cam.Position)
	}
	if cam.Target() != (Vec3{}) {
		t.Fatalf("target = %+v", cam.Target())
	}
}

func TestOrbitRotatePreservesRadiusAndDamps(t *testing.T) {
	cam := NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.Position.Set(0, 0, 5)
	c := &OrbitController{Damping: 0.5}
	c.Rotate(math.Pi/2, 0)
	c.Update(cam)
	if math.Abs(cam.Position.Length()-5) > 1e-3 {
		t.Fatalf("radius = %v", cam.Position.Length())
	}
	if math.Abs(cam.Position.X-5) > 1e-3 {
		t.Fatalf("position = %+v, want on +X", cam.Position)
	}
	if !c.Moving() {
		t.Fatalf("damping removed all velocity")
	}
	for i := 0; i < 100; i++ {
		c.Update(cam)
	}
	if c.Moving() {
		t.Fatalf("velocity never decayed")
	}
}

func TestOrbitZoomClamps(t *testing.T) {
	cam := NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.Position.Set(0, 0, 5)
	c := &OrbitController{MinRadius: 2, MaxRadius: 10}
	c.Zoom(-100)
	c.Update(cam)
	if math.Abs(cam.Position.Length()-2) > 1e-3 {
		t.Fatalf("radius = %v, want 2", cam.Position.Length())
	}
}
