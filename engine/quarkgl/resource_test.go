package quarkgl

import "testing"

func TestLedgerReleaseDisposesOnlyLiveResources(t *testing.T) {
	l := NewLedger()
	g := NewBoxGeometry(1, 1, 1)
	m := NewMaterial("MeshBasicMaterial")
	l.Track(g)
	l.Track(m)
	l.Track(g)

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	g.Dispose()
	if l.Live() != 1 {
		t.Fatalf("Live = %d, want 1", l.Live())
	}
	if n := l.Release(); n != 1 {
		t.Fatalf("Release = %d, want 1", n)
	}
	if n := l.Release(); n != 0 {
		t.Fatalf("second Release = %d, want 0", n)
	}
	if !m.IsDisposed() {
		t.Fatalf("material not disposed")
	}
}

func TestCloneIsTrackedBySameLedger(t *testing.T) {
	l := NewLedger()
	m := NewMaterial("MeshStandardMaterial")
	l.Track(m)
	c := m.Clone()
	if c.Color == m.Color {
		t.Fatalf("clone shares color")
	}
	if l.Len() != 2 {
		t.Fatalf("clone not tracked: Len = %d", l.Len())
	}
	g := NewSphereGeometry(1, 8, 6)
	l.Track(g)
	g.Clone()
	if l.Live() != 4 {
		t.Fatalf("Live = %d, want 4", l.Live())
	}
}

func TestDisposeTreeVisitsDescendants(t *testing.T) {
	root := NewGroup()
	mat := NewMaterial("MeshBasicMaterial")
	mat.Map = NewTexture("noise.png")
	mesh := NewMesh(NewBoxGeometry(1, 1, 1), mat)
	light := NewLight(LightPoint, nil, 1)
	inner := NewGroup()
	inner.Add(mesh)
	root.Add(inner, light)

	if n := DisposeTree(root); n != 4 {
		t.Fatalf("DisposeTree = %d, want 4", n)
	}
	if !mesh.Geometry.IsDisposed() || !mat.Map.IsDisposed() || !light.IsDisposed() {
		t.Fatalf("resources left live")
	}
	if n := DisposeTree(root); n != 0 {
		t.Fatalf("second DisposeTree = %d, want 0", n)
	}
}

func TestTextureLoaderTracks(t *testing.T) {
	l := NewLedger()
	tex := NewTextureLoader(l).Load("stars.png", nil)
	if tex.Source != "stars.png" || l.Live() != 1 {
		t.Fatalf("texture not tracked")
	}
}
