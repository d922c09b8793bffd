package quarkgl

import (
	"math"
	"testing"
)

func TestMat4MulIdentity(t *testing.T) {
	a := Mat4Identity()
	b := Mat4Translate(V3(1, 2, 3))
	got := Mat4Mul(a, b)
	if got != b {
		t.Fatalf("identity*a mismatch")
	}
	got2 := Mat4Mul(b, a)
	if got2 != b {
		t.Fatalf("a*identity mismatch")
	}
}

func TestLookAtNotIdentity(t *testing.T) {
	m := Mat4LookAt(V3(0, 0, 3), V3(0, 0, 0), V3(0, 1, 0))
	if m == Mat4Identity() {
		t.Fatalf("lookAt unexpectedly identity")
	}
}

func TestMat4ComposeAppliesScaleThenRotationThenTranslation(t *testing.T) {
	m := Mat4Compose(V3(10, 0, 0), V3(0, 0, math.Pi/2), V3(2, 2, 2))
	p := Mat4MulPoint(m, V3(1, 0, 0))
	if absf(p.X-10) > 1e-4 || absf(p.Y-2) > 1e-4 || absf(p.Z) > 1e-4 {
		t.Fatalf("compose: got %+v, want (10,2,0)", p)
	}
}

func TestMat4MulDirIgnoresTranslation(t *testing.T) {
	d := Mat4MulDir(Mat4Translate(V3(5, 5, 5)), V3(0, 1, 0))
	if d != V3(0, 1, 0) {
		t.Fatalf("dir: got %+v", d)
	}
}

func absf(v Scalar) Scalar {
	if v < 0 {
		return -v
	}
	return v
}
