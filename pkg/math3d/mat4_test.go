package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func matClose(a Mat4, b mgl64.Mat4) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestLookAtMatchesMathgl(t *testing.T) {
	tests := []struct {
		name            string
		eye, center, up Vec3
	}{
		{"default camera", V3(0, 10, 20), V3(0, 10, 0), V3(0, 1, 0)},
		{"offset", V3(3, -2, 7), V3(-1, 4, 0), V3(0, 1, 0)},
		{"tilted up", V3(1, 1, 1), V3(0, 0, 0), V3(0.2, 1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := LookAt(tc.eye, tc.center, tc.up)
			want := mgl64.LookAtV(
				mgl64.Vec3{tc.eye.X, tc.eye.Y, tc.eye.Z},
				mgl64.Vec3{tc.center.X, tc.center.Y, tc.center.Z},
				mgl64.Vec3{tc.up.X, tc.up.Y, tc.up.Z}.Normalize(),
			)
			if !matClose(got, want) {
				t.Errorf("LookAt = %v, want %v", got, want)
			}
		})
	}
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	got := Perspective(Radians(60), 4.0/3.0, 0.1, 10000)
	want := mgl64.Perspective(mgl64.DegToRad(60), 4.0/3.0, 0.1, 10000)
	if !matClose(got, want) {
		t.Errorf("Perspective = %v, want %v", got, want)
	}
}

func TestRotateMatchesMathgl(t *testing.T) {
	axes := []Vec3{V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1), V3(1, 2, 3)}
	for _, axis := range axes {
		got := Rotate(axis, 0.7)
		n := axis.Normalize()
		want := mgl64.HomogRotate3D(0.7, mgl64.Vec3{n.X, n.Y, n.Z})
		if !matClose(got, want) {
			t.Errorf("Rotate(%v) = %v, want %v", axis, got, want)
		}
	}
}

func TestMulMatchesMathgl(t *testing.T) {
	a := Translate(V3(1, 2, 3)).Mul(RotateY(0.4))
	b := Scale(V3(2, 3, 4)).Mul(RotateX(-1.1))

	ma := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.HomogRotate3DY(0.4))
	mb := mgl64.Scale3D(2, 3, 4).Mul4(mgl64.HomogRotate3DX(-1.1))

	if !matClose(a.Mul(b), ma.Mul4(mb)) {
		t.Errorf("Mul mismatch: %v vs %v", a.Mul(b), ma.Mul4(mb))
	}
}

func TestInverse(t *testing.T) {
	m := Translate(V3(1, -2, 3)).Mul(RotateZ(0.3)).Mul(Scale(V3(2, 0.5, 4)))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	id := m.Mul(inv)
	want := Identity()
	for i := range id {
		if math.Abs(id[i]-want[i]) > eps {
			t.Fatalf("m * inv(m) = %v, want identity", id)
		}
	}

	if _, ok := Scale(V3(1, 0, 1)).Inverse(); ok {
		t.Error("singular matrix reported as invertible")
	}
}

func TestMulVec3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"identity", Identity(), V3(1, 2, 3), V3(1, 2, 3)},
		{"translate", Translate(V3(1, 1, 1)), V3(1, 2, 3), V3(2, 3, 4)},
		{"scale", Scale(V3(2, 3, 4)), V3(1, 1, 1), V3(2, 3, 4)},
		{"rotate y quarter", RotateY(math.Pi / 2), V3(1, 0, 0), V3(0, 0, -1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec3(tc.in)
			if got.Sub(tc.want).Len() > eps {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMulVec3DirIgnoresTranslation(t *testing.T) {
	got := Translate(V3(10, 10, 10)).MulVec3Dir(V3(0, 1, 0))
	if got != V3(0, 1, 0) {
		t.Errorf("got %v, want (0, 1, 0)", got)
	}
}

func TestProjectCenterToOrigin(t *testing.T) {
	view := LookAt(V3(0, 10, 20), V3(0, 10, 0), V3(0, 1, 0))
	proj := Perspective(Radians(60), 1, 0.1, 10000)
	ndc := proj.Mul(view).MulVec3(V3(0, 10, 0))
	if math.Abs(ndc.X) > eps || math.Abs(ndc.Y) > eps {
		t.Errorf("look-at target projected to %v, want screen center", ndc)
	}
	if ndc.Z <= -1 || ndc.Z >= 1 {
		t.Errorf("depth %v outside clip range", ndc.Z)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}
