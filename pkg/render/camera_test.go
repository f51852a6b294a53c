package render

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera(4.0 / 3.0)
	if c.Eye != math3d.V3(0, 10, 20) || c.Center != math3d.V3(0, 10, 0) || c.Up != math3d.V3(0, 1, 0) {
		t.Errorf("placement = %v %v %v", c.Eye, c.Center, c.Up)
	}
	if c.FOV != 60 || c.Near != 0.1 || c.Far != 10000 || c.Aspect != 4.0/3.0 {
		t.Errorf("projection = fov %v near %v far %v aspect %v", c.FOV, c.Near, c.Far, c.Aspect)
	}
}

func TestCameraProjectVector(t *testing.T) {
	c := NewCamera(1)

	tests := []struct {
		name  string
		world math3d.Vec3
		check func(ndc math3d.Vec3) bool
	}{
		{"center maps to origin", math3d.V3(0, 10, 0), func(p math3d.Vec3) bool {
			return math.Abs(p.X) < 1e-9 && math.Abs(p.Y) < 1e-9 && p.Z > -1 && p.Z < 1
		}},
		{"right of center is +x", math3d.V3(5, 10, 0), func(p math3d.Vec3) bool { return p.X > 0 && math.Abs(p.Y) < 1e-9 }},
		{"above center is +y", math3d.V3(0, 15, 0), func(p math3d.Vec3) bool { return p.Y > 0 && math.Abs(p.X) < 1e-9 }},
		{"top of view at fov edge", math3d.V3(0, 10+20*math.Tan(math.Pi/6), 0), func(p math3d.Vec3) bool {
			return math.Abs(p.Y-1) < 1e-9
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if ndc := c.ProjectVector(tc.world); !tc.check(ndc) {
				t.Errorf("ProjectVector(%v) = %v", tc.world, ndc)
			}
		})
	}
}

func TestCameraDepthOrdering(t *testing.T) {
	c := NewCamera(1)
	near := c.ProjectVector(math3d.V3(0, 10, 10))
	far := c.ProjectVector(math3d.V3(0, 10, -100))
	if near.Z >= far.Z {
		t.Errorf("near z %v not less than far z %v", near.Z, far.Z)
	}
}

func TestCameraRecomputesAfterSetters(t *testing.T) {
	c := NewCamera(1)
	before := c.ViewProjectionMatrix()

	c.LookAt(math3d.V3(5, 10, 20), c.Center, c.Up)
	if c.ViewProjectionMatrix() == before {
		t.Error("LookAt did not update the view-projection matrix")
	}

	mid := c.ViewProjectionMatrix()
	c.SetPerspective(90, 1, 0.1, 10000)
	if c.ViewProjectionMatrix() == mid {
		t.Error("SetPerspective did not update the view-projection matrix")
	}

	mid = c.ViewProjectionMatrix()
	c.SetAspect(2)
	if c.ViewProjectionMatrix() == mid {
		t.Error("SetAspect did not update the view-projection matrix")
	}

	mid = c.ViewProjectionMatrix()
	c.FOV = 30
	c.Invalidate()
	if c.ViewProjectionMatrix() == mid {
		t.Error("Invalidate did not rebuild the matrices")
	}
}

func TestCameraFrustum(t *testing.T) {
	c := NewCamera(1)
	f := c.Frustum()
	if !f.ContainsPoint(c.Center) {
		t.Error("frustum excludes the look-at target")
	}
	if f.ContainsPoint(c.Eye.Add(math3d.V3(0, 0, 5))) {
		t.Error("frustum includes a point behind the eye")
	}
}
