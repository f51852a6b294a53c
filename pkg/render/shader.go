package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Mode selects how the frame driver draws each triangle.
type Mode int

const (
	ModeWireframe   Mode = iota + 1 // White edges, no fill, no depth test
	ModeBarycentric                 // Vertex colors blended by weight
	ModeTextured                    // Nearest-neighbour texture lookup
	ModePhong                       // Texture lit per pixel from a normal map
)

var modeNames = map[Mode]string{
	ModeWireframe:   "wireframe",
	ModeBarycentric: "barycentric",
	ModeTextured:    "textured",
	ModePhong:       "phong",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m names a drawing mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode accepts a mode number (1-4) or name.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if m := Mode(n); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("unknown mode %d (want 1-4)", n)
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Fragment is a covered pixel that passed the depth test.
type Fragment struct {
	X, Y    int
	Z       float64
	U, V, W float64     // Barycentric weights of vertices 0, 1 and 2
	UV      math3d.Vec2 // Interpolated texture coordinate
}

// Shader computes the color of a fragment. Implementations must be safe
// for concurrent use when the fill runs with several workers.
type Shader interface {
	Shade(f Fragment) Color
}

// SolidShader fills with a single color.
type SolidShader struct {
	Color Color
}

func (s SolidShader) Shade(Fragment) Color {
	return s.Color
}

// BarycentricShader blends one color per vertex by the fragment weights.
type BarycentricShader struct {
	C0, C1, C2 Color
}

// DebugShader colors vertices red, blue and green.
func DebugShader() BarycentricShader {
	return BarycentricShader{C0: ColorRed, C1: ColorBlue, C2: ColorGreen}
}

func (s BarycentricShader) Shade(f Fragment) Color {
	return blend3(s.C0, s.C1, s.C2, f.U, f.V, f.W)
}

// TextureShader looks up the texel under the interpolated coordinate.
type TextureShader struct {
	Texture *Image
	Filter  FilterMode
}

func (s TextureShader) Shade(f Fragment) Color {
	if s.Filter == FilterBilinear {
		return sampleBilinear(s.Texture, f.UV)
	}
	return sampleNearest(s.Texture, f.UV, 0)
}

// PhongShader lights a color texture per pixel using normals read from a
// second texture. The normal texel is normalized as is, without remapping
// to [-1, 1]. Positions are in screen space: the fragment sits at
// (x, y, z) and Eye and Light.Position are compared against it directly.
type PhongShader struct {
	Color    *Image
	Normal   *Image
	Material Material
	Light    Light
	Eye      math3d.Vec3
}

func (s PhongShader) Shade(f Fragment) Color {
	tex := Vec3FromColor(sampleNearest(s.Color, f.UV, 1))
	n := Vec3FromColor(sampleNearest(s.Normal, f.UV, 1)).Normalize()

	p := math3d.V3(float64(f.X), float64(f.Y), f.Z)
	l := s.Light.Position.Sub(p).Normalize()
	v := s.Eye.Sub(p).Normalize()

	return ColorFromVec3(phong(s.Material, s.Light, tex, n, l, v))
}
