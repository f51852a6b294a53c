package render

import (
	"image/color"
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Color is an 8-bit RGBA color. Opaque colors carry A = 255.
type Color = color.RGBA

// Named colors.
var (
	ColorBlack   = RGB(0, 0, 0)
	ColorWhite   = RGB(255, 255, 255)
	ColorRed     = RGB(255, 0, 0)
	ColorGreen   = RGB(0, 255, 0)
	ColorBlue    = RGB(0, 0, 255)
	ColorYellow  = RGB(255, 255, 0)
	ColorCyan    = RGB(0, 255, 255)
	ColorMagenta = RGB(255, 0, 255)
	ColorGray    = RGB(128, 128, 128)

	// ColorBackground is the default frame clear color.
	ColorBackground = RGB(40, 45, 60)

	// ColorFlatNormal encodes a normal facing straight out of the surface.
	ColorFlatNormal = RGB(128, 128, 255)
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Clamp255 rounds toward zero and clamps v into [0, 255].
func Clamp255(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// ColorFromVec3 maps a [0, 1] RGB weight vector to an opaque color.
func ColorFromVec3(v math3d.Vec3) Color {
	return RGB(Clamp255(v.X*255), Clamp255(v.Y*255), Clamp255(v.Z*255))
}

// Vec3FromColor maps a color to RGB weights in [0, 1].
func Vec3FromColor(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R), float64(c.G), float64(c.B)).Scale(1.0 / 255)
}

// blend3 returns the barycentric blend c0*u + c1*v + c2*w, clamped.
func blend3(c0, c1, c2 Color, u, v, w float64) Color {
	ch := func(a, b, c uint8) uint8 {
		return Clamp255(float64(a)*u + float64(b)*v + float64(c)*w)
	}
	return Color{
		R: ch(c0.R, c1.R, c2.R),
		G: ch(c0.G, c1.G, c2.G),
		B: ch(c0.B, c1.B, c2.B),
		A: 255,
	}
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	ch := func(x, y uint8) uint8 {
		return Clamp255(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return Color{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}
