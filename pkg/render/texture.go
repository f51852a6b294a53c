package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// FilterMode determines how texture lookups are resolved.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Truncate to the texel below the coordinate
	FilterBilinear                   // Blend the four surrounding texels
)

// ParseFilter maps "nearest" or "bilinear" to a FilterMode.
func ParseFilter(s string) (FilterMode, error) {
	switch strings.ToLower(s) {
	case "", "nearest":
		return FilterNearest, nil
	case "bilinear":
		return FilterBilinear, nil
	}
	return FilterNearest, fmt.Errorf("unknown filter %q", s)
}

// LoadTexture reads an image file into a buffer. TGA files go through the
// uncompressed TGA codec; everything else through the registered
// image decoders.
func LoadTexture(path string) (*Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return LoadTGA(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// NewCheckerTexture creates a procedural checkerboard.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Image {
	tex := NewImage(width, height)
	for y := range height {
		for x := range width {
			c := c1
			if (x/checkSize+y/checkSize)%2 != 0 {
				c = c2
			}
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// NewGradientTexture creates a horizontal gradient.
func NewGradientTexture(width, height int, left, right Color) *Image {
	tex := NewImage(width, height)
	for x := range width {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		c := lerpColor(left, right, t)
		for y := range height {
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// NewFlatNormalTexture creates a 1x1 normal map facing +Z.
func NewFlatNormalTexture() *Image {
	tex := NewImage(1, 1)
	tex.SetPixel(0, 0, ColorFlatNormal)
	return tex
}

// sampleNearest truncates uv scaled by the texture size less inset. The
// textured mode scales by the full size, the lit mode by size-1.
// Coordinates outside the texture clamp to the edge.
func sampleNearest(tex *Image, uv math3d.Vec2, inset int) Color {
	x := int(uv.X * float64(tex.Width-inset))
	y := int(uv.Y * float64(tex.Height-inset))
	return tex.PixelSafe(x, y)
}

// sampleBilinear blends the four texels around uv, clamping at the edges.
func sampleBilinear(tex *Image, uv math3d.Vec2) Color {
	fx := uv.X*float64(tex.Width) - 0.5
	fy := uv.Y*float64(tex.Height) - 0.5

	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	c00 := tex.PixelSafe(x0, y0)
	c10 := tex.PixelSafe(x0+1, y0)
	c01 := tex.PixelSafe(x0, y0+1)
	c11 := tex.PixelSafe(x0+1, y0+1)

	return lerpColor(lerpColor(c00, c10, tx), lerpColor(c01, c11, tx), ty)
}
