// Package render implements a span-table software rasterizer: pixel and
// depth buffers, edge tracing, barycentric triangle fill, shading, and a
// frame driver that projects meshes through a camera.
package render

import (
	"image"
	"image/draw"
)

// Image is a row-major color buffer with its origin at the top-left.
// Copies made with Clone share no storage with the source.
type Image struct {
	Width  int
	Height int
	Pixels []Color
}

// NewImage creates a zero-filled image.
func NewImage(width, height int) *Image {
	width, height = max(width, 0), max(height, 0)
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	out := &Image{Width: img.Width, Height: img.Height}
	out.Pixels = append([]Color(nil), img.Pixels...)
	return out
}

// Resize changes the dimensions, keeping the overlapping top-left region.
// Newly exposed pixels are zero.
func (img *Image) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == img.Width && height == img.Height {
		return
	}
	pixels := make([]Color, width*height)
	w, h := min(width, img.Width), min(height, img.Height)
	for y := range h {
		copy(pixels[y*width:y*width+w], img.Pixels[y*img.Width:y*img.Width+w])
	}
	img.Width, img.Height, img.Pixels = width, height, pixels
}

// Scale resamples the image to the new size with nearest-neighbour lookup.
func (img *Image) Scale(width, height int) {
	width, height = max(width, 0), max(height, 0)
	pixels := make([]Color, width*height)
	if len(img.Pixels) == 0 {
		img.Width, img.Height, img.Pixels = width, height, pixels
		return
	}
	for y := range height {
		sy := int(float64(img.Height) * (float64(y) / float64(height)))
		for x := range width {
			sx := int(float64(img.Width) * (float64(x) / float64(width)))
			pixels[y*width+x] = img.Pixels[sy*img.Width+sx]
		}
	}
	img.Width, img.Height, img.Pixels = width, height, pixels
}

// Fill sets every pixel to c.
func (img *Image) Fill(c Color) {
	n := len(img.Pixels)
	if n == 0 {
		return
	}
	img.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(img.Pixels[i:], img.Pixels[:i])
	}
}

// Pixel returns the color at (x, y). The coordinates must be in range.
func (img *Image) Pixel(x, y int) Color {
	return img.Pixels[y*img.Width+x]
}

// SetPixel writes the color at (x, y). The coordinates must be in range.
func (img *Image) SetPixel(x, y int, c Color) {
	img.Pixels[y*img.Width+x] = c
}

// PixelSafe returns the color at (x, y) with coordinates clamped to the
// image. An empty image yields the zero color.
func (img *Image) PixelSafe(x, y int) Color {
	if img.Width == 0 || img.Height == 0 {
		return Color{}
	}
	return img.Pixel(clampInt(x, 0, img.Width-1), clampInt(y, 0, img.Height-1))
}

// SetPixelSafe writes the color at (x, y) with coordinates clamped to the
// image.
func (img *Image) SetPixelSafe(x, y int, c Color) {
	if img.Width == 0 || img.Height == 0 {
		return
	}
	img.SetPixel(clampInt(x, 0, img.Width-1), clampInt(y, 0, img.Height-1), c)
}

// Plot writes the color at (x, y), dropping writes outside the image.
func (img *Image) Plot(x, y int, c Color) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	img.Pixels[y*img.Width+x] = c
}

// InBounds reports whether (x, y) addresses a pixel.
func (img *Image) InBounds(x, y int) bool {
	return x >= 0 && x < img.Width && y >= 0 && y < img.Height
}

// FlipX mirrors the image horizontally.
func (img *Image) FlipX() {
	for y := range img.Height {
		row := img.Pixels[y*img.Width : (y+1)*img.Width]
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
}

// FlipY mirrors the image vertically.
func (img *Image) FlipY() {
	w := img.Width
	for top, bot := 0, img.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := img.Pixels[top*w : (top+1)*w]
		b := img.Pixels[bot*w : (bot+1)*w]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// Area returns a copy of the width x height region starting at (x, y).
// Parts of the region outside the source stay zero.
func (img *Image) Area(x, y, width, height int) *Image {
	out := NewImage(width, height)
	for dy := range out.Height {
		for dx := range out.Width {
			if sx, sy := x+dx, y+dy; img.InBounds(sx, sy) {
				out.SetPixel(dx, dy, img.Pixel(sx, sy))
			}
		}
	}
	return out
}

// ToImage converts the buffer to a standard library image.
func (img *Image) ToImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, c := range img.Pixels {
		o := i * 4
		out.Pix[o+0] = c.R
		out.Pix[o+1] = c.G
		out.Pix[o+2] = c.B
		out.Pix[o+3] = c.A
	}
	return out
}

// FromImage converts any image.Image into a buffer.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	out := NewImage(b.Dx(), b.Dy())
	for i := range out.Pixels {
		o := i * 4
		out.Pixels[i] = Color{R: rgba.Pix[o], G: rgba.Pix[o+1], B: rgba.Pix[o+2], A: rgba.Pix[o+3]}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
