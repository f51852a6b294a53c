package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// SavePNG writes img as a PNG file.
func (img *Image) SavePNG(path string) error {
	return writeImage(path, func(f *os.File) error {
		return png.Encode(f, img.ToImage())
	})
}

// SaveWebP writes img as a lossless WebP file.
func (img *Image) SaveWebP(path string) error {
	return writeImage(path, func(f *os.File) error {
		return nativewebp.Encode(f, img.ToImage(), nil)
	})
}

// SaveSnapshot writes img to path, choosing the codec from the extension
// (.png, .webp or .tga). When width and height are positive the image is
// first resampled to that size with a Catmull-Rom filter.
func SaveSnapshot(img *Image, path string, width, height int) error {
	out := img
	if width > 0 && height > 0 && (width != img.Width || height != img.Height) {
		out = Resample(img, width, height)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return out.SavePNG(path)
	case ".webp":
		return out.SaveWebP(path)
	case ".tga":
		return out.SaveTGA(path)
	default:
		return fmt.Errorf("snapshot %s: unsupported extension %q", path, ext)
	}
}

// Resample returns a smoothly scaled copy of img.
func Resample(img *Image, width, height int) *Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := img.ToImage()
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

func writeImage(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
