package render

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnsupportedFormat is returned for TGA files other than uncompressed
// 24 or 32 bit true-color images.
var ErrUnsupportedFormat = errors.New("tga: unsupported format")

// tgaPrefix is the fixed start of an uncompressed true-color TGA without
// an image ID or color map.
var tgaPrefix = [12]byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0}

// tgaOriginTop is the descriptor bit marking rows stored top to bottom.
const tgaOriginTop = 0x20

type tgaHeader struct {
	Width      uint16
	Height     uint16
	BPP        uint8
	Descriptor uint8
}

// DecodeTGA reads an uncompressed 24 or 32 bit TGA image. Alpha is
// discarded. Rows are returned top to bottom.
func DecodeTGA(r io.Reader) (*Image, error) {
	var prefix [12]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("tga: read header: %w", err)
	}
	if prefix != tgaPrefix {
		return nil, fmt.Errorf("%w: image type %d", ErrUnsupportedFormat, prefix[2])
	}

	var h tgaHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("tga: read header: %w", err)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedFormat)
	}
	if h.BPP != 24 && h.BPP != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, h.BPP)
	}

	w, ht := int(h.Width), int(h.Height)
	bpp := int(h.BPP) / 8
	data := make([]byte, w*ht*bpp)
	if _, err := io.ReadFull(r, data); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("tga: read pixels: %w", err)
	}

	img := NewImage(w, ht)
	topDown := h.Descriptor&tgaOriginTop != 0
	for y := range ht {
		dy := ht - y - 1
		if topDown {
			dy = y
		}
		for x := range w {
			p := (y*w + x) * bpp
			img.SetPixel(x, dy, RGB(data[p+2], data[p+1], data[p]))
		}
	}
	return img, nil
}

// EncodeTGA writes img as an uncompressed 24 bit TGA with rows stored
// bottom to top.
func EncodeTGA(w io.Writer, img *Image) error {
	if img.Width <= 0 || img.Height <= 0 || img.Width > 0xFFFF || img.Height > 0xFFFF {
		return fmt.Errorf("%w: cannot store %dx%d", ErrUnsupportedFormat, img.Width, img.Height)
	}

	var buf bytes.Buffer
	buf.Grow(18 + img.Width*img.Height*3)
	buf.Write(tgaPrefix[:])
	h := tgaHeader{Width: uint16(img.Width), Height: uint16(img.Height), BPP: 24}
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return err
	}

	for y := img.Height - 1; y >= 0; y-- {
		for x := range img.Width {
			c := img.Pixel(x, y)
			buf.Write([]byte{c.B, c.G, c.R})
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// LoadTGA reads a TGA file from disk.
func LoadTGA(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tga: %w", err)
	}
	defer f.Close()

	img, err := DecodeTGA(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// LoadTGA replaces the contents of img with the TGA file at path. On error
// img is left unchanged.
func (img *Image) LoadTGA(path string) error {
	loaded, err := LoadTGA(path)
	if err != nil {
		return err
	}
	*img = *loaded
	return nil
}

// SaveTGA writes img to path as a 24 bit TGA.
func (img *Image) SaveTGA(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tga: %w", err)
	}
	if err := EncodeTGA(f, img); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
