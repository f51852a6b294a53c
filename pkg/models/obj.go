package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// ErrBadIndex is returned for face references outside the declared data.
var ErrBadIndex = errors.New("obj: index out of range")

// OBJStats counts what ParseOBJ read and skipped.
type OBJStats struct {
	Lines        int
	Faces        int
	SkippedFaces int // Faces with more or fewer than three vertices
}

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, OBJStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OBJStats{}, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	m, stats, err := ParseOBJ(f)
	if err != nil {
		return nil, stats, fmt.Errorf("load %s: %w", path, err)
	}
	m.Name = filepath.Base(path)
	return m, stats, nil
}

// ParseOBJ reads v, vt, vn and f statements. Faces accept the a, a/b,
// a//c and a/b/c forms with 1-based or negative indices. Texture V is
// flipped so V=0 addresses the top row of a decoded texture. Only
// triangles are kept. Other statements are ignored. Normals are
// generated when the file has none.
func ParseOBJ(r io.Reader) (*Mesh, OBJStats, error) {
	var (
		stats     OBJStats
		positions []math3d.Vec3
		texcoords []math3d.Vec2
		normals   []math3d.Vec3
		mesh      = NewMesh("")
		seen      = make(map[[3]int]int)
	)

	vertex := func(ref string) (int, error) {
		key, err := parseFaceRef(ref, len(positions), len(texcoords), len(normals))
		if err != nil {
			return 0, err
		}
		if i, ok := seen[key]; ok {
			return i, nil
		}
		v := MeshVertex{Position: positions[key[0]]}
		if key[1] >= 0 {
			v.UV = texcoords[key[1]]
		}
		if key[2] >= 0 {
			v.Normal = normals[key[2]]
		}
		mesh.Vertices = append(mesh.Vertices, v)
		seen[key] = len(mesh.Vertices) - 1
		return len(mesh.Vertices) - 1, nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		stats.Lines++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, stats, fmt.Errorf("line %d: %w", stats.Lines, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))
		case "vt":
			t, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, stats, fmt.Errorf("line %d: %w", stats.Lines, err)
			}
			texcoords = append(texcoords, math3d.V2(t[0], 1-t[1]))
		case "vn":
			n, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, stats, fmt.Errorf("line %d: %w", stats.Lines, err)
			}
			normals = append(normals, math3d.V3(n[0], n[1], n[2]))
		case "f":
			if len(fields) != 4 {
				stats.SkippedFaces++
				continue
			}
			var face Face
			face.Material = -1
			for k, ref := range fields[1:] {
				vi, err := vertex(ref)
				if err != nil {
					return nil, stats, fmt.Errorf("line %d: %w", stats.Lines, err)
				}
				face.V[k] = vi
			}
			mesh.Faces = append(mesh.Faces, face)
			stats.Faces++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("read obj: %w", err)
	}

	if !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, stats, nil
}

// parseFloats parses the first n fields. Extra fields (such as a w
// component) are ignored.
func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFaceRef resolves "p", "p/t", "p//n" or "p/t/n" into zero-based
// indices. Missing parts are -1.
func parseFaceRef(ref string, np, nt, nn int) ([3]int, error) {
	key := [3]int{-1, -1, -1}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 || parts[0] == "" {
		return key, fmt.Errorf("bad face vertex %q", ref)
	}
	counts := [3]int{np, nt, nn}
	for i, s := range parts {
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return key, fmt.Errorf("bad face vertex %q: %w", ref, err)
		}
		idx, err := resolveIndex(n, counts[i])
		if err != nil {
			return key, fmt.Errorf("face vertex %q: %w", ref, err)
		}
		key[i] = idx
	}
	return key, nil
}

func resolveIndex(n, count int) (int, error) {
	idx := n - 1
	if n < 0 {
		idx = count + n
	}
	if n == 0 || idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d of %d", ErrBadIndex, n, count)
	}
	return idx, nil
}
