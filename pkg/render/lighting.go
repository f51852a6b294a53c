package render

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Material holds per-instance Phong weights.
type Material struct {
	Ambient   math3d.Vec3
	Diffuse   math3d.Vec3
	Specular  math3d.Vec3
	Shininess float64
}

// DefaultMaterial is fully reflective white with a tight highlight.
func DefaultMaterial() Material {
	return Material{
		Ambient:   math3d.Splat3(1),
		Diffuse:   math3d.Splat3(1),
		Specular:  math3d.Splat3(1),
		Shininess: 30,
	}
}

// RandomMaterial draws every weight from [0, 1) and the shininess from
// [0, 1000).
func RandomMaterial(rng *rand.Rand) Material {
	v := func() math3d.Vec3 {
		return math3d.V3(rng.Float64(), rng.Float64(), rng.Float64())
	}
	return Material{
		Ambient:   v(),
		Diffuse:   v(),
		Specular:  v(),
		Shininess: rng.Float64() * 1000,
	}
}

// Light is a single point light plus the scene ambient term.
type Light struct {
	Position math3d.Vec3
	Diffuse  math3d.Vec3
	Specular math3d.Vec3
	Ambient  math3d.Vec3
}

// DefaultLight is a white light above and to the right of the origin with
// a dim white ambient.
func DefaultLight() Light {
	return Light{
		Position: math3d.V3(50, 50, 0),
		Diffuse:  math3d.Splat3(1),
		Specular: math3d.Splat3(1),
		Ambient:  math3d.Splat3(0.1),
	}
}

// reflect mirrors i about n. The cosine is clamped to [0, 1] so light from
// behind the surface reflects as -i.
func reflect(i, n math3d.Vec3) math3d.Vec3 {
	return n.Scale(2 * math3d.Clamp(i.Dot(n), 0, 1)).Sub(i)
}

// phong evaluates the lighting equation for one fragment. tex is the
// surface color in [0, 1], n the unit normal, and l, v the unit vectors
// from the fragment to the light and to the eye.
func phong(m Material, lt Light, tex, n, l, v math3d.Vec3) math3d.Vec3 {
	r := reflect(l, n).Normalize()

	diffuse := m.Diffuse.Mul(lt.Diffuse).Mul(tex).Scale(math3d.Clamp(-l.Dot(n), 0, 1))
	specular := m.Specular.Mul(lt.Specular).Mul(tex).Scale(math.Pow(math.Max(r.Dot(v), 0), m.Shininess))
	ambient := m.Ambient.Mul(lt.Ambient).Mul(tex)

	return diffuse.Add(specular).Add(ambient)
}
