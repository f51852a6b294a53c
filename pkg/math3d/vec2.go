package math3d

// Vec2 is a 2-component vector, used for texture coordinates and screen
// space barycentric math.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale multiplies both components by s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns the dot product.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Weighted returns u*a + v*b + w*c, the barycentric blend of three vectors.
func Weighted(a, b, c Vec2, u, v, w float64) Vec2 {
	return Vec2{
		a.X*u + b.X*v + c.X*w,
		a.Y*u + b.Y*v + c.Y*w,
	}
}
