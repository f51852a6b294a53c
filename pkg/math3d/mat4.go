package math3d

import "math"

// Mat4 is a 4x4 matrix in column-major order: element (row, col) lives at
// index row+col*4, translation at 12, 13, 14.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a non-uniform scale by v.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// RotateX returns a rotation of angle radians around +X.
func RotateX(angle float64) Mat4 {
	return Rotate(V3(1, 0, 0), angle)
}

// RotateY returns a rotation of angle radians around +Y.
func RotateY(angle float64) Mat4 {
	return Rotate(V3(0, 1, 0), angle)
}

// RotateZ returns a rotation of angle radians around +Z.
func RotateZ(angle float64) Mat4 {
	return Rotate(V3(0, 0, 1), angle)
}

// Rotate returns a right-handed rotation of angle radians around axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	a := axis.Normalize()
	s, c := math.Sincos(angle)
	t := 1 - c

	return Mat4{
		t*a.X*a.X + c, t*a.X*a.Y + s*a.Z, t*a.X*a.Z - s*a.Y, 0,
		t*a.X*a.Y - s*a.Z, t*a.Y*a.Y + c, t*a.Y*a.Z + s*a.X, 0,
		t*a.X*a.Z + s*a.Y, t*a.Y*a.Z - s*a.X, t*a.Z*a.Z + c, 0,
		0, 0, 0, 1,
	}
}

// LookAt returns a right-handed view matrix for a camera at eye looking at
// center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective returns an OpenGL style projection. fovy is in radians and
// depth maps to [-1, 1] between near and far.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// At returns the element at (row, col).
func (m Mat4) At(row, col int) float64 {
	return m[row+col*4]
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += m[row+k*4] * n[k+col*4]
			}
			out[row+col*4] = sum
		}
	}
	return out
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a point and applies the perspective divide.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).PerspectiveDivide()
}

// MulVec3Dir transforms a direction, ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(Vec4{v.X, v.Y, v.Z, 0}).XYZ()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for row := range 4 {
		for col := range 4 {
			out[col+row*4] = m[row+col*4]
		}
	}
	return out
}

// Inverse returns the inverse of m using Gauss-Jordan elimination with
// partial pivoting. The second result is false when m is singular, in which
// case the identity is returned.
func (m Mat4) Inverse() (Mat4, bool) {
	a := m
	inv := Identity()

	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a.At(row, col)) > math.Abs(a.At(pivot, col)) {
				pivot = row
			}
		}
		if a.At(pivot, col) == 0 {
			return Identity(), false
		}
		if pivot != col {
			a.swapRows(pivot, col)
			inv.swapRows(pivot, col)
		}

		p := 1 / a.At(col, col)
		a.scaleRow(col, p)
		inv.scaleRow(col, p)

		for row := range 4 {
			if row == col {
				continue
			}
			f := a.At(row, col)
			if f == 0 {
				continue
			}
			a.subRow(row, col, f)
			inv.subRow(row, col, f)
		}
	}
	return inv, true
}

func (m *Mat4) swapRows(r1, r2 int) {
	for col := range 4 {
		m[r1+col*4], m[r2+col*4] = m[r2+col*4], m[r1+col*4]
	}
}

func (m *Mat4) scaleRow(r int, s float64) {
	for col := range 4 {
		m[r+col*4] *= s
	}
}

// subRow subtracts f times row src from row dst.
func (m *Mat4) subRow(dst, src int, f float64) {
	for col := range 4 {
		m[dst+col*4] -= f * m[src+col*4]
	}
}
