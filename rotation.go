package lightwalk

// Rotate2D rotates a 2D shape counter-clockwise by radians around the origin. Is exact.
func (s Shape[T, S]) Rotate2D(radians T) Shape[T, S] {
	f := s.mustField()
	mustDim("Rotate2D", 2, f.Dim())
	sin, cos := sincos(radians)
	return Shape[T, S]{f: &rotate2D[T, S]{f: f, sin: sin, cos: cos}}
}

type rotate2D[T Scalar, S any] struct {
	f Field[T, S]
	// Trigonometry is done once on construction.
	sin, cos T
}

func (r *rotate2D[T, S]) Dim() int { return 2 }

// point applies the inverse rotation.
func (r *rotate2D[T, S]) point(p []T) []T {
	return []T{
		r.cos*p[0] + r.sin*p[1],
		-r.sin*p[0] + r.cos*p[1],
	}
}

func (r *rotate2D[T, S]) Distance(p []T) T { return r.f.Distance(r.point(p)) }

func (r *rotate2D[T, S]) State(p []T) S { return r.f.State(r.point(p)) }

func (r *rotate2D[T, S]) DistanceAndState(p []T) (T, S) { return r.f.DistanceAndState(r.point(p)) }

// Rotate3D rotates a 3D shape around the origin by the rotation the quaternion q represents.
// q need not be of unit length but must not be zero. Is exact.
func (s Shape[T, S]) Rotate3D(q Quat[T]) Shape[T, S] {
	f := s.mustField()
	mustDim("Rotate3D", 3, f.Dim())
	if q.Norm() == 0 {
		shapePanicf("Rotate3D: zero quaternion")
	}
	return Shape[T, S]{f: &rotate3D[T, S]{f: f, inv: q.Unit().Conjugate()}}
}

type rotate3D[T Scalar, S any] struct {
	f   Field[T, S]
	inv Quat[T] // Unit length inverse rotation.
}

func (r *rotate3D[T, S]) Dim() int { return 3 }

func (r *rotate3D[T, S]) point(p []T) []T {
	v := r.inv.Rotate([3]T{p[0], p[1], p[2]})
	return v[:]
}

func (r *rotate3D[T, S]) Distance(p []T) T { return r.f.Distance(r.point(p)) }

func (r *rotate3D[T, S]) State(p []T) S { return r.f.State(r.point(p)) }

func (r *rotate3D[T, S]) DistanceAndState(p []T) (T, S) { return r.f.DistanceAndState(r.point(p)) }

// Quat is a quaternion W + X*i + Y*j + Z*k used to represent 3D rotations.
type Quat[T Scalar] struct {
	W, X, Y, Z T
}

// QuatFromAxisAngle returns the unit quaternion rotating counter-clockwise by radians around axis.
// It panics if axis is the zero vector.
func QuatFromAxisAngle[T Scalar](axis [3]T, radians T) Quat[T] {
	unit, ok := normalized(axis[:])
	if !ok {
		shapePanicf("QuatFromAxisAngle: null axis vector")
	}
	sin, cos := sincos(radians / 2)
	return Quat[T]{W: cos, X: unit[0] * sin, Y: unit[1] * sin, Z: unit[2] * sin}
}

// Norm returns the euclidean norm of q.
func (q Quat[T]) Norm() T {
	return sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Unit returns q scaled to unit length. The zero quaternion yields NaN components.
func (q Quat[T]) Unit() Quat[T] {
	inv := 1 / q.Norm()
	return Quat[T]{W: q.W * inv, X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv}
}

// Conjugate returns the conjugate of q, which is its inverse for unit quaternions.
func (q Quat[T]) Conjugate() Quat[T] {
	return Quat[T]{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Inverse returns the multiplicative inverse of q.
func (q Quat[T]) Inverse() Quat[T] {
	n2 := q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
	c := q.Conjugate()
	return Quat[T]{W: c.W / n2, X: c.X / n2, Y: c.Y / n2, Z: c.Z / n2}
}

// Mul returns the Hamilton product q*r, which applies rotation r and then q.
func (q Quat[T]) Mul(r Quat[T]) Quat[T] {
	return Quat[T]{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Rotate rotates v by q. q must be of unit length.
func (q Quat[T]) Rotate(v [3]T) [3]T {
	// v' = v + w*t + u x t where t = 2 * u x v and u is the vector part of q.
	u := [3]T{q.X, q.Y, q.Z}
	t := cross(u, v)
	for i := range t {
		t[i] *= 2
	}
	c := cross(u, t)
	return [3]T{
		v[0] + q.W*t[0] + c[0],
		v[1] + q.W*t[1] + c[1],
		v[2] + q.W*t[2] + c[2],
	}
}

func cross[T Scalar](a, b [3]T) [3]T {
	return [3]T{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
