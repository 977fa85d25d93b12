package lightwalk

import (
	"golang.org/x/exp/constraints"
)

// Scalar is the constraint for the floating point types a [Field] can be evaluated over.
type Scalar interface {
	constraints.Float
}

// NoState is the payload of fields which have had no state bound to them. See [Bind].
type NoState struct{}

// Field is a signed distance field over a Dim()-dimensional space of T. Negative
// distances lie inside the shape, positive distances outside and zero on the surface.
//
// All methods must be pure functions of the point: implementations may not mutate
// themselves during evaluation so that a Field can be shared between goroutines.
// Points passed to a Field must be of length Dim() and must not be retained
// or modified by the implementation.
type Field[T Scalar, S any] interface {
	// Dim returns the dimension of the space the field is defined over.
	Dim() int
	// Distance returns the signed distance from p to the field's surface.
	Distance(p []T) T
	// State returns the payload of the sub-shape relevant at p.
	State(p []T) S
	// DistanceAndState is equivalent to calling Distance and State but
	// implementations evaluate each child at most once.
	DistanceAndState(p []T) (T, S)
}

// Gradient approximates the gradient of f at p with a forward difference of step eps
// along each axis. The result has the same length as p.
func Gradient[T Scalar, S any](f Field[T, S], p []T, eps T) []T {
	return appendGradient(make([]T, 0, len(p)), f, p, eps)
}

func appendGradient[T Scalar, S any](dst []T, f Field[T, S], p []T, eps T) []T {
	base := f.Distance(p)
	q := make([]T, len(p))
	copy(q, p)
	for i := range q {
		q[i] += eps
		dst = append(dst, (f.Distance(q)-base)/eps)
		q[i] = p[i]
	}
	return dst
}

// Normal returns the unit length gradient of f at p. If the gradient is exactly zero
// the normal is undefined: the zero gradient is returned and ok is false.
func Normal[T Scalar, S any](f Field[T, S], p []T, eps T) (n []T, ok bool) {
	n = Gradient(f, p, eps)
	norm := norm(n)
	if norm == 0 {
		return n, false
	}
	inv := 1 / norm
	for i := range n {
		n[i] *= inv
	}
	return n, true
}

// Shape is the result of every primitive, transformer and combinator in this package.
// It implements [Field] and provides chainable methods to compose fields:
//
//	s := bld.NewSphere(2).Scale(4).Translate(1, 2)
//
// The zero value is not a valid Shape and panics on evaluation.
type Shape[T Scalar, S any] struct {
	f Field[T, S]
}

// AsShape wraps f so that the chainable [Shape] methods can be used on it.
func AsShape[T Scalar, S any](f Field[T, S]) Shape[T, S] {
	if f == nil {
		nilsdf("AsShape")
	}
	return Shape[T, S]{f: unwrap(f)}
}

// unwrap avoids nesting Shapes inside of Shapes.
func unwrap[T Scalar, S any](f Field[T, S]) Field[T, S] {
	if s, ok := f.(Shape[T, S]); ok {
		return s.f
	}
	return f
}

// Field returns the underlying node of the shape.
func (s Shape[T, S]) Field() Field[T, S] { return s.f }

// IsZero reports whether s is the zero value, which is not a usable shape.
func (s Shape[T, S]) IsZero() bool { return s.f == nil }

// Dim implements [Field].
func (s Shape[T, S]) Dim() int { return s.mustField().Dim() }

// Distance implements [Field].
func (s Shape[T, S]) Distance(p []T) T { return s.mustField().Distance(p) }

// State implements [Field].
func (s Shape[T, S]) State(p []T) S { return s.mustField().State(p) }

// DistanceAndState implements [Field].
func (s Shape[T, S]) DistanceAndState(p []T) (T, S) { return s.mustField().DistanceAndState(p) }

// Gradient is shorthand for [Gradient] called on s.
func (s Shape[T, S]) Gradient(p []T, eps T) []T { return Gradient[T, S](s.mustField(), p, eps) }

// Normal is shorthand for [Normal] called on s.
func (s Shape[T, S]) Normal(p []T, eps T) ([]T, bool) { return Normal[T, S](s.mustField(), p, eps) }

func (s Shape[T, S]) mustField() Field[T, S] {
	if s.f == nil {
		panic("lightwalk: use of zero Shape")
	}
	return s.f
}

func dot[T Scalar](a, b []T) (sum T) {
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm[T Scalar](v []T) T {
	return sqrt(dot(v, v))
}
