package lightwalk

import (
	"fmt"
	"iter"
	"slices"
)

// Blender chooses the state reported by a two-child combinator given the distance
// and state of each child. It is used instead of the default rule where the state
// of the child whose distance wins is reported.
type Blender[T Scalar, S any] func(da T, sa S, db T, sb S) S

// Union joins the shape with b. The distance is min(a, b) and the state is that of the nearest
// child; on ties the receiver's state is reported. Is exact outside of the shapes.
func (s Shape[T, S]) Union(b Field[T, S]) Shape[T, S] {
	a, b := binaryArgs("Union", s, b)
	return Shape[T, S]{f: &union[T, S]{a: a, b: b}}
}

// UnionBlend is like [Shape.Union] but the reported state is chosen by blend.
func (s Shape[T, S]) UnionBlend(b Field[T, S], blend Blender[T, S]) Shape[T, S] {
	a, b := binaryArgs("UnionBlend", s, b)
	if blend == nil {
		nilsdf("UnionBlend blender")
	}
	return Shape[T, S]{f: &union[T, S]{a: a, b: b, blend: blend}}
}

type union[T Scalar, S any] struct {
	a, b  Field[T, S]
	blend Blender[T, S]
}

func (u *union[T, S]) Dim() int { return u.a.Dim() }

func (u *union[T, S]) Distance(p []T) T { return min(u.a.Distance(p), u.b.Distance(p)) }

func (u *union[T, S]) State(p []T) S {
	_, st := u.DistanceAndState(p)
	return st
}

func (u *union[T, S]) DistanceAndState(p []T) (T, S) {
	da, sa := u.a.DistanceAndState(p)
	db, sb := u.b.DistanceAndState(p)
	d := min(da, db)
	if u.blend != nil {
		return d, u.blend(da, sa, db, sb)
	}
	if da <= db {
		return da, sa
	}
	return db, sb
}

// Intersection keeps the region common to the shape and b. The distance is max(a, b) and the
// state is that of the farthest child; on ties the receiver's state is reported.
// Does not produce an exact SDF outside of the shape.
func (s Shape[T, S]) Intersection(b Field[T, S]) Shape[T, S] {
	a, b := binaryArgs("Intersection", s, b)
	return Shape[T, S]{f: &intersect[T, S]{a: a, b: b}}
}

// IntersectionBlend is like [Shape.Intersection] but the reported state is chosen by blend.
func (s Shape[T, S]) IntersectionBlend(b Field[T, S], blend Blender[T, S]) Shape[T, S] {
	a, b := binaryArgs("IntersectionBlend", s, b)
	if blend == nil {
		nilsdf("IntersectionBlend blender")
	}
	return Shape[T, S]{f: &intersect[T, S]{a: a, b: b, blend: blend}}
}

type intersect[T Scalar, S any] struct {
	a, b  Field[T, S]
	blend Blender[T, S]
}

func (u *intersect[T, S]) Dim() int { return u.a.Dim() }

func (u *intersect[T, S]) Distance(p []T) T { return max(u.a.Distance(p), u.b.Distance(p)) }

func (u *intersect[T, S]) State(p []T) S {
	_, st := u.DistanceAndState(p)
	return st
}

func (u *intersect[T, S]) DistanceAndState(p []T) (T, S) {
	da, sa := u.a.DistanceAndState(p)
	db, sb := u.b.DistanceAndState(p)
	d := max(da, db)
	if u.blend != nil {
		return d, u.blend(da, sa, db, sb)
	}
	if da >= db {
		return da, sa
	}
	return db, sb
}

// Difference removes b from the shape. It is the intersection of the shape with the inverse of b:
// the distance is max(a, -b) and the state is the receiver's where a > -b, else b's.
// Does not produce an exact SDF.
func (s Shape[T, S]) Difference(b Field[T, S]) Shape[T, S] {
	a, b := binaryArgs("Difference", s, b)
	return Shape[T, S]{f: &diff[T, S]{a: a, b: b}}
}

type diff[T Scalar, S any] struct {
	a, b Field[T, S] // Performs a-b.
}

func (u *diff[T, S]) Dim() int { return u.a.Dim() }

func (u *diff[T, S]) Distance(p []T) T { return max(u.a.Distance(p), -u.b.Distance(p)) }

func (u *diff[T, S]) State(p []T) S {
	_, st := u.DistanceAndState(p)
	return st
}

func (u *diff[T, S]) DistanceAndState(p []T) (T, S) {
	da, sa := u.a.DistanceAndState(p)
	db, sb := u.b.DistanceAndState(p)
	if da > -db {
		return da, sa
	}
	return -db, sb
}

func binaryArgs[T Scalar, S any](op string, s Shape[T, S], b Field[T, S]) (Field[T, S], Field[T, S]) {
	if s.f == nil || b == nil {
		nilsdf(op)
	}
	b = unwrap(b)
	if b == nil {
		nilsdf(op)
	}
	mustDim(op, s.f.Dim(), b.Dim())
	return s.f, b
}

// UnionAll joins all fields. The state reported is that of the nearest field, the
// earliest in the argument list winning ties.
// An empty union has no dimension, evaluates to +Inf everywhere and panics
// if its state is requested.
func UnionAll[T Scalar, S any](fields ...Field[T, S]) Shape[T, S] {
	dim := 0
	if len(fields) > 0 {
		dim = fieldDim("UnionAll", fields[0])
	}
	joined := make([]Field[T, S], len(fields))
	for i, f := range fields {
		joined[i] = checkChild("UnionAll", dim, i, f)
	}
	return Shape[T, S]{f: &unionN[T, S]{dim: dim, seq: slices.Values(joined)}}
}

// UnionSeq joins all fields yielded by seq, which must be restartable since it is
// traversed on every evaluation. All fields must be of dimension dim.
// seq is traversed once on construction to check dimensions.
// See [UnionAll] for the behaviour of an empty sequence.
func UnionSeq[T Scalar, S any](dim int, seq iter.Seq[Field[T, S]]) Shape[T, S] {
	checkSeq("UnionSeq", dim, seq)
	return Shape[T, S]{f: &unionN[T, S]{dim: dim, seq: seq}}
}

// unionN is the n-ary union over a restartable sequence of fields.
type unionN[T Scalar, S any] struct {
	dim int
	seq iter.Seq[Field[T, S]]
}

func (u *unionN[T, S]) Dim() int { return u.dim }

func (u *unionN[T, S]) Distance(p []T) T {
	d := inf[T](1)
	for f := range u.seq {
		d = min(d, f.Distance(p))
	}
	return d
}

func (u *unionN[T, S]) State(p []T) S {
	_, st := u.DistanceAndState(p)
	return st
}

func (u *unionN[T, S]) DistanceAndState(p []T) (d T, st S) {
	first := true
	for f := range u.seq {
		df, sf := f.DistanceAndState(p)
		if first || df < d {
			d, st = df, sf
			first = false
		}
	}
	if first {
		panic("lightwalk: state of empty union")
	}
	return d, st
}

// IntersectionAll intersects all fields. The state reported is that of the farthest field, the
// earliest in the argument list winning ties.
// An empty intersection has no dimension, evaluates to -Inf everywhere and panics
// if its state is requested.
func IntersectionAll[T Scalar, S any](fields ...Field[T, S]) Shape[T, S] {
	dim := 0
	if len(fields) > 0 {
		dim = fieldDim("IntersectionAll", fields[0])
	}
	joined := make([]Field[T, S], len(fields))
	for i, f := range fields {
		joined[i] = checkChild("IntersectionAll", dim, i, f)
	}
	return Shape[T, S]{f: &intersectN[T, S]{dim: dim, seq: slices.Values(joined)}}
}

// IntersectionSeq intersects all fields yielded by seq, which must be restartable since it is
// traversed on every evaluation. All fields must be of dimension dim.
// See [IntersectionAll] for the behaviour of an empty sequence.
func IntersectionSeq[T Scalar, S any](dim int, seq iter.Seq[Field[T, S]]) Shape[T, S] {
	checkSeq("IntersectionSeq", dim, seq)
	return Shape[T, S]{f: &intersectN[T, S]{dim: dim, seq: seq}}
}

type intersectN[T Scalar, S any] struct {
	dim int
	seq iter.Seq[Field[T, S]]
}

func (u *intersectN[T, S]) Dim() int { return u.dim }

func (u *intersectN[T, S]) Distance(p []T) T {
	d := inf[T](-1)
	for f := range u.seq {
		d = max(d, f.Distance(p))
	}
	return d
}

func (u *intersectN[T, S]) State(p []T) S {
	_, st := u.DistanceAndState(p)
	return st
}

func (u *intersectN[T, S]) DistanceAndState(p []T) (d T, st S) {
	first := true
	for f := range u.seq {
		df, sf := f.DistanceAndState(p)
		if first || df > d {
			d, st = df, sf
			first = false
		}
	}
	if first {
		panic("lightwalk: state of empty intersection")
	}
	return d, st
}

func fieldDim[T Scalar, S any](op string, f Field[T, S]) int {
	if f == nil {
		nilsdf(op + " arg[0]")
	}
	return f.Dim()
}

func checkChild[T Scalar, S any](op string, dim, i int, f Field[T, S]) Field[T, S] {
	if f == nil {
		nilsdf(fmt.Sprintf("%s arg[%d]", op, i))
	}
	f = unwrap(f)
	if f == nil {
		nilsdf(fmt.Sprintf("%s arg[%d]", op, i))
	}
	mustDim(fmt.Sprintf("%s arg[%d]", op, i), dim, f.Dim())
	return f
}

func checkSeq[T Scalar, S any](op string, dim int, seq iter.Seq[Field[T, S]]) {
	if seq == nil {
		nilsdf(op + " sequence")
	}
	if dim < 0 {
		shapePanicf("%s: negative dimension %d", op, dim)
	}
	i := 0
	for f := range seq {
		checkChild(op, dim, i, f)
		i++
	}
}
