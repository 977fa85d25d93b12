// Package lightwalk implements composable signed distance fields (SDFs) generic over
// scalar type, dimension and an attached payload ("state").
//
// Scenes are built from canonical primitives created by a [Builder], sized and placed
// with transformers and combined with boolean operators, all through chained [Shape] methods:
//
//	var bld lightwalk.Builder[float64]
//	s := bld.NewSphere(2).Scale(4).Translate(1, 2)
//	d := s.Distance([]float64{-2, -2}) // 1
package lightwalk

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// Flags modify the behaviour of a [Builder].
type Flags uint64

const (
	// FlagNoDimensionPanic makes the Builder accumulate construction errors instead
	// of panicking. Invalid primitives are replaced by a placeholder of the requested
	// dimension which can be transformed and combined like any other shape and
	// evaluates to NaN everywhere. Check [Builder.Err] after building a scene.
	FlagNoDimensionPanic Flags = 1 << iota
)

// Builder creates primitives over scalar type T.
// Provides error handling strategies with panics or error accumulation during shape generation.
// The zero value is ready to use and panics on invalid arguments.
type Builder[T Scalar] struct {
	flags     Flags
	accumErrs []error
}

// Flags returns the flags of the Builder.
func (bld *Builder[T]) Flags() Flags { return bld.flags }

// SetFlags sets the flags of the Builder, replacing the previous ones.
func (bld *Builder[T]) SetFlags(flags Flags) { bld.flags = flags }

// Err returns the errors accumulated while building shapes with [FlagNoDimensionPanic] set.
func (bld *Builder[T]) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors.
func (bld *Builder[T]) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder[T]) shapeErrorf(msg string, args ...any) {
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic("lightwalk: " + fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// invalid stands in for a primitive that could not be built.
type invalid[T Scalar] struct {
	dim int
}

// invalidShape returns a placeholder of dimension dim, or zero dimensional if dim is negative.
func invalidShape[T Scalar](dim int) Shape[T, NoState] {
	return Shape[T, NoState]{f: &invalid[T]{dim: max(dim, 0)}}
}

func (iv *invalid[T]) Dim() int { return iv.dim }

func (iv *invalid[T]) Distance([]T) T { return T(math.NaN()) }

func (iv *invalid[T]) State([]T) NoState { return NoState{} }

func (iv *invalid[T]) DistanceAndState(p []T) (T, NoState) { return iv.Distance(p), NoState{} }

func nilsdf(msg string) {
	panic("lightwalk: nil SDF argument: " + msg)
}

func shapePanicf(msg string, args ...any) {
	panic("lightwalk: " + fmt.Sprintf(msg, args...))
}

func mustDim(op string, want, got int) {
	if want != got {
		shapePanicf("%s: dimension mismatch, shape is %dD, argument is %dD", op, want, got)
	}
}

// The helpers below use math32 for float32 scalars so that 32 bit
// fields are not promoted to float64 during evaluation.

func sqrt[T Scalar](x T) T {
	if v, ok := any(x).(float32); ok {
		return T(math32.Sqrt(v))
	}
	return T(math.Sqrt(float64(x)))
}

func absf[T Scalar](x T) T {
	if v, ok := any(x).(float32); ok {
		return T(math32.Abs(v))
	}
	return T(math.Abs(float64(x)))
}

func sincos[T Scalar](x T) (sin, cos T) {
	if v, ok := any(x).(float32); ok {
		return T(math32.Sin(v)), T(math32.Cos(v))
	}
	s, c := math.Sincos(float64(x))
	return T(s), T(c)
}

// roundf rounds half away from zero. Exact for float32 when computed in float64.
func roundf[T Scalar](x T) T {
	return T(math.Round(float64(x)))
}

func inf[T Scalar](sign int) T {
	if _, ok := any(T(0)).(float32); ok {
		return T(math32.Inf(sign))
	}
	return T(math.Inf(sign))
}

func isNaN[T Scalar](x T) bool { return x != x }
