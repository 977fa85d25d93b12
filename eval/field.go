package eval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/lightwalk"
)

// FieldSDF3 adapts a 3D float32 [lightwalk.Field] to the [SDF3] interface.
// Fields carry no bounds so they are supplied on construction.
type FieldSDF3[S any] struct {
	f  lightwalk.Field[float32, S]
	bb ms3.Box
	vp VecPool
}

// NewSDF3 returns an [SDF3] evaluating f within bounds. f must be 3 dimensional.
func NewSDF3[S any](f lightwalk.Field[float32, S], bounds ms3.Box) (*FieldSDF3[S], error) {
	if f == nil {
		return nil, errors.New("nil field")
	} else if f.Dim() != 3 {
		return nil, fmt.Errorf("want 3D field, got %dD", f.Dim())
	}
	sz := ms3.Sub(bounds.Max, bounds.Min)
	if !(sz.X > 0 && sz.Y > 0 && sz.Z > 0) {
		return nil, fmt.Errorf("invalid bounds %v", bounds)
	}
	return &FieldSDF3[S]{f: f, bb: bounds}, nil
}

// Evaluate implements [SDF3]. userData is not used.
func (s *FieldSDF3[S]) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	var p [3]float32
	for i, v := range pos {
		p = [3]float32{v.X, v.Y, v.Z}
		dist[i] = s.f.Distance(p[:])
	}
	return nil
}

// EvaluateState is like Evaluate but also stores the state of the field at each position in states.
func (s *FieldSDF3[S]) EvaluateState(pos []ms3.Vec, dist []float32, states []S) error {
	if len(pos) != len(dist) || len(pos) != len(states) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	var p [3]float32
	for i, v := range pos {
		p = [3]float32{v.X, v.Y, v.Z}
		dist[i], states[i] = s.f.DistanceAndState(p[:])
	}
	return nil
}

// Bounds implements [SDF3].
func (s *FieldSDF3[S]) Bounds() ms3.Box { return s.bb }

// Field returns the adapted field.
func (s *FieldSDF3[S]) Field() lightwalk.Field[float32, S] { return s.f }

// VecPool returns the buffer pool owned by the SDF so that it may be passed
// around as userData. See [GetVecPool].
func (s *FieldSDF3[S]) VecPool() *VecPool { return &s.vp }

// FieldSDF2 adapts a 2D float32 [lightwalk.Field] to the [SDF2] interface.
type FieldSDF2[S any] struct {
	f  lightwalk.Field[float32, S]
	bb ms2.Box
	vp VecPool
}

// NewSDF2 returns an [SDF2] evaluating f within bounds. f must be 2 dimensional.
func NewSDF2[S any](f lightwalk.Field[float32, S], bounds ms2.Box) (*FieldSDF2[S], error) {
	if f == nil {
		return nil, errors.New("nil field")
	} else if f.Dim() != 2 {
		return nil, fmt.Errorf("want 2D field, got %dD", f.Dim())
	}
	if !(bounds.Max.X > bounds.Min.X && bounds.Max.Y > bounds.Min.Y) {
		return nil, fmt.Errorf("invalid bounds %v", bounds)
	}
	return &FieldSDF2[S]{f: f, bb: bounds}, nil
}

// Evaluate implements [SDF2]. userData is not used.
func (s *FieldSDF2[S]) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	var p [2]float32
	for i, v := range pos {
		p = [2]float32{v.X, v.Y}
		dist[i] = s.f.Distance(p[:])
	}
	return nil
}

// EvaluateState is like Evaluate but also stores the state of the field at each position in states.
func (s *FieldSDF2[S]) EvaluateState(pos []ms2.Vec, dist []float32, states []S) error {
	if len(pos) != len(dist) || len(pos) != len(states) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	var p [2]float32
	for i, v := range pos {
		p = [2]float32{v.X, v.Y}
		dist[i], states[i] = s.f.DistanceAndState(p[:])
	}
	return nil
}

// Bounds implements [SDF2].
func (s *FieldSDF2[S]) Bounds() ms2.Box { return s.bb }

// Field returns the adapted field.
func (s *FieldSDF2[S]) Field() lightwalk.Field[float32, S] { return s.f }

// VecPool returns the buffer pool owned by the SDF. See [GetVecPool].
func (s *FieldSDF2[S]) VecPool() *VecPool { return &s.vp }
