// Package march implements sphere tracing (ray marching) of lightwalk fields.
package march

import (
	"errors"
	"fmt"

	"github.com/soypat/lightwalk"
)

// Ray is a half-line starting at Origin and extending in Direction.
// Direction need not be of unit length: marching advances Direction scaled by
// the distance evaluated at each step, so the distance reported by a [Collision]
// is in units of Direction's length.
type Ray[T lightwalk.Scalar] struct {
	Origin    []T
	Direction []T
}

// At returns Origin + t*Direction.
func (r Ray[T]) At(t T) []T {
	p := make([]T, len(r.Origin))
	for i := range p {
		p[i] = r.Origin[i] + t*r.Direction[i]
	}
	return p
}

// Collision is the result of a ray hitting a surface.
type Collision[T lightwalk.Scalar] struct {
	// Distance is the accumulated distance marched before reaching the surface.
	Distance T
	// Steps is the amount of field evaluations that did not conclude the march.
	Steps int
	// Point is where the march concluded, within the surface distance of the surface.
	Point []T
}

// Config bounds a march.
type Config[T lightwalk.Scalar] struct {
	// MaxDistance is the distance after which a ray is considered to have missed.
	MaxDistance T
	// SurfaceDistance is the distance below which a point is considered on the surface.
	SurfaceDistance T
	// MaxIterations is the maximum number of field evaluations per march.
	MaxIterations int
}

// Validate returns a non-nil error if the configuration can't be used to march.
func (cfg Config[T]) Validate() error {
	var errs []error
	if !(cfg.MaxDistance > 0) {
		errs = append(errs, fmt.Errorf("invalid max distance %v", cfg.MaxDistance))
	}
	if !(cfg.SurfaceDistance > 0) {
		errs = append(errs, fmt.Errorf("invalid surface distance %v", cfg.SurfaceDistance))
	}
	if cfg.MaxIterations <= 0 {
		errs = append(errs, errors.New("max iterations must be positive"))
	}
	return errors.Join(errs...)
}

// Marcher marches rays against a field. It holds no mutable state and
// may be used concurrently if the field may.
type Marcher[T lightwalk.Scalar, S any] struct {
	cfg   Config[T]
	field lightwalk.Field[T, S]
}

// NewMarcher returns a Marcher of f. cfg is validated with [Config.Validate].
func NewMarcher[T lightwalk.Scalar, S any](f lightwalk.Field[T, S], cfg Config[T]) (*Marcher[T, S], error) {
	if f == nil {
		return nil, errors.New("nil field")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Marcher[T, S]{cfg: cfg, field: f}, nil
}

// Config returns the configuration of the Marcher.
func (m *Marcher[T, S]) Config() Config[T] { return m.cfg }

// Field returns the field being marched.
func (m *Marcher[T, S]) Field() lightwalk.Field[T, S] { return m.field }

// March steps along r by the distance the field reports at each position until the
// distance falls below the surface distance, which is reported as a collision.
// The march misses if the accumulated distance exceeds the maximum distance or
// the iteration budget is exhausted. r's vectors must match the field's dimension.
func (m *Marcher[T, S]) March(r Ray[T]) (c Collision[T], hit bool) {
	dim := m.field.Dim()
	if len(r.Origin) != dim || len(r.Direction) != dim {
		panic(fmt.Sprintf("march: ray dimension (%d,%d) does not match field dimension %d", len(r.Origin), len(r.Direction), dim))
	}
	var total T
	pos := append([]T(nil), r.Origin...)
	for step := 0; step < m.cfg.MaxIterations; step++ {
		if total > m.cfg.MaxDistance {
			return Collision[T]{}, false
		}
		d := m.field.Distance(pos)
		if d < m.cfg.SurfaceDistance {
			return Collision[T]{Distance: total, Steps: step, Point: pos}, true
		}
		total += d
		for i := range pos {
			pos[i] += d * r.Direction[i]
		}
	}
	return Collision[T]{}, false
}

// MarchState is like [Marcher.March] but also returns the state of the field at the collision point.
func (m *Marcher[T, S]) MarchState(r Ray[T]) (c Collision[T], state S, hit bool) {
	c, hit = m.March(r)
	if hit {
		state = m.field.State(c.Point)
	}
	return c, state, hit
}
