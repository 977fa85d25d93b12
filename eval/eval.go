// Package eval evaluates lightwalk fields in batches over float32 vectors
// and provides helpers built on batched evaluation such as surface normals.
package eval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// SDF3 is a 3D signed distance field evaluated in batches.
type SDF3 interface {
	// Evaluate stores in dist the signed distance at each of pos.
	// dist and pos must be of same length.
	//
	// userData carries evaluation helpers such as a [VecPool].
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
	// Bounds returns a box containing the shape's surface.
	Bounds() ms3.Box
}

// SDF2 is a 2D signed distance field evaluated in batches.
type SDF2 interface {
	// Evaluate stores in dist the signed distance at each of pos.
	// dist and pos must be of same length.
	//
	// userData carries evaluation helpers such as a [VecPool].
	Evaluate(pos []ms2.Vec, dist []float32, userData any) error
	// Bounds returns a box containing the shape's surface.
	Bounds() ms2.Box
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and distance buffer length mismatch")
)

// NormalsCentralDiff stores in normals the gradient of s at each of pos approximated
// by central differences, sampling step apart along each axis. Normals are not of unit length.
// userData must provide a [VecPool], see [GetVecPool]. Each axis costs a single call to
// s.Evaluate over twice as many positions.
func NormalsCentralDiff(s SDF3, pos []ms3.Vec, normals []ms3.Vec, step float32, userData any) error {
	switch {
	case s == nil:
		return errors.New("nil SDF3")
	case !(step > 0):
		return fmt.Errorf("invalid step %v", step)
	case len(pos) != len(normals):
		return errors.New("length of position must match length of normals")
	case len(pos) == 0:
		return errEmptyBuffers
	}
	vp, err := GetVecPool(userData)
	if err != nil {
		return fmt.Errorf("VecPool required for normal calculation: %w", err)
	}
	n := len(pos)
	// First half of the buffers holds forward samples, second half backward samples.
	aux := vp.V3.Acquire(2 * n)
	dist := vp.Float.Acquire(2 * n)
	defer vp.V3.Release(aux)
	defer vp.Float.Release(dist)
	h := step / 2
	for axis, off := range [3]ms3.Vec{{X: h}, {Y: h}, {Z: h}} {
		for i, p := range pos {
			aux[i] = ms3.Add(p, off)
			aux[n+i] = ms3.Sub(p, off)
		}
		err = s.Evaluate(aux, dist, userData)
		if err != nil {
			return err
		}
		for i := range normals {
			setAxis(&normals[i], axis, dist[i]-dist[n+i])
		}
	}
	return nil
}

func setAxis(v *ms3.Vec, axis int, x float32) {
	switch axis {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
}
