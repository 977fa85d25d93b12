package lightwalk

import (
	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Point2 converts v to a point for evaluating 2D float32 fields.
func Point2(v ms2.Vec) []float32 { return []float32{v.X, v.Y} }

// Point3 converts v to a point for evaluating 3D float32 fields.
func Point3(v ms3.Vec) []float32 { return []float32{v.X, v.Y, v.Z} }

// Point2d converts v to a point for evaluating 2D float64 fields.
func Point2d(v md2.Vec) []float64 { return []float64{v.X, v.Y} }

// Point3d converts v to a point for evaluating 3D float64 fields.
func Point3d(v md3.Vec) []float64 { return []float64{v.X, v.Y, v.Z} }

// TranslateVec3 is shorthand for [Shape.Translate] with a 3D float32 vector.
func TranslateVec3[S any](s Shape[float32, S], v ms3.Vec) Shape[float32, S] {
	return s.Translate(v.X, v.Y, v.Z)
}

// QuatFromAxisAngleVec3 is shorthand for [QuatFromAxisAngle] with a 3D float32 axis.
func QuatFromAxisAngleVec3(axis ms3.Vec, radians float32) Quat[float32] {
	return QuatFromAxisAngle([3]float32{axis.X, axis.Y, axis.Z}, radians)
}
