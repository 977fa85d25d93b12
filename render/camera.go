package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/lightwalk"
	"github.com/soypat/lightwalk/march"
)

// Camera is a pinhole camera looking from Position towards Target.
type Camera struct {
	Position [3]float64 `yaml:"position" json:"position"`
	Target   [3]float64 `yaml:"target" json:"target"`
	// Up is the approximate up direction of the image. Defaults to +Y when zero.
	Up [3]float64 `yaml:"up" json:"up"`
	// FOV is the vertical field of view in degrees.
	FOV float64 `yaml:"fov" json:"fov"`
}

// Validate returns a non-nil error if no view can be computed from the camera.
func (c Camera) Validate() error {
	_, err := c.view()
	return err
}

// view is the orthonormal basis of the camera scaled by the field of view.
type view struct {
	origin, forward, right, up md3.Vec
}

func (c Camera) view() (view, error) {
	if !(c.FOV > 0 && c.FOV < 180) {
		return view{}, fmt.Errorf("invalid field of view %v, must be in (0, 180) degrees", c.FOV)
	}
	origin := vec(c.Position)
	forward := md3.Sub(vec(c.Target), origin)
	if md3.Norm2(forward) == 0 {
		return view{}, errors.New("camera position and target coincide")
	}
	forward = md3.Unit(forward)
	up := vec(c.Up)
	if up == (md3.Vec{}) {
		up = md3.Vec{Y: 1}
	}
	right := md3.Cross(forward, up)
	if md3.Norm2(right) == 0 {
		return view{}, errors.New("camera up direction parallel to view direction")
	}
	right = md3.Unit(right)
	h := math.Tan(c.FOV * math.Pi / 360)
	return view{
		origin:  origin,
		forward: forward,
		right:   md3.Scale(h, right),
		up:      md3.Scale(h, md3.Cross(right, forward)),
	}, nil
}

// rayAt returns the unit direction ray through the center of pixel (px, py) of a width*height image.
func rayAt[T lightwalk.Scalar](v *view, px, py, width, height int) march.Ray[T] {
	aspect := float64(width) / float64(height)
	u := (2*(float64(px)+0.5)/float64(width) - 1) * aspect
	w := 1 - 2*(float64(py)+0.5)/float64(height)
	dir := md3.Unit(md3.Add(v.forward, md3.Add(md3.Scale(u, v.right), md3.Scale(w, v.up))))
	return march.Ray[T]{
		Origin:    []T{T(v.origin.X), T(v.origin.Y), T(v.origin.Z)},
		Direction: []T{T(dir.X), T(dir.Y), T(dir.Z)},
	}
}

func vec(a [3]float64) md3.Vec { return md3.Vec{X: a[0], Y: a[1], Z: a[2]} }
