package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/lightwalk"
	"github.com/soypat/lightwalk/eval"
	"github.com/soypat/lightwalk/march"
)

var red = color.RGBA{R: 255, A: 255}

// ColorConversionInigoQuilez creates a new distance to color conversion for [ImageRendererSDF2]
// using [Inigo Quilez]'s style. A good value for characteristic distance is the bounds diagonal divided by 3.
// Returns red for NaN values.
//
// [Inigo Quilez]: https://iquilezles.org/articles/distfunctions2d/
func ColorConversionInigoQuilez(characteristicDistance float32) func(float32) color.Color {
	inv := 1. / characteristicDistance
	return func(d float32) color.Color {
		if math32.IsNaN(d) {
			return red
		}
		d *= inv
		var c [3]float32
		if d > 0 {
			c = [3]float32{0.9, 0.6, 0.3}
		} else {
			c = [3]float32{0.65, 0.85, 1.0}
		}
		k := (1 - math32.Exp(-6*math32.Abs(d))) * (0.8 + 0.2*math32.Cos(150*d))
		edge := 1 - smoothstep(0, 0.01, math32.Abs(d))
		for i := range c {
			c[i] *= k
			c[i] += (1 - c[i]) * edge
		}
		return color.RGBA{
			R: uint8(c[0] * 255),
			G: uint8(c[1] * 255),
			B: uint8(c[2] * 255),
			A: 255,
		}
	}
}

func smoothstep(e0, e1, x float32) float32 {
	t := min(max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}

// ShadeLambert returns a [ColorFunc] which shades collisions by the cosine between the
// surface normal of f at the collision and the direction towards the light, with ambient
// in [0, 1] as the minimum brightness. The color of each collision is given by the state at the
// collision through palette, or white if palette is nil. f must be 3 dimensional.
func ShadeLambert[T lightwalk.Scalar, S any](f lightwalk.Field[T, S], light [3]T, ambient float32, palette func(S) color.RGBA) (ColorFunc[T, S], error) {
	if f == nil {
		return nil, errors.New("nil field")
	} else if f.Dim() != 3 {
		return nil, fmt.Errorf("can only shade 3D fields, got %dD", f.Dim())
	}
	l := md3.Vec{X: float64(light[0]), Y: float64(light[1]), Z: float64(light[2])}
	if err := checkLight(md3.Norm2(l), ambient); err != nil {
		return nil, err
	}
	l = md3.Unit(l)
	return func(c march.Collision[T], st S) color.Color {
		n, ok := lightwalk.Normal(f, c.Point, T(1e-3))
		if !ok {
			return paletteColor(palette, st)
		}
		cos := md3.Dot(md3.Vec{X: float64(n[0]), Y: float64(n[1]), Z: float64(n[2])}, l)
		return lambert(paletteColor(palette, st), float32(cos), ambient)
	}, nil
}

// LambertShader is the batched counterpart of [ShadeLambert] for float32 fields.
// The normals of each row's collisions are computed in one go with [eval.NormalsCentralDiff]
// using buffers from the SDF's [eval.VecPool].
type LambertShader[S any] struct {
	sdf     *eval.FieldSDF3[S]
	light   ms3.Vec
	ambient float32
	step    float32
	palette func(S) color.RGBA
}

// NewLambertShader returns a [RowShader] for the field of sdf. See [ShadeLambert] for the meaning of the arguments.
func NewLambertShader[S any](sdf *eval.FieldSDF3[S], light ms3.Vec, ambient float32, palette func(S) color.RGBA) (*LambertShader[S], error) {
	if sdf == nil {
		return nil, errors.New("nil SDF3")
	}
	if err := checkLight(float64(ms3.Norm2(light)), ambient); err != nil {
		return nil, err
	}
	return &LambertShader[S]{sdf: sdf, light: ms3.Unit(light), ambient: ambient, step: 1e-3, palette: palette}, nil
}

// ShadeRow implements [RowShader].
func (ls *LambertShader[S]) ShadeRow(hits []march.Collision[float32], states []S, dst []color.Color) error {
	if len(hits) == 0 {
		return nil
	}
	vp := ls.sdf.VecPool()
	pos := vp.V3.Acquire(len(hits))
	normals := vp.V3.Acquire(len(hits))
	defer vp.V3.Release(pos)
	defer vp.V3.Release(normals)
	for i, c := range hits {
		pos[i] = ms3.Vec{X: c.Point[0], Y: c.Point[1], Z: c.Point[2]}
	}
	err := eval.NormalsCentralDiff(ls.sdf, pos, normals, ls.step, ls.sdf)
	if err != nil {
		return err
	}
	for i, n := range normals {
		base := paletteColor(ls.palette, states[i])
		norm := ms3.Norm(n)
		if norm == 0 {
			dst[i] = base
			continue
		}
		dst[i] = lambert(base, ms3.Dot(n, ls.light)/norm, ls.ambient)
	}
	return nil
}

func checkLight(norm2 float64, ambient float32) error {
	if !(norm2 > 0) {
		return errors.New("invalid light direction")
	} else if !(ambient >= 0 && ambient <= 1) {
		return fmt.Errorf("ambient %v out of range [0, 1]", ambient)
	}
	return nil
}

func paletteColor[S any](palette func(S) color.RGBA, st S) color.RGBA {
	if palette == nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return palette(st)
}

func lambert(base color.RGBA, cos, ambient float32) color.RGBA {
	k := ambient + (1-ambient)*max(cos, 0)
	return color.RGBA{
		R: uint8(float32(base.R) * k),
		G: uint8(float32(base.G) * k),
		B: uint8(float32(base.B) * k),
		A: base.A,
	}
}
