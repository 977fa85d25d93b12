// Package render draws images of lightwalk fields, either by ray marching
// 3D fields through a pinhole [Camera] or by sampling 2D fields over their bounds.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/soypat/lightwalk"
	"github.com/soypat/lightwalk/march"
)

// tracer writes to trace with key 'lightwalk'
func tracer() tracing.Trace {
	return tracing.Select("lightwalk")
}

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// ColorFunc picks the color of a pixel whose ray collided with the scene.
type ColorFunc[T lightwalk.Scalar, S any] func(c march.Collision[T], state S) color.Color

// ShadeRow implements [RowShader] by calling cf on every collision. A nil ColorFunc colors collisions white.
func (cf ColorFunc[T, S]) ShadeRow(hits []march.Collision[T], states []S, dst []color.Color) error {
	for i := range hits {
		if cf == nil {
			dst[i] = color.White
		} else {
			dst[i] = cf(hits[i], states[i])
		}
	}
	return nil
}

// RowShader colors all collisions of an image row at once, which lets shaders
// batch work such as normal computation. See [LambertShader].
type RowShader[T lightwalk.Scalar, S any] interface {
	// ShadeRow stores in dst the non-nil color of each collision.
	// hits, states and dst are of the same length.
	// It may be called concurrently from different rows.
	ShadeRow(hits []march.Collision[T], states []S, dst []color.Color) error
}

// MarchRenderer renders 3D fields by marching one ray per pixel.
// Collisions are white and misses black unless a shader is set.
type MarchRenderer[T lightwalk.Scalar, S any] struct {
	m       *march.Marcher[T, S]
	view    view
	workers int
	shader  RowShader[T, S]
}

// NewMarchRenderer returns a renderer of m's field as seen from cam.
// Rows are marched concurrently by workers goroutines, or runtime.NumCPU() if workers is not positive.
// A nil conversion colors collisions white.
func NewMarchRenderer[T lightwalk.Scalar, S any](m *march.Marcher[T, S], cam Camera, workers int, conversion ColorFunc[T, S]) (*MarchRenderer[T, S], error) {
	return NewMarchRendererShader[T, S](m, cam, workers, conversion)
}

// NewMarchRendererShader is like [NewMarchRenderer] but collisions are colored a row
// at a time by shader. A nil shader colors collisions white.
func NewMarchRendererShader[T lightwalk.Scalar, S any](m *march.Marcher[T, S], cam Camera, workers int, shader RowShader[T, S]) (*MarchRenderer[T, S], error) {
	if m == nil {
		return nil, errors.New("nil marcher")
	} else if dim := m.Field().Dim(); dim != 3 {
		return nil, fmt.Errorf("can only march 3D fields, got %dD", dim)
	}
	v, err := cam.view()
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if shader == nil {
		shader = ColorFunc[T, S](nil)
	}
	return &MarchRenderer[T, S]{m: m, view: v, workers: workers, shader: shader}, nil
}

// Render marches a ray through every pixel of img and sets the pixel to the collision's
// color, or black on a miss. The result does not depend on the number of workers.
// It returns the amount of pixels whose ray collided.
func (mr *MarchRenderer[T, S]) Render(img setImage) (hits int, err error) {
	bb := img.Bounds()
	w, h := bb.Dx(), bb.Dy()
	if w <= 0 || h <= 0 {
		return 0, errors.New("empty image")
	}
	rows := make([][]color.Color, h)
	errs := make([]error, h)
	var (
		wg   sync.WaitGroup
		next = make(chan int)
	)
	for range min(mr.workers, h) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range next {
				rows[j], errs[j] = mr.renderRow(j, w, h)
			}
		}()
	}
	for j := 0; j < h; j++ {
		next <- j
	}
	close(next)
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}

	for j, row := range rows {
		for i, c := range row {
			if c == nil {
				img.Set(bb.Min.X+i, bb.Min.Y+j, color.Black)
				continue
			}
			hits++
			img.Set(bb.Min.X+i, bb.Min.Y+j, c)
		}
	}
	tracer().Debugf("marched %dx%d image with %d workers, %d hits", w, h, mr.workers, hits)
	return hits, nil
}

// renderRow returns the colors of row j, nil where the ray missed.
func (mr *MarchRenderer[T, S]) renderRow(j, w, h int) ([]color.Color, error) {
	var (
		cols   []int
		hits   []march.Collision[T]
		states []S
	)
	for i := 0; i < w; i++ {
		c, st, hit := mr.m.MarchState(rayAt[T](&mr.view, i, j, w, h))
		if hit {
			cols = append(cols, i)
			hits = append(hits, c)
			states = append(states, st)
		}
	}
	row := make([]color.Color, w)
	if len(hits) == 0 {
		return row, nil
	}
	shaded := make([]color.Color, len(hits))
	err := mr.shader.ShadeRow(hits, states, shaded)
	if err != nil {
		return nil, fmt.Errorf("shading row %d: %w", j, err)
	}
	for k, i := range cols {
		row[i] = shaded[k]
	}
	return row, nil
}

func newImage(width, height int, rgba bool) (setImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	r := image.Rect(0, 0, width, height)
	if rgba {
		return image.NewRGBA(r), nil
	}
	return image.NewGray(r), nil
}

// Image marches a width*height grayscale image. See [MarchRenderer.Render].
func (mr *MarchRenderer[T, S]) Image(width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	_, err := mr.Render(img)
	if err != nil {
		return nil, err
	}
	return img, nil
}
