// Package mesh extracts triangle meshes from 3D lightwalk fields using the
// marching cubes renderer of github.com/deadsy/sdfx.
package mesh

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/lightwalk"
)

// DefaultCells is the marching cubes resolution along the longest bounding box axis.
const DefaultCells = 128

// fieldSDF3 wraps a 3D lightwalk field to implement sdf.SDF3.
type fieldSDF3[S any] struct {
	f  lightwalk.Field[float64, S]
	bb sdf.Box3
}

// Evaluate implements sdf.SDF3.
func (s *fieldSDF3[S]) Evaluate(p v3.Vec) float64 {
	return s.f.Distance([]float64{p.X, p.Y, p.Z})
}

// BoundingBox implements sdf.SDF3.
func (s *fieldSDF3[S]) BoundingBox() sdf.Box3 { return s.bb }

// SDF3 returns f as an sdf.SDF3 so it may be used with sdfx's renderers and operations.
// Fields carry no bounds so min and max give the box that contains the shape.
func SDF3[S any](f lightwalk.Field[float64, S], min, max [3]float64) (sdf.SDF3, error) {
	if f == nil {
		return nil, errors.New("nil field")
	} else if f.Dim() != 3 {
		return nil, fmt.Errorf("want 3D field, got %dD", f.Dim())
	}
	for i := range min {
		if !(max[i] > min[i]) {
			return nil, fmt.Errorf("invalid bounds on axis %d: [%v, %v]", i, min[i], max[i])
		}
	}
	return &fieldSDF3[S]{
		f: f,
		bb: sdf.Box3{
			Min: v3.Vec{X: min[0], Y: min[1], Z: min[2]},
			Max: v3.Vec{X: max[0], Y: max[1], Z: max[2]},
		},
	}, nil
}

// sdfxField wraps an sdf.SDF3 to implement lightwalk.Field.
type sdfxField struct {
	s sdf.SDF3
}

func (f *sdfxField) Dim() int { return 3 }

func (f *sdfxField) Distance(p []float64) float64 {
	return f.s.Evaluate(v3.Vec{X: p[0], Y: p[1], Z: p[2]})
}

func (f *sdfxField) State([]float64) lightwalk.NoState { return lightwalk.NoState{} }

func (f *sdfxField) DistanceAndState(p []float64) (float64, lightwalk.NoState) {
	return f.Distance(p), lightwalk.NoState{}
}

// FromSDF3 returns an sdfx shape as a lightwalk shape so that it may be transformed,
// combined and bound to state like any other field. If s is the result of [SDF3]
// the original field is returned.
func FromSDF3(s sdf.SDF3) lightwalk.Shape[float64, lightwalk.NoState] {
	if fs, ok := s.(*fieldSDF3[lightwalk.NoState]); ok {
		return lightwalk.AsShape(fs.f)
	}
	return lightwalk.AsShape[float64, lightwalk.NoState](&sdfxField{s: s})
}

// ToMesh converts a solid to a triangle mesh using marching cubes with cells
// cells along the longest axis of its bounding box. Use [DefaultCells] for a reasonable default.
func ToMesh(s sdf.SDF3, cells int) (*Mesh, error) {
	if s == nil {
		return nil, errors.New("nil SDF3")
	} else if cells <= 0 {
		return nil, fmt.Errorf("invalid marching cubes cell count %d", cells)
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Face normal shared by the triangle's vertices.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}
	return &Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// FieldToMesh is shorthand for [SDF3] followed by [ToMesh].
func FieldToMesh[S any](f lightwalk.Field[float64, S], min, max [3]float64, cells int) (*Mesh, error) {
	s, err := SDF3(f, min, max)
	if err != nil {
		return nil, err
	}
	return ToMesh(s, cells)
}
