package mesh_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/lightwalk"
	"github.com/soypat/lightwalk/mesh"
)

var (
	bbMin = [3]float64{-1.5, -1.5, -1.5}
	bbMax = [3]float64{1.5, 1.5, 1.5}
)

func TestSDF3MatchesSdfx(t *testing.T) {
	var bld lightwalk.Builder[float64]
	ours, err := mesh.SDF3[lightwalk.NoState](bld.NewSphere(3), bbMin, bbMax)
	if err != nil {
		t.Fatal(err)
	}
	theirs, err := sdf.Sphere3D(1)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 256; i++ {
		p := v3.Vec{X: rng.Float64()*3 - 1.5, Y: rng.Float64()*3 - 1.5, Z: rng.Float64()*3 - 1.5}
		got, want := ours.Evaluate(p), theirs.Evaluate(p)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("pos %v: want %v, got %v", p, want, got)
		}
	}
	bb := ours.BoundingBox()
	if bb.Min.X != -1.5 || bb.Max.Z != 1.5 {
		t.Errorf("unexpected bounding box %+v", bb)
	}
}

func TestSDF3Errors(t *testing.T) {
	var bld lightwalk.Builder[float64]
	if _, err := mesh.SDF3[lightwalk.NoState](bld.NewSphere(2), bbMin, bbMax); err == nil {
		t.Error("expected dimension error")
	}
	if _, err := mesh.SDF3[lightwalk.NoState](bld.NewSphere(3), bbMax, bbMin); err == nil {
		t.Error("expected bounds error")
	}
	if _, err := mesh.ToMesh(nil, 10); err == nil {
		t.Error("expected nil SDF3 error")
	}
}

func TestFromSDF3(t *testing.T) {
	box, err := sdf.Box3D(v3.Vec{X: 1, Y: 1, Z: 1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// A unit sdfx box translated with lightwalk.
	shape := mesh.FromSDF3(box).Translate(2, 0, 0)
	if d := shape.Distance([]float64{2, 0, 0}); math.Abs(d+0.5) > 1e-9 {
		t.Errorf("want -0.5 at box center, got %v", d)
	}
	if d := shape.Distance([]float64{4, 0, 0}); math.Abs(d-1.5) > 1e-9 {
		t.Errorf("want 1.5 outside the box, got %v", d)
	}
	var bld lightwalk.Builder[float64]
	sphere := bld.NewSphere(3)
	s, err := mesh.SDF3[lightwalk.NoState](sphere, bbMin, bbMax)
	if err != nil {
		t.Fatal(err)
	}
	if back := mesh.FromSDF3(s); back.Field() != sphere.Field() {
		t.Error("round trip through sdfx must return the original field")
	}
}

func TestToMeshSphere(t *testing.T) {
	var bld lightwalk.Builder[float64]
	m, err := mesh.FieldToMesh[lightwalk.NoState](bld.NewSphere(3), bbMin, bbMax, 32)
	if err != nil {
		t.Fatal(err)
	}
	if m.IsEmpty() || m.TriangleCount() == 0 {
		t.Fatal("mesh is empty")
	}
	if len(m.Vertices) != len(m.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(m.Vertices), len(m.Normals))
	}
	if len(m.Indices) != m.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(m.Indices), m.TriangleCount()*3)
	}
	// Vertices lie on the surface to within a cell.
	const cell = 3.0 / 32
	for i := 0; i < len(m.Vertices); i += 3 {
		v := m.Vertices[i : i+3]
		r := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
		if math.Abs(r-1) > cell {
			t.Fatalf("vertex %v at radius %v, want 1", v, r)
		}
	}
	lo, hi, ok := m.Bounds()
	if !ok || lo[0] > -0.9 || hi[0] < 0.9 {
		t.Errorf("unexpected mesh bounds %v %v", lo, hi)
	}
}

func TestMeshBounds(t *testing.T) {
	var empty mesh.Mesh
	if _, _, ok := empty.Bounds(); ok {
		t.Error("empty mesh must have no bounds")
	}
	m := mesh.Mesh{Vertices: []float32{
		1, 2, 3,
		-1, 5, 0,
		0, -2, 7,
	}}
	lo, hi, ok := m.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if lo != [3]float32{-1, -2, 0} || hi != [3]float32{1, 5, 7} {
		t.Errorf("want bounds [-1 -2 0] [1 5 7], got %v %v", lo, hi)
	}
}

func TestToMeshDifference(t *testing.T) {
	var bld lightwalk.Builder[float64]
	cube := bld.NewCube(3).Scale(2)
	hole := bld.NewLine(0, 0, 1).Round(0.4)
	cubeMesh, err := mesh.FieldToMesh[lightwalk.NoState](cube, bbMin, bbMax, 24)
	if err != nil {
		t.Fatal(err)
	}
	diffMesh, err := mesh.FieldToMesh[lightwalk.NoState](cube.Difference(hole), bbMin, bbMax, 24)
	if err != nil {
		t.Fatal(err)
	}
	// A cube with a hole should have more triangles than a plain cube.
	if diffMesh.TriangleCount() <= cubeMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than cube (%d triangles)",
			diffMesh.TriangleCount(), cubeMesh.TriangleCount())
	}
}

func TestMeshJSON(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
		Name:     "tri",
	}
	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := mesh.ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "tri" || got.TriangleCount() != 1 || got.Vertices[3] != 1 {
		t.Errorf("unexpected decoded mesh %+v", got)
	}
	m.Indices[2] = 3
	if err := m.WriteJSON(&buf); err == nil {
		t.Error("expected out of range index error")
	}
}

func TestMeshBinarySTL(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 1, 0, 0},
		Indices:  []uint32{0, 1, 2, 1, 2, 3},
	}
	var buf bytes.Buffer
	n, err := m.WriteBinarySTL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	const want = 84 + 2*50
	if n != want || buf.Len() != want {
		t.Fatalf("want %d bytes, got n=%d len=%d", want, n, buf.Len())
	}
	data := buf.Bytes()
	if got := binary.LittleEndian.Uint32(data[80:]); got != 2 {
		t.Errorf("want 2 facets in header, got %d", got)
	}
	// Second facet's first vertex is vertex 1.
	x := math.Float32frombits(binary.LittleEndian.Uint32(data[84+50+12:]))
	if x != 1 {
		t.Errorf("want first vertex X=1 of second facet, got %v", x)
	}
}
