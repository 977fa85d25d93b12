package lightwalk_test

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/soypat/lightwalk"
)

type side string

func twoSpheres() (left, right lightwalk.Shape[float64, side]) {
	var bld lightwalk.Builder[float64]
	left = lightwalk.Bind[float64](bld.NewSphere(2).Translate(-1, 0), side("left"))
	right = lightwalk.Bind[float64](bld.NewSphere(2).Translate(1, 0), side("right"))
	return left, right
}

func TestUnionState(t *testing.T) {
	left, right := twoSpheres()
	u := left.Union(right)
	tests := []struct {
		p    []float64
		want side
	}{
		{p: []float64{-1, 0}, want: "left"},
		{p: []float64{1, 0}, want: "right"},
		{p: []float64{-5, 3}, want: "left"},
		{p: []float64{0.1, 0}, want: "right"},
		// Equidistant: the receiver wins.
		{p: []float64{0, 0}, want: "left"},
		{p: []float64{0, 7}, want: "left"},
	}
	for _, test := range tests {
		if got := u.State(test.p); got != test.want {
			t.Errorf("union %v: want %q, got %q", test.p, test.want, got)
		}
	}
	if got := right.Union(left).State([]float64{0, 0}); got != "right" {
		t.Errorf("union tie must report receiver, got %q", got)
	}
}

func TestIntersectionDifferenceState(t *testing.T) {
	left, right := twoSpheres()
	in := left.Intersection(right)
	if got := in.State([]float64{-1, 0}); got != "right" {
		t.Errorf("intersection reports farthest child, got %q", got)
	}
	if got := in.State([]float64{0, 0}); got != "left" {
		t.Errorf("intersection tie must report receiver, got %q", got)
	}
	diff := left.Difference(right)
	// Outside of b the receiver's distance wins.
	if got := diff.State([]float64{-1.5, 0}); got != "left" {
		t.Errorf("difference outside of b: want left, got %q", got)
	}
	// Deep inside b: -b dominates.
	if got := diff.State([]float64{1, 0}); got != "right" {
		t.Errorf("difference inside of b: want right, got %q", got)
	}
	d, st := diff.DistanceAndState([]float64{1, 0})
	if d != 1 || st != "right" {
		t.Errorf("difference at b center: want (1, right), got (%v, %q)", d, st)
	}
	// Where a == -b the subtracted shape wins, unlike Union and Intersection.
	if got := diff.State([]float64{0, 0}); got != "right" {
		t.Errorf("difference tie must report b, got %q", got)
	}
}

func TestDistanceAndStateConsistent(t *testing.T) {
	var bld lightwalk.Builder[float64]
	floor := lightwalk.Bind[float64](bld.NewPlane(0, 1, 0).Translate(0, -1, 0), 1)
	ball := lightwalk.Bind[float64](bld.NewSphere(3), 2)
	cube := lightwalk.Bind[float64](bld.NewCube(3).Scale(1.5).Translate(2, 0, 0), 3)
	hole := lightwalk.Bind[float64](bld.NewLine(1, 0, 0).Round(0.3), 4)
	scene := lightwalk.UnionAll[float64, int](floor, ball.Union(cube).Difference(hole)).
		Rotate3D(lightwalk.QuatFromAxisAngle([3]float64{1, 1, 0}, 0.3)).
		Repeat(10, 10, 10).
		Scale(0.8).
		Invert()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		p := randPoint(rng, 3, 5)
		d, st := scene.DistanceAndState(p)
		if d2 := scene.Distance(p); d != d2 {
			t.Fatalf("%v: DistanceAndState distance %v != Distance %v", p, d, d2)
		}
		if st2 := scene.State(p); st != st2 {
			t.Fatalf("%v: DistanceAndState state %v != State %v", p, st, st2)
		}
	}
}

func TestStateFollowsWinner(t *testing.T) {
	var bld lightwalk.Builder[float64]
	shapes := []lightwalk.Field[float64, int]{
		lightwalk.Bind[float64](bld.NewSphere(3).Translate(-2, 0, 0), 0),
		lightwalk.Bind[float64](bld.NewCube(3).Translate(2, 0, 0), 1),
		lightwalk.Bind[float64](bld.NewLine(0, 1, 0).Round(0.2).Translate(0, 0, 3), 2),
	}
	u := lightwalk.UnionAll(shapes...)
	in := lightwalk.IntersectionAll(shapes...)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		p := randPoint(rng, 3, 5)
		du, su := u.DistanceAndState(p)
		di, si := in.DistanceAndState(p)
		if got := shapes[su].Distance(p); got != du {
			t.Fatalf("%v: union state %d does not own distance %v", p, su, du)
		}
		if got := shapes[si].Distance(p); got != di {
			t.Fatalf("%v: intersection state %d does not own distance %v", p, si, di)
		}
	}
}

func TestNaryMatchesChained(t *testing.T) {
	var bld lightwalk.Builder[float64]
	a := bld.NewSphere(3)
	b := bld.NewCube(3).Translate(1, 1, 0)
	c := bld.NewLine(0, 0, 1).Thicken(0.1)
	unionAll := lightwalk.UnionAll[float64, lightwalk.NoState](a, b, c)
	chained := a.Union(b).Union(c)
	seq := lightwalk.UnionSeq(3, slices.Values([]lightwalk.Field[float64, lightwalk.NoState]{a, b, c}))
	interAll := lightwalk.IntersectionAll[float64, lightwalk.NoState](a, b, c)
	interChained := a.Intersection(b).Intersection(c)
	interSeq := lightwalk.IntersectionSeq(3, slices.Values([]lightwalk.Field[float64, lightwalk.NoState]{a, b, c}))
	if unionAll.Dim() != 3 || seq.Dim() != 3 || interSeq.Dim() != 3 {
		t.Fatal("n-ary dimension mismatch")
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := randPoint(rng, 3, 3)
		want := chained.Distance(p)
		if got := unionAll.Distance(p); got != want {
			t.Fatalf("%v: UnionAll %v != chained %v", p, got, want)
		}
		if got := seq.Distance(p); got != want {
			t.Fatalf("%v: UnionSeq %v != chained %v", p, got, want)
		}
		want = interChained.Distance(p)
		if got := interAll.Distance(p); got != want {
			t.Fatalf("%v: IntersectionAll %v != chained %v", p, got, want)
		}
		if got := interSeq.Distance(p); got != want {
			t.Fatalf("%v: IntersectionSeq %v != chained %v", p, got, want)
		}
	}
}

func TestNaryTies(t *testing.T) {
	var bld lightwalk.Builder[float64]
	s := bld.NewSphere(2)
	u := lightwalk.UnionAll[float64, string](
		lightwalk.Bind[float64](s, "first"),
		lightwalk.Bind[float64](s, "second"),
		lightwalk.Bind[float64](s, "third"),
	)
	if got := u.State([]float64{0.3, 0.2}); got != "first" {
		t.Errorf("union tie: want first, got %q", got)
	}
	in := lightwalk.IntersectionAll[float64, string](
		lightwalk.Bind[float64](s, "first"),
		lightwalk.Bind[float64](s, "second"),
	)
	if got := in.State([]float64{3, 0}); got != "first" {
		t.Errorf("intersection tie: want first, got %q", got)
	}
}

func TestNaryEmpty(t *testing.T) {
	u := lightwalk.UnionAll[float64, int]()
	in := lightwalk.IntersectionAll[float64, int]()
	if u.Dim() != 0 || in.Dim() != 0 {
		t.Error("empty n-ary must have no dimension")
	}
	if d := u.Distance(nil); !math.IsInf(d, 1) {
		t.Errorf("empty union: want +Inf, got %v", d)
	}
	if d := in.Distance(nil); !math.IsInf(d, -1) {
		t.Errorf("empty intersection: want -Inf, got %v", d)
	}
	mustPanic(t, "empty union state", func() { u.State(nil) })
	mustPanic(t, "empty intersection state", func() { in.DistanceAndState(nil) })
}

func TestNaryErrors(t *testing.T) {
	var bld lightwalk.Builder[float64]
	s2, s3 := bld.NewSphere(2), bld.NewSphere(3)
	mustPanic(t, "UnionAll dims", func() { lightwalk.UnionAll[float64, lightwalk.NoState](s2, s3) })
	mustPanic(t, "IntersectionAll nil", func() { lightwalk.IntersectionAll[float64, lightwalk.NoState](s2, nil) })
	mustPanic(t, "UnionAll zero shape", func() {
		lightwalk.UnionAll[float64, lightwalk.NoState](s2, lightwalk.Shape[float64, lightwalk.NoState]{})
	})
	mustPanic(t, "UnionSeq dims", func() {
		lightwalk.UnionSeq(2, slices.Values([]lightwalk.Field[float64, lightwalk.NoState]{s2, s3}))
	})
	mustPanic(t, "IntersectionSeq nil", func() { lightwalk.IntersectionSeq[float64, lightwalk.NoState](2, nil) })
}

func TestBlend(t *testing.T) {
	var bld lightwalk.Builder[float64]
	a := lightwalk.Bind[float64](bld.NewSphere(2).Translate(-1, 0), 1.0)
	b := lightwalk.Bind[float64](bld.NewSphere(2).Translate(1, 0), 3.0)
	// Interpolate the payload by distance.
	mix := func(da, sa, db, sb float64) float64 {
		wa, wb := 1/(1+math.Abs(da)), 1/(1+math.Abs(db))
		return (sa*wa + sb*wb) / (wa + wb)
	}
	u := a.UnionBlend(b, mix)
	d, st := u.DistanceAndState([]float64{0, 0})
	if d != 0 || st != 2 {
		t.Errorf("blend midpoint: want (0, 2), got (%v, %v)", d, st)
	}
	if got := u.Distance([]float64{-1.5, 0}); got != a.Distance([]float64{-1.5, 0}) {
		t.Errorf("blend must not change distance, got %v", got)
	}
	if st := u.State([]float64{-1.5, 0}); !(st > 1 && st < 2) {
		t.Errorf("blend near a: state must lean towards a, got %v", st)
	}
	in := a.IntersectionBlend(b, func(da, sa, db, sb float64) float64 { return sa + sb })
	d, st = in.DistanceAndState([]float64{0, 0})
	if d != 0 || st != 4 {
		t.Errorf("intersection blend: want (0, 4), got (%v, %v)", d, st)
	}
	mustPanic(t, "nil blender", func() { a.UnionBlend(b, nil) })
}

func TestMapState(t *testing.T) {
	left, right := twoSpheres()
	u := left.Union(right)
	lengths := lightwalk.MapState[float64, side, int](u, func(s side) int { return len(s) })
	mapped := lightwalk.MapState[float64, side, int](left, func(s side) int { return len(s) }).
		Union(lightwalk.MapState[float64, side, int](right, func(s side) int { return len(s) }))
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		p := randPoint(rng, 2, 4)
		d, st := lengths.DistanceAndState(p)
		if d != u.Distance(p) {
			t.Fatalf("%v: MapState changed distance", p)
		}
		if want := len(u.State(p)); st != want {
			t.Fatalf("%v: want state %d, got %d", p, want, st)
		}
		if md, mst := mapped.DistanceAndState(p); md != d || mst != st {
			t.Fatalf("%v: mapping the union (%v, %d) != union of mapped (%v, %d)", p, d, st, md, mst)
		}
	}
}

func TestBindPreservesDistance(t *testing.T) {
	var bld lightwalk.Builder[float32]
	s := bld.NewCube(3).Round(0.2)
	b := lightwalk.Bind[float32](s, struct{ name string }{"cube"})
	if b.Dim() != 3 {
		t.Fatalf("want dim 3, got %d", b.Dim())
	}
	p := []float32{0.7, -0.2, 0.1}
	d, st := b.DistanceAndState(p)
	if d != s.Distance(p) || st.name != "cube" {
		t.Errorf("unexpected (%v, %v)", d, st)
	}
	mustPanic(t, "bind nil", func() { lightwalk.Bind[float32, int](nil, 1) })
}

func TestQuat(t *testing.T) {
	q := lightwalk.QuatFromAxisAngle([3]float64{0, 0, 3}, math.Pi/2)
	if n := q.Norm(); math.Abs(n-1) > tol {
		t.Errorf("axis angle quaternion must be unit, got norm %v", n)
	}
	v := q.Rotate([3]float64{1, 0, 0})
	if math.Abs(v[0]) > tol || math.Abs(v[1]-1) > tol || math.Abs(v[2]) > tol {
		t.Errorf("rotate x by 90deg about z: want (0,1,0), got %v", v)
	}
	// Two quarter turns compose to a half turn.
	v = q.Mul(q).Rotate([3]float64{1, 0, 0})
	if math.Abs(v[0]+1) > tol || math.Abs(v[1]) > tol {
		t.Errorf("half turn: want (-1,0,0), got %v", v)
	}
	id := lightwalk.Quat[float64]{W: 2, X: 1, Y: -1, Z: 0.5}
	id = id.Mul(id.Inverse())
	if math.Abs(id.W-1) > tol || math.Abs(id.X) > tol || math.Abs(id.Y) > tol || math.Abs(id.Z) > tol {
		t.Errorf("q*inv(q) must be identity, got %+v", id)
	}
	mustPanic(t, "null axis", func() { lightwalk.QuatFromAxisAngle([3]float64{}, 1) })
	var bld lightwalk.Builder[float64]
	mustPanic(t, "zero quaternion", func() { bld.NewSphere(3).Rotate3D(lightwalk.Quat[float64]{}) })

	// Non unit quaternions rotate the same as their unit counterpart.
	s := bld.NewCube(3).Translate(2, 0, 0)
	scaled := lightwalk.Quat[float64]{W: 3 * q.W, X: 3 * q.X, Y: 3 * q.Y, Z: 3 * q.Z}
	p := []float64{0.1, 2.2, -0.3}
	if a, b := s.Rotate3D(q).Distance(p), s.Rotate3D(scaled).Distance(p); math.Abs(a-b) > tol {
		t.Errorf("scaled quaternion rotation mismatch: %v != %v", a, b)
	}
}

func TestRotate2D(t *testing.T) {
	var bld lightwalk.Builder[float64]
	s := bld.NewSphere(2).Translate(1, 0).Rotate2D(math.Pi / 2)
	if d := s.Distance([]float64{0, 1}); math.Abs(d+1) > tol {
		t.Errorf("counter-clockwise rotation: want -1 at (0,1), got %v", d)
	}
	full := bld.NewCube(2).Translate(0.3, 0.1).Rotate2D(2 * math.Pi)
	orig := bld.NewCube(2).Translate(0.3, 0.1)
	p := []float64{0.4, -0.7}
	if a, b := full.Distance(p), orig.Distance(p); math.Abs(a-b) > 1e-12 {
		t.Errorf("full turn must be identity: %v != %v", a, b)
	}
}

func TestAsShape(t *testing.T) {
	left, right := twoSpheres()
	var f lightwalk.Field[float64, side] = left.Union(right)
	s := lightwalk.AsShape(f).Translate(0, 1)
	if got := s.State([]float64{1, 1}); got != "right" {
		t.Errorf("want right, got %q", got)
	}
	if s.Field() == nil {
		t.Error("shape field must not be nil")
	}
	mustPanic(t, "AsShape nil", func() { lightwalk.AsShape[float64, side](nil) })
}
