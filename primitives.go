package lightwalk

// Primitives are canonical: unit sized and centered at the origin. Use
// transformers such as [Shape.Scale] and [Shape.Translate] to size and place them.

type sphere[T Scalar] struct {
	dim int
}

// NewSphere creates a dim-dimensional sphere of radius 1 centered at the origin. Is exact.
func (bld *Builder[T]) NewSphere(dim int) Shape[T, NoState] {
	if dim < 0 {
		bld.shapeErrorf("negative sphere dimension %d", dim)
		return invalidShape[T](dim)
	}
	return Shape[T, NoState]{f: &sphere[T]{dim: dim}}
}

func (s *sphere[T]) Dim() int { return s.dim }

func (s *sphere[T]) Distance(p []T) T {
	if s.dim == 1 {
		return absf(p[0]) - 1
	}
	return norm(p[:s.dim]) - 1
}

func (s *sphere[T]) State([]T) NoState { return NoState{} }

func (s *sphere[T]) DistanceAndState(p []T) (T, NoState) { return s.Distance(p), NoState{} }

type cube[T Scalar] struct {
	dim int
}

// NewCube creates a dim-dimensional cube of side 1 centered at the origin.
// The distance is the Chebyshev distance to the cube's faces, which is exact inside the cube
// and a lower bound of the euclidean distance outside. A zero dimensional cube has distance zero everywhere.
func (bld *Builder[T]) NewCube(dim int) Shape[T, NoState] {
	if dim < 0 {
		bld.shapeErrorf("negative cube dimension %d", dim)
		return invalidShape[T](dim)
	}
	return Shape[T, NoState]{f: &cube[T]{dim: dim}}
}

func (c *cube[T]) Dim() int { return c.dim }

func (c *cube[T]) Distance(p []T) T {
	if c.dim == 0 {
		return 0
	}
	d := absf(p[0]) - 0.5
	for _, v := range p[1:c.dim] {
		d = max(d, absf(v)-0.5)
	}
	return d
}

func (c *cube[T]) State([]T) NoState { return NoState{} }

func (c *cube[T]) DistanceAndState(p []T) (T, NoState) { return c.Distance(p), NoState{} }

type plane[T Scalar] struct {
	normal []T
}

// NewPlane creates a hyperplane through the origin with the given normal, which is normalized.
// Points on the side the normal points to are outside of the plane. Is exact.
// A zero length normal is a construction error.
func (bld *Builder[T]) NewPlane(normal ...T) Shape[T, NoState] {
	n, ok := normalized(normal)
	if !ok {
		bld.shapeErrorf("cannot define a plane with a null normal")
		return invalidShape[T](len(normal))
	}
	return Shape[T, NoState]{f: &plane[T]{normal: n}}
}

// NewPlaneUnchecked is like [Builder.NewPlane] but does not normalize the normal.
// The caller must guarantee the normal is of unit length.
func (bld *Builder[T]) NewPlaneUnchecked(normal ...T) Shape[T, NoState] {
	return Shape[T, NoState]{f: &plane[T]{normal: append([]T(nil), normal...)}}
}

func (pl *plane[T]) Dim() int { return len(pl.normal) }

func (pl *plane[T]) Distance(p []T) T { return dot(p[:len(pl.normal)], pl.normal) }

func (pl *plane[T]) State([]T) NoState { return NoState{} }

func (pl *plane[T]) DistanceAndState(p []T) (T, NoState) { return pl.Distance(p), NoState{} }

type line[T Scalar] struct {
	dir []T
}

// NewLine creates an infinite line through the origin along direction, which is normalized.
// The distance is the length of the point's component perpendicular to the line, so
// the line has no interior. Use [Shape.Thicken] or [Shape.Round] to give it one.
// A zero length direction is a construction error.
func (bld *Builder[T]) NewLine(direction ...T) Shape[T, NoState] {
	d, ok := normalized(direction)
	if !ok {
		bld.shapeErrorf("cannot define a line with a null direction")
		return invalidShape[T](len(direction))
	}
	return Shape[T, NoState]{f: &line[T]{dir: d}}
}

// NewLineUnchecked is like [Builder.NewLine] but does not normalize the direction.
// The caller must guarantee the direction is of unit length.
func (bld *Builder[T]) NewLineUnchecked(direction ...T) Shape[T, NoState] {
	return Shape[T, NoState]{f: &line[T]{dir: append([]T(nil), direction...)}}
}

func (l *line[T]) Dim() int { return len(l.dir) }

func (l *line[T]) Distance(p []T) T {
	proj := dot(p[:len(l.dir)], l.dir)
	var sum T
	for i, d := range l.dir {
		perp := p[i] - d*proj
		sum += perp * perp
	}
	return sqrt(sum)
}

func (l *line[T]) State([]T) NoState { return NoState{} }

func (l *line[T]) DistanceAndState(p []T) (T, NoState) { return l.Distance(p), NoState{} }

// normalized returns a unit length copy of v. ok is false if v has zero length.
func normalized[T Scalar](v []T) (unit []T, ok bool) {
	n := norm(v)
	if n == 0 || isNaN(n) {
		return nil, false
	}
	inv := 1 / n
	unit = make([]T, len(v))
	for i := range v {
		unit[i] = v[i] * inv
	}
	return unit, true
}
