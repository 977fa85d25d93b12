package lightwalk

// Transformers wrap exactly one child field. They map the query point before
// delegating to the child and/or correct the child's distance afterwards.
// State is always passed through from the child unchanged.

// Translate moves the shape by v. len(v) must match the shape's dimension. Is exact.
func (s Shape[T, S]) Translate(v ...T) Shape[T, S] {
	f := s.mustField()
	mustDim("Translate", f.Dim(), len(v))
	neg := make([]T, len(v))
	for i := range v {
		neg[i] = -v[i]
	}
	return Shape[T, S]{f: &translate[T, S]{f: f, neg: neg}}
}

type translate[T Scalar, S any] struct {
	f Field[T, S]
	// neg is the negated translation so that evaluation only adds.
	neg []T
}

func (t *translate[T, S]) Dim() int { return len(t.neg) }

func (t *translate[T, S]) point(p []T) []T {
	q := make([]T, len(t.neg))
	for i, n := range t.neg {
		q[i] = p[i] + n
	}
	return q
}

func (t *translate[T, S]) Distance(p []T) T { return t.f.Distance(t.point(p)) }

func (t *translate[T, S]) State(p []T) S { return t.f.State(t.point(p)) }

func (t *translate[T, S]) DistanceAndState(p []T) (T, S) { return t.f.DistanceAndState(t.point(p)) }

// Scale scales the shape uniformly by factor around the origin. Is exact.
// factor must be positive.
func (s Shape[T, S]) Scale(factor T) Shape[T, S] {
	f := s.mustField()
	if !(factor > 0) {
		shapePanicf("Scale: non-positive scale factor %v", factor)
	}
	return Shape[T, S]{f: &scale[T, S]{f: f, scale: factor, inv: 1 / factor}}
}

type scale[T Scalar, S any] struct {
	f     Field[T, S]
	scale T
	inv   T
}

func (sc *scale[T, S]) Dim() int { return sc.f.Dim() }

func (sc *scale[T, S]) point(p []T) []T {
	q := make([]T, sc.f.Dim())
	for i := range q {
		q[i] = p[i] * sc.inv
	}
	return q
}

func (sc *scale[T, S]) Distance(p []T) T { return sc.f.Distance(sc.point(p)) * sc.scale }

func (sc *scale[T, S]) State(p []T) S { return sc.f.State(sc.point(p)) }

func (sc *scale[T, S]) DistanceAndState(p []T) (T, S) {
	d, st := sc.f.DistanceAndState(sc.point(p))
	return d * sc.scale, st
}

// Round grows the shape outwards by r, rounding its convex edges. A negative r shrinks the shape.
// Is exact if the shape is exact.
func (s Shape[T, S]) Round(r T) Shape[T, S] {
	return Shape[T, S]{f: &offset[T, S]{f: s.mustField(), off: r}}
}

type offset[T Scalar, S any] struct {
	f   Field[T, S]
	off T
}

func (o *offset[T, S]) Dim() int { return o.f.Dim() }

func (o *offset[T, S]) Distance(p []T) T { return o.f.Distance(p) - o.off }

func (o *offset[T, S]) State(p []T) S { return o.f.State(p) }

func (o *offset[T, S]) DistanceAndState(p []T) (T, S) {
	d, st := o.f.DistanceAndState(p)
	return d - o.off, st
}

// Thicken converts the surface of the shape into a shell of half width t.
// Points whose absolute distance to the original surface is less than t are inside.
func (s Shape[T, S]) Thicken(t T) Shape[T, S] {
	return Shape[T, S]{f: &shell[T, S]{f: s.mustField(), thick: t}}
}

type shell[T Scalar, S any] struct {
	f     Field[T, S]
	thick T
}

func (sh *shell[T, S]) Dim() int { return sh.f.Dim() }

func (sh *shell[T, S]) Distance(p []T) T { return absf(sh.f.Distance(p)) - sh.thick }

func (sh *shell[T, S]) State(p []T) S { return sh.f.State(p) }

func (sh *shell[T, S]) DistanceAndState(p []T) (T, S) {
	d, st := sh.f.DistanceAndState(p)
	return absf(d) - sh.thick, st
}

// Repeat is the infinite domain repetition operation. Each axis i is wrapped into
// [-spacing[i]/2, spacing[i]/2] so the shape repeats every spacing[i] along it.
// Distances are exact only if the shape fits within a single cell.
func (s Shape[T, S]) Repeat(spacing ...T) Shape[T, S] {
	f := s.mustField()
	mustDim("Repeat", f.Dim(), len(spacing))
	for i, sp := range spacing {
		if !(sp > 0) {
			shapePanicf("Repeat: non-positive spacing %v on axis %d", sp, i)
		}
	}
	return Shape[T, S]{f: &repeat[T, S]{f: f, spacing: append([]T(nil), spacing...)}}
}

type repeat[T Scalar, S any] struct {
	f       Field[T, S]
	spacing []T
}

func (r *repeat[T, S]) Dim() int { return len(r.spacing) }

func (r *repeat[T, S]) point(p []T) []T {
	q := make([]T, len(r.spacing))
	for i, sp := range r.spacing {
		q[i] = p[i] - sp*roundf(p[i]/sp)
	}
	return q
}

func (r *repeat[T, S]) Distance(p []T) T { return r.f.Distance(r.point(p)) }

func (r *repeat[T, S]) State(p []T) S { return r.f.State(r.point(p)) }

func (r *repeat[T, S]) DistanceAndState(p []T) (T, S) { return r.f.DistanceAndState(r.point(p)) }

// Invert swaps the inside and outside of the shape. Is exact if the shape is exact.
func (s Shape[T, S]) Invert() Shape[T, S] {
	return Shape[T, S]{f: &invert[T, S]{f: s.mustField()}}
}

type invert[T Scalar, S any] struct {
	f Field[T, S]
}

func (inv *invert[T, S]) Dim() int { return inv.f.Dim() }

func (inv *invert[T, S]) Distance(p []T) T { return -inv.f.Distance(p) }

func (inv *invert[T, S]) State(p []T) S { return inv.f.State(p) }

func (inv *invert[T, S]) DistanceAndState(p []T) (T, S) {
	d, st := inv.f.DistanceAndState(p)
	return -d, st
}

// Box places the shape behind a pointer indirection. The result evaluates exactly as
// the shape does and can be stored wherever a [Field] of the same type is expected,
// which makes it useful to build scenes recursively or from dynamically chosen parts.
func (s Shape[T, S]) Box() Shape[T, S] {
	return Shape[T, S]{f: &boxed[T, S]{f: s.mustField()}}
}

type boxed[T Scalar, S any] struct {
	f Field[T, S]
}

func (b *boxed[T, S]) Dim() int { return b.f.Dim() }

func (b *boxed[T, S]) Distance(p []T) T { return b.f.Distance(p) }

func (b *boxed[T, S]) State(p []T) S { return b.f.State(p) }

func (b *boxed[T, S]) DistanceAndState(p []T) (T, S) { return b.f.DistanceAndState(p) }
