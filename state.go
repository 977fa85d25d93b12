package lightwalk

// Bind attaches state to a field which has none. The resulting shape reports state
// wherever it is evaluated, and wherever it wins a later combination:
//
//	red := lightwalk.Bind(bld.NewSphere(3), Red)
//	blue := lightwalk.Bind(bld.NewCube(3).Translate(2, 0, 0), Blue)
//	scene := red.Union(blue) // scene.State(p) is Red or Blue depending on the nearest shape.
//
// The distance of f is left untouched.
func Bind[T Scalar, S any](f Field[T, NoState], state S) Shape[T, S] {
	if f == nil {
		nilsdf("Bind")
	}
	f = unwrap(f)
	if f == nil {
		nilsdf("Bind")
	}
	return Shape[T, S]{f: &bound[T, S]{f: f, state: state}}
}

type bound[T Scalar, S any] struct {
	f     Field[T, NoState]
	state S
}

func (b *bound[T, S]) Dim() int { return b.f.Dim() }

func (b *bound[T, S]) Distance(p []T) T { return b.f.Distance(p) }

func (b *bound[T, S]) State([]T) S { return b.state }

func (b *bound[T, S]) DistanceAndState(p []T) (T, S) { return b.f.Distance(p), b.state }

// MapState transforms the state reported by f with fn, which must be a pure function.
// Since every combinator reports the state of the child that wins at a point,
// mapping the state of a combined shape is equivalent to mapping the state of each of its children.
// The distance of f is left untouched.
func MapState[T Scalar, In, Out any](f Field[T, In], fn func(In) Out) Shape[T, Out] {
	if f == nil || fn == nil {
		nilsdf("MapState")
	}
	f = unwrap(f)
	if f == nil {
		nilsdf("MapState")
	}
	return Shape[T, Out]{f: &mapped[T, In, Out]{f: f, fn: fn}}
}

type mapped[T Scalar, In, Out any] struct {
	f  Field[T, In]
	fn func(In) Out
}

func (m *mapped[T, In, Out]) Dim() int { return m.f.Dim() }

func (m *mapped[T, In, Out]) Distance(p []T) T { return m.f.Distance(p) }

func (m *mapped[T, In, Out]) State(p []T) Out { return m.fn(m.f.State(p)) }

func (m *mapped[T, In, Out]) DistanceAndState(p []T) (T, Out) {
	d, st := m.f.DistanceAndState(p)
	return d, m.fn(st)
}
