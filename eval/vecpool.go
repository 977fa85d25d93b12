package eval

import (
	"errors"
	"fmt"
	"sync"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// VecPool provides reusable buffers for batched evaluation. Pass a *VecPool as
// userData to [SDF3.Evaluate] and helpers such as [NormalsCentralDiff] so that they
// need not allocate on every call. The zero value is ready to use and safe for concurrent use.
type VecPool struct {
	V3    bufPool[ms3.Vec]
	V2    bufPool[ms2.Vec]
	Float bufPool[float32]
}

// GetVecPool extracts a *VecPool from v, which is either a *VecPool or
// implements interface{ VecPool() *VecPool }.
func GetVecPool(v any) (*VecPool, error) {
	switch vp := v.(type) {
	case *VecPool:
		if vp == nil {
			return nil, errors.New("nil VecPool")
		}
		return vp, nil
	case interface{ VecPool() *VecPool }:
		got := vp.VecPool()
		if got == nil {
			return nil, fmt.Errorf("%T returned nil VecPool", v)
		}
		return got, nil
	case nil:
		return nil, errors.New("nil userData, VecPool required")
	}
	return nil, fmt.Errorf("want userData of type *VecPool, got %T", v)
}

// AssertAllReleased returns an error if any buffer acquired from the pool was not released.
func (vp *VecPool) AssertAllReleased() error {
	return errors.Join(vp.V3.assertAllReleased("V3"), vp.V2.assertAllReleased("V2"), vp.Float.assertAllReleased("Float"))
}

type bufPool[T any] struct {
	mu       sync.Mutex
	bufs     [][]T
	acquired []bool
}

// Acquire returns a buffer of length n. It must be returned with Release after use.
func (bp *bufPool[T]) Acquire(n int) []T {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for i, buf := range bp.bufs {
		if !bp.acquired[i] && cap(buf) >= n {
			bp.acquired[i] = true
			return buf[:n]
		}
	}
	buf := make([]T, n, max(n, 1))
	bp.bufs = append(bp.bufs, buf)
	bp.acquired = append(bp.acquired, true)
	return buf
}

// Release returns buf to the pool. It returns an error if buf was not acquired from the pool.
func (bp *bufPool[T]) Release(buf []T) error {
	if cap(buf) == 0 {
		return errors.New("release of empty buffer")
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for i, b := range bp.bufs {
		if &b[:cap(b)][cap(b)-1] == &buf[:cap(buf)][cap(buf)-1] {
			if !bp.acquired[i] {
				return errors.New("double release of buffer")
			}
			bp.acquired[i] = false
			return nil
		}
	}
	return errors.New("release of buffer not owned by pool")
}

// NumBuffers returns the amount of buffers allocated by the pool.
func (bp *bufPool[T]) NumBuffers() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.bufs)
}

func (bp *bufPool[T]) assertAllReleased(name string) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for i, acq := range bp.acquired {
		if acq {
			return fmt.Errorf("%s buffer %d of length %d not released", name, i, len(bp.bufs[i]))
		}
	}
	return nil
}
