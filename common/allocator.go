package common

import "sync"

// Allocator hands out scratch float storage and takes it back when the caller is done.
// Components that need per-frame staging space take an Allocator at construction rather
// than allocating through a process-wide hook.
type Allocator interface {
	// Floats returns a slice of exactly n floats. The contents are unspecified.
	//
	// Parameters:
	//   - n: the required length
	//
	// Returns:
	//   - []float32: a slice of length n
	Floats(n int) []float32

	// Free returns a slice obtained from Floats. The caller must not use it afterwards.
	//
	// Parameters:
	//   - s: the slice to return
	Free(s []float32)
}

// heapAllocator allocates a fresh slice on every request.
type heapAllocator struct{}

// NewHeapAllocator returns an Allocator that uses plain make() and lets the garbage collector reclaim memory.
//
// Returns:
//   - Allocator: the heap allocator
func NewHeapAllocator() Allocator {
	return heapAllocator{}
}

func (heapAllocator) Floats(n int) []float32 {
	return make([]float32, n)
}

func (heapAllocator) Free([]float32) {}

// poolAllocator recycles float slices through a sync.Pool.
type poolAllocator struct {
	pool sync.Pool
}

// NewPoolAllocator returns an Allocator that reuses previously freed slices when they are large enough.
//
// Returns:
//   - Allocator: the pooling allocator
func NewPoolAllocator() Allocator {
	return &poolAllocator{
		pool: sync.Pool{
			New: func() any {
				s := make([]float32, 0, 256)
				return &s
			},
		},
	}
}

func (p *poolAllocator) Floats(n int) []float32 {
	sp := p.pool.Get().(*[]float32)
	if cap(*sp) < n {
		s := make([]float32, n)
		return s
	}
	return (*sp)[:n]
}

func (p *poolAllocator) Free(s []float32) {
	if s == nil {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
