// Package pool provides a slab allocator for fixed-size records.
//
// A Pool hands out pointers to cells of a single record type T. Cells are
// carved out of slabs, each a contiguous array of SlabSize cells allocated
// in one step, and recycled through a free stack. Because slabs are never
// resized or relocated, the address of a live cell is stable for the
// lifetime of the pool: releasing or acquiring other cells never moves it.
//
// This is the allocation strategy used by the tree containers in this
// module, which rely on node addresses staying put across arbitrary
// insertions and deletions.
//
// A Pool is not safe for concurrent use. A Pool must not be copied after
// first use; passing it around by pointer (or embedding it in a struct that
// is itself used by pointer) transfers ownership of all slabs in O(1).
package pool

// DefaultSlabSize is the number of cells per slab when none is configured.
const DefaultSlabSize = 256

// Pool is a slab allocator for values of type T.
//
// The zero value is ready to use and allocates DefaultSlabSize cells per
// slab.
type Pool[T any] struct {
	// SlabSize is the number of cells carved per slab. It is read each time
	// the pool grows; changing it afterwards only affects future slabs. Zero
	// means DefaultSlabSize.
	SlabSize int

	slabs [][]T
	free  []*T
	live  int
}

// New returns a pool that allocates slabSize cells per slab.
// A slabSize of zero or less selects DefaultSlabSize.
func New[T any](slabSize int) *Pool[T] {
	return &Pool[T]{SlabSize: slabSize}
}

// Acquire pops a free cell and returns its address. The cell holds the zero
// value of T. If the free stack is empty a new slab is allocated and all of
// its cells are threaded onto the stack first.
//
// Allocation failure of the underlying system surfaces as a runtime panic
// from make, before any pool state is modified.
func (p *Pool[T]) Acquire() *T {
	if len(p.free) == 0 {
		p.grow()
	}
	v := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.live++
	return v
}

// Release returns the cell at v to the free stack. The held value is cleared
// so that no references linger in the slab while the cell waits for reuse.
//
// v must have been returned by Acquire on this pool and must not be used
// after Release.
func (p *Pool[T]) Release(v *T) {
	var zero T
	*v = zero
	p.free = append(p.free, v)
	p.live--
}

// Live returns the number of cells currently acquired and not yet released.
func (p *Pool[T]) Live() int {
	return p.live
}

// Cap returns the total number of cells across all slabs, free or live.
func (p *Pool[T]) Cap() int {
	n := 0
	for _, s := range p.slabs {
		n += len(s)
	}
	return n
}

// grow allocates one slab and threads its cells onto the free stack.
func (p *Pool[T]) grow() {
	n := p.SlabSize
	if n <= 0 {
		n = DefaultSlabSize
	}
	slab := make([]T, n)
	p.slabs = append(p.slabs, slab)
	for i := range slab {
		p.free = append(p.free, &slab[i])
	}
}
