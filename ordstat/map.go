// Package ordstat provides an order-statistic map and set: sorted
// associative containers with O(log n) insertion, removal, key lookup, and
// lookup by rank (access of the entry with the i-th smallest key).
//
// The containers are backed by the augmented red-black tree of the rbtree
// package, annotated with subtree node counts. Rank selection descends the
// tree guided by the counts; the rank of a cursor climbs the parent links.
//
// # Usage Example
//
//	m := ordstat.NewOrdered[string, int]()
//	m.Insert("foo", 2)
//	m.Insert("bar", 1)
//	c := m.FindByRank(0) // cursor at "bar", the smallest key
//
// # Limitations
//
//   - Not Thread-Safe – Requires external synchronization for concurrent use.
//   - No Duplicate Keys – Keys must be unique under the ordering function.
package ordstat

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"

	"github.com/gbalduzz/order-statistic-map/rbtree"
)

// LessFunc is a comparison function used to define the ordering of keys.
type LessFunc[K any] = rbtree.LessFunc[K]

// sizeAgg annotates every node with the number of nodes in its subtree.
type sizeAgg struct {
	n int
}

func (sizeAgg) Combine(left, right sizeAgg) sizeAgg {
	return sizeAgg{n: 1 + left.n + right.n}
}

// Entry is a key-value pair used for bulk construction.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Map is an order-statistic map: a sorted map that additionally supports
// lookup by rank in O(log n).
//
// A Map must be created with New, NewOrdered, or NewFromEntries. It is not
// safe for concurrent use.
type Map[K, V any] struct {
	t    *rbtree.Tree[K, V, sizeAgg]
	less LessFunc[K]
}

// New creates an empty Map ordered by the given comparison function.
func New[K, V any](less LessFunc[K]) *Map[K, V] {
	return &Map[K, V]{
		t:    rbtree.New[K, V, sizeAgg](less),
		less: less,
	}
}

// NewOrdered creates an empty Map over a naturally ordered key type.
func NewOrdered[K constraints.Ordered, V any]() *Map[K, V] {
	return New[K, V](rbtree.Ordered[K]())
}

// NewFromEntries creates a Map holding the given entries. Entries are added
// through the normal insert path, so the tree is balanced regardless of the
// input order; a later duplicate key overwrites the value of an earlier one.
func NewFromEntries[K, V any](less LessFunc[K], entries []Entry[K, V]) *Map[K, V] {
	m := New[K, V](less)
	for _, e := range entries {
		m.Insert(e.Key, e.Value)
	}
	return m
}

// Insert adds a key-value pair to the map.
//
// If the key already exists its value is overwritten in place and no
// structural change happens.
//
// Returns:
//   - A cursor at the inserted or updated entry.
//   - true if a new entry was inserted, false if an existing one was updated.
func (m *Map[K, V]) Insert(key K, value V) (Cursor[K, V], bool) {
	n, inserted := m.t.Insert(key, value, sizeAgg{n: 1})
	return Cursor[K, V]{m: m, n: n}, inserted
}

// Erase removes the entry with the given key.
//
// Returns false if the key is not present; the map is unchanged in that
// case.
func (m *Map[K, V]) Erase(key K) bool {
	n, found := m.t.Search(key)
	if !found {
		return false
	}
	return m.t.Delete(n)
}

// EraseCursor removes the entry referenced by c. It panics if c is the null
// cursor or is bound to a different map: erasing through a foreign cursor
// is a logic error, not a recoverable condition.
//
// Cursors bound to other entries remain valid.
func (m *Map[K, V]) EraseCursor(c Cursor[K, V]) {
	if c.m != m {
		panic("ordstat: cursor does not belong to this map")
	}
	if !c.Ok() {
		panic("ordstat: erase of null cursor")
	}
	m.t.Delete(c.n)
}

// Find returns a cursor at the entry with the given key, or the null
// cursor if the key is absent.
func (m *Map[K, V]) Find(key K) Cursor[K, V] {
	n, _ := m.t.Search(key)
	return Cursor[K, V]{m: m, n: n}
}

// FindByRank returns a cursor at the entry with the i-th smallest key
// (zero-based). It panics unless 0 <= i < Size().
//
// The lookup descends from the root guided by the subtree counts, so it
// costs O(log n) comparisons of integers, not keys.
func (m *Map[K, V]) FindByRank(i int) Cursor[K, V] {
	if i < 0 || i >= m.Size() {
		panic(fmt.Sprintf("ordstat: rank %d out of range [0, %d)", i, m.Size()))
	}
	t := m.t
	n := t.Root()
	for {
		l := t.Agg(t.Left(n)).n
		switch {
		case i == l:
			return Cursor[K, V]{m: m, n: n}
		case i < l:
			n = t.Left(n)
		default:
			i -= l + 1
			n = t.Right(n)
		}
	}
}

// Size returns the number of entries: the subtree count stored at the
// root, or 0 for the empty map.
func (m *Map[K, V]) Size() int {
	return m.t.Agg(m.t.Root()).n
}

// Begin returns a cursor at the smallest key, or the null cursor if the
// map is empty.
func (m *Map[K, V]) Begin() Cursor[K, V] {
	return Cursor[K, V]{m: m, n: m.t.Min(m.t.Root())}
}

// Last returns a cursor at the largest key, or the null cursor if the map
// is empty.
func (m *Map[K, V]) Last() Cursor[K, V] {
	return Cursor[K, V]{m: m, n: m.t.Max(m.t.Root())}
}

// All returns an in-order iterator over the entries of the map.
//
// The map must not be mutated during the iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t := m.t
		for n := t.Min(t.Root()); !t.IsNil(n); n = t.Successor(n) {
			if !yield(t.Key(n), t.Value(n)) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the map. Every entry is re-inserted through
// the normal insert path, so the copy is balanced independently of the
// original's shape; keys and values are copied by assignment.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := New[K, V](m.less)
	for k, v := range m.All() {
		out.Insert(k, v)
	}
	return out
}

// Clear removes all entries. Outstanding cursors are invalidated.
func (m *Map[K, V]) Clear() {
	m.t.Clear()
}

// String returns a visual rendering of the underlying tree, minimum key
// first. Useful in test logs.
func (m *Map[K, V]) String() string {
	return m.t.String()
}

// IsTreeValid verifies every container invariant: the structural and
// red-black checks of the underlying tree, plus the subtree counts (each
// stored count must equal the recomputation from the children, and the
// root count must equal the tracked size).
//
// Returns nil if the map is valid, or an error describing the first
// detected violation.
func (m *Map[K, V]) IsTreeValid() error {
	if err := m.t.IsTreeValid(); err != nil {
		return err
	}

	t := m.t
	if t.IsNil(t.Root()) {
		return nil
	}

	var err error
	t.TraverseInOrder(t.Root(), func(n *rbtree.Node[K, V, sizeAgg]) bool {
		want := 1 + t.Agg(t.Left(n)).n + t.Agg(t.Right(n)).n
		if t.Agg(n).n != want {
			err = fmt.Errorf("subtree count mismatch at node %v: stored %d, recomputed %d", t.Key(n), t.Agg(n).n, want)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	if got := t.Agg(t.Root()).n; got != t.Size() {
		return fmt.Errorf("root subtree count %d does not match size %d", got, t.Size())
	}
	return nil
}
