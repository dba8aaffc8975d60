// Package weighted provides a weighted-sampling map and set: sorted
// associative containers in which every entry carries a numeric weight,
// supporting O(log n) insertion, removal, key lookup, weight update, and
// random selection of an entry with probability proportional to its weight.
//
// The containers are backed by the augmented red-black tree of the rbtree
// package, annotated with subtree weight sums. A sample descends the tree
// comparing a drawn position against the weight mass accumulated to the
// left of each node, so one uniform draw selects an entry in O(log n).
//
// Weights may be of any integer or floating-point type; the draw
// distribution is selected at compile time from the weight category. Zero
// weights are allowed (such entries are never sampled); negative weights
// are undefined behavior.
//
// # Usage Example
//
//	m := weighted.NewOrdered[string, int, float64]()
//	m.Insert("a", 1, 1.5)
//	m.Insert("b", 2, 0.0)
//	m.Insert("c", 3, 2.0)
//	c := m.Sample(rng) // "a" with probability 1.5/3.5, "c" with 2.0/3.5
//
// # Limitations
//
//   - Not Thread-Safe – Requires external synchronization for concurrent use.
//   - No Duplicate Keys – Keys must be unique under the ordering function.
package weighted

import (
	"fmt"
	"iter"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/gbalduzz/order-statistic-map/rbtree"
)

// Weight is the constraint on entry weight types: any integer or
// floating-point type. The category decides the sampling distribution:
// integer weights draw positions in [0, T-1], floating-point weights in
// [0, T).
type Weight interface {
	constraints.Integer | constraints.Float
}

// LessFunc is a comparison function used to define the ordering of keys.
type LessFunc[K any] = rbtree.LessFunc[K]

// weightAgg annotates every node with its own weight and the weight sum of
// its subtree.
type weightAgg[W Weight] struct {
	self W // this entry's weight
	sub  W // self + left subtree + right subtree
}

func (a weightAgg[W]) Combine(left, right weightAgg[W]) weightAgg[W] {
	return weightAgg[W]{self: a.self, sub: a.self + left.sub + right.sub}
}

// isFloat reports whether W is a floating-point type. The expression folds
// to a constant at instantiation time.
func isFloat[W Weight]() bool {
	return W(1)/W(2) != 0
}

// Entry is a key-value-weight triple used for bulk construction.
type Entry[K, V any, W Weight] struct {
	Key    K
	Value  V
	Weight W
}

// Map is a weighted-sampling map: a sorted map whose entries can be drawn
// at random with probability proportional to their weights.
//
// A Map must be created with New, NewOrdered, or NewFromEntries. It is not
// safe for concurrent use.
type Map[K, V any, W Weight] struct {
	t    *rbtree.Tree[K, V, weightAgg[W]]
	less LessFunc[K]
}

// New creates an empty Map ordered by the given comparison function.
func New[K, V any, W Weight](less LessFunc[K]) *Map[K, V, W] {
	return &Map[K, V, W]{
		t:    rbtree.New[K, V, weightAgg[W]](less),
		less: less,
	}
}

// NewOrdered creates an empty Map over a naturally ordered key type.
func NewOrdered[K constraints.Ordered, V any, W Weight]() *Map[K, V, W] {
	return New[K, V, W](rbtree.Ordered[K]())
}

// NewFromEntries creates a Map holding the given entries. Entries are
// added through the normal insert path; a later duplicate key overwrites
// the value of an earlier one and keeps the earlier weight.
func NewFromEntries[K, V any, W Weight](less LessFunc[K], entries []Entry[K, V, W]) *Map[K, V, W] {
	m := New[K, V, W](less)
	for _, e := range entries {
		m.Insert(e.Key, e.Value, e.Weight)
	}
	return m
}

// Insert adds a key-value pair with the given weight to the map.
//
// If the key already exists its value is overwritten in place; the
// existing weight and every subtree weight sum are left untouched.
//
// Returns:
//   - A cursor at the inserted or updated entry.
//   - true if a new entry was inserted, false if an existing one was updated.
func (m *Map[K, V, W]) Insert(key K, value V, weight W) (Cursor[K, V, W], bool) {
	n, inserted := m.t.Insert(key, value, weightAgg[W]{self: weight, sub: weight})
	return Cursor[K, V, W]{m: m, n: n}, inserted
}

// Erase removes the entry with the given key.
//
// Every strict ancestor's subtree weight sum is reduced by the removed
// entry's weight as part of the structural repair.
//
// Returns false if the key is not present; the map is unchanged in that
// case.
func (m *Map[K, V, W]) Erase(key K) bool {
	n, found := m.t.Search(key)
	if !found {
		return false
	}
	return m.t.Delete(n)
}

// EraseCursor removes the entry referenced by c. It panics if c is the
// null cursor or is bound to a different map.
//
// Cursors bound to other entries remain valid.
func (m *Map[K, V, W]) EraseCursor(c Cursor[K, V, W]) {
	if c.m != m {
		panic("weighted: cursor does not belong to this map")
	}
	if !c.Ok() {
		panic("weighted: erase of null cursor")
	}
	m.t.Delete(c.n)
}

// Find returns a cursor at the entry with the given key, or the null
// cursor if the key is absent.
func (m *Map[K, V, W]) Find(key K) Cursor[K, V, W] {
	n, _ := m.t.Search(key)
	return Cursor[K, V, W]{m: m, n: n}
}

// SetWeight changes the weight of the entry referenced by c, repairing the
// subtree weight sums on the path to the root. The cursor stays valid. It
// panics if c is the null cursor or is bound to a different map.
func (m *Map[K, V, W]) SetWeight(c Cursor[K, V, W], weight W) {
	if c.m != m {
		panic("weighted: cursor does not belong to this map")
	}
	c.mustOk("SetWeight")
	agg := m.t.Agg(c.n)
	agg.self = weight
	m.t.SetAgg(c.n, agg)
}

// TotalWeight returns the sum of all entry weights: the subtree weight sum
// stored at the root, or 0 for the empty map.
func (m *Map[K, V, W]) TotalWeight() W {
	return m.t.Agg(m.t.Root()).sub
}

// Size returns the number of entries. The count is cached, so this is an
// O(1) operation.
func (m *Map[K, V, W]) Size() int {
	return m.t.Size()
}

// Begin returns a cursor at the smallest key, or the null cursor if the
// map is empty.
func (m *Map[K, V, W]) Begin() Cursor[K, V, W] {
	return Cursor[K, V, W]{m: m, n: m.t.Min(m.t.Root())}
}

// Last returns a cursor at the largest key, or the null cursor if the map
// is empty.
func (m *Map[K, V, W]) Last() Cursor[K, V, W] {
	return Cursor[K, V, W]{m: m, n: m.t.Max(m.t.Root())}
}

// All returns an in-order iterator over the entries of the map. The yielded
// values are the key and the value; weights are read through cursors.
//
// The map must not be mutated during the iteration.
func (m *Map[K, V, W]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t := m.t
		for n := t.Min(t.Root()); !t.IsNil(n); n = t.Successor(n) {
			if !yield(t.Key(n), t.Value(n)) {
				return
			}
		}
	}
}

// Entries returns the contents of the map as a slice of entries in
// ascending key order.
func (m *Map[K, V, W]) Entries() []Entry[K, V, W] {
	out := make([]Entry[K, V, W], 0, m.Size())
	t := m.t
	for n := t.Min(t.Root()); !t.IsNil(n); n = t.Successor(n) {
		out = append(out, Entry[K, V, W]{Key: t.Key(n), Value: t.Value(n), Weight: t.Agg(n).self})
	}
	return out
}

// Clone returns a deep copy of the map. Every entry is re-inserted through
// the normal insert path, so the copy is balanced independently of the
// original's shape.
func (m *Map[K, V, W]) Clone() *Map[K, V, W] {
	out := New[K, V, W](m.less)
	t := m.t
	for n := t.Min(t.Root()); !t.IsNil(n); n = t.Successor(n) {
		out.Insert(t.Key(n), t.Value(n), t.Agg(n).self)
	}
	return out
}

// Clear removes all entries. Outstanding cursors are invalidated.
func (m *Map[K, V, W]) Clear() {
	m.t.Clear()
}

// String returns a visual rendering of the underlying tree, minimum key
// first. Useful in test logs.
func (m *Map[K, V, W]) String() string {
	return m.t.String()
}

// IsTreeValid verifies every container invariant: the structural and
// red-black checks of the underlying tree, plus the subtree weight sums.
// For integer weights the stored sums must match the recomputation from
// the children exactly; for floating-point weights they must match within
// a small relative tolerance (100 machine epsilons), since sums are not
// exactly reconstructible under rounding.
//
// Negative weights are undefined behavior and are not detected here.
//
// Returns nil if the map is valid, or an error describing the first
// detected violation.
func (m *Map[K, V, W]) IsTreeValid() error {
	if err := m.t.IsTreeValid(); err != nil {
		return err
	}

	t := m.t
	if t.IsNil(t.Root()) {
		return nil
	}

	eps := machineEpsilon[W]()
	var err error
	t.TraverseInOrder(t.Root(), func(n *rbtree.Node[K, V, weightAgg[W]]) bool {
		agg := t.Agg(n)
		want := agg.self + t.Agg(t.Left(n)).sub + t.Agg(t.Right(n)).sub
		if !weightsMatch(agg.sub, want, eps) {
			err = fmt.Errorf("subtree weight mismatch at node %v: stored %v, recomputed %v", t.Key(n), agg.sub, want)
			return false
		}
		return true
	})
	return err
}

// weightsMatch compares a stored subtree sum against its recomputation:
// exactly for integers, within 100 epsilons relative for floats.
func weightsMatch[W Weight](stored, want W, eps float64) bool {
	if !isFloat[W]() {
		return stored == want
	}
	s, w := float64(stored), float64(want)
	if s == w {
		return true
	}
	tol := 100 * eps * math.Max(math.Abs(s), math.Abs(w))
	return math.Abs(s-w) <= tol
}

// machineEpsilon returns the relative rounding unit of W for the float
// kinds, and 1 for the integer kinds (where it is unused).
func machineEpsilon[W Weight]() float64 {
	eps := W(1)
	for W(1)+eps/2 != W(1) {
		eps /= 2
	}
	return float64(eps)
}
