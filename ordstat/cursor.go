package ordstat

import "github.com/gbalduzz/order-statistic-map/rbtree"

// Cursor is a non-owning reference to a map entry. The null cursor
// represents "no entry" and is returned by Find on a miss and by Next/Prev
// when iteration runs off either end.
//
// A cursor remains valid, and keeps referring to the same entry, across
// any insertion and any erasure that does not target that entry. Its
// lifetime must not exceed the map's.
type Cursor[K, V any] struct {
	m *Map[K, V]
	n *rbtree.Node[K, V, sizeAgg]
}

// Ok reports whether the cursor references a live entry.
func (c Cursor[K, V]) Ok() bool {
	return c.m != nil && c.n != nil && !c.m.t.IsNil(c.n)
}

// Key returns the key of the referenced entry. It panics on the null
// cursor.
func (c Cursor[K, V]) Key() K {
	c.mustOk("Key")
	return c.m.t.Key(c.n)
}

// Value returns the value of the referenced entry. It panics on the null
// cursor.
func (c Cursor[K, V]) Value() V {
	c.mustOk("Value")
	return c.m.t.Value(c.n)
}

// SetValue replaces the value of the referenced entry in place. It panics
// on the null cursor.
func (c Cursor[K, V]) SetValue(value V) {
	c.mustOk("SetValue")
	c.m.t.SetValue(c.n, value)
}

// Next returns a cursor at the in-order successor, or the null cursor when
// the referenced entry is the largest. Advancing the null cursor is a
// logic error and panics.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	c.mustOk("Next")
	return Cursor[K, V]{m: c.m, n: c.m.t.Successor(c.n)}
}

// Prev returns a cursor at the in-order predecessor, or the null cursor
// when the referenced entry is the smallest. Decrementing the null cursor
// is a logic error and panics.
func (c Cursor[K, V]) Prev() Cursor[K, V] {
	c.mustOk("Prev")
	return Cursor[K, V]{m: c.m, n: c.m.t.Predecessor(c.n)}
}

// Rank returns the number of keys in the map strictly less than the
// cursor's key, i.e. the zero-based position of the entry in sorted order.
// It panics on the null cursor.
//
// The rank starts as the left subtree count and is corrected while
// climbing to the root: each time the climb leaves a right child, the
// parent and its left subtree lie before the entry.
func (c Cursor[K, V]) Rank() int {
	c.mustOk("Rank")
	t := c.m.t
	n := c.n
	r := t.Agg(t.Left(n)).n
	for !t.IsNil(t.Parent(n)) {
		p := t.Parent(n)
		if n == t.Right(p) {
			r += t.Agg(t.Left(p)).n + 1
		}
		n = p
	}
	return r
}

func (c Cursor[K, V]) mustOk(op string) {
	if !c.Ok() {
		panic("ordstat: " + op + " on null cursor")
	}
}
