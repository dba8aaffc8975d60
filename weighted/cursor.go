package weighted

import "github.com/gbalduzz/order-statistic-map/rbtree"

// Cursor is a non-owning reference to a map entry. The null cursor
// represents "no entry" and is returned by Find on a miss, by the sampling
// operations when nothing can be drawn, and by Next/Prev when iteration
// runs off either end.
//
// A cursor remains valid, and keeps referring to the same entry, across
// any insertion, any weight update, and any erasure that does not target
// that entry. Its lifetime must not exceed the map's.
type Cursor[K, V any, W Weight] struct {
	m *Map[K, V, W]
	n *rbtree.Node[K, V, weightAgg[W]]
}

// Ok reports whether the cursor references a live entry.
func (c Cursor[K, V, W]) Ok() bool {
	return c.m != nil && c.n != nil && !c.m.t.IsNil(c.n)
}

// Key returns the key of the referenced entry. It panics on the null
// cursor.
func (c Cursor[K, V, W]) Key() K {
	c.mustOk("Key")
	return c.m.t.Key(c.n)
}

// Value returns the value of the referenced entry. It panics on the null
// cursor.
func (c Cursor[K, V, W]) Value() V {
	c.mustOk("Value")
	return c.m.t.Value(c.n)
}

// SetValue replaces the value of the referenced entry in place. It panics
// on the null cursor.
func (c Cursor[K, V, W]) SetValue(value V) {
	c.mustOk("SetValue")
	c.m.t.SetValue(c.n, value)
}

// Weight returns the weight of the referenced entry. It panics on the
// null cursor.
func (c Cursor[K, V, W]) Weight() W {
	c.mustOk("Weight")
	return c.m.t.Agg(c.n).self
}

// Next returns a cursor at the in-order successor, or the null cursor when
// the referenced entry is the largest. Advancing the null cursor is a
// logic error and panics.
func (c Cursor[K, V, W]) Next() Cursor[K, V, W] {
	c.mustOk("Next")
	return Cursor[K, V, W]{m: c.m, n: c.m.t.Successor(c.n)}
}

// Prev returns a cursor at the in-order predecessor, or the null cursor
// when the referenced entry is the smallest. Decrementing the null cursor
// is a logic error and panics.
func (c Cursor[K, V, W]) Prev() Cursor[K, V, W] {
	c.mustOk("Prev")
	return Cursor[K, V, W]{m: c.m, n: c.m.t.Predecessor(c.n)}
}

func (c Cursor[K, V, W]) mustOk(op string) {
	if !c.Ok() {
		panic("weighted: " + op + " on null cursor")
	}
}
