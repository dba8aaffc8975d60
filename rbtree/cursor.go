package rbtree

// Cursor is a non-owning reference to a live node, supporting dereference
// and bidirectional in-order movement. The zero Cursor, and any cursor
// whose node is the sentinel, is the null cursor: it represents the
// position one past either end of the tree.
//
// A cursor bound to a node remains valid, and keeps referring to the same
// entry, across any insertion and any erasure that does not target that
// node. A cursor's lifetime must not exceed its tree's.
type Cursor[K, V any, A Aggregate[A]] struct {
	tree *Tree[K, V, A]
	node *Node[K, V, A]
}

// CursorAt returns a cursor bound to node n. Passing the sentinel (or nil)
// yields the null cursor.
func (t *Tree[K, V, A]) CursorAt(n *Node[K, V, A]) Cursor[K, V, A] {
	if n == nil || t.IsNil(n) {
		return Cursor[K, V, A]{tree: t}
	}
	return Cursor[K, V, A]{tree: t, node: n}
}

// Begin returns a cursor at the smallest key, or the null cursor if the
// tree is empty.
func (t *Tree[K, V, A]) Begin() Cursor[K, V, A] {
	return t.CursorAt(t.Min(t.root))
}

// Last returns a cursor at the largest key, or the null cursor if the tree
// is empty.
func (t *Tree[K, V, A]) Last() Cursor[K, V, A] {
	return t.CursorAt(t.Max(t.root))
}

// Ok reports whether the cursor references a live node. The null cursor
// returns false.
func (c Cursor[K, V, A]) Ok() bool {
	return c.node != nil && !c.tree.IsNil(c.node)
}

// Node returns the referenced node, or nil for the null cursor.
func (c Cursor[K, V, A]) Node() *Node[K, V, A] {
	if !c.Ok() {
		return nil
	}
	return c.node
}

// Tree returns the tree this cursor is bound to, or nil for the zero
// cursor.
func (c Cursor[K, V, A]) Tree() *Tree[K, V, A] {
	return c.tree
}

// Key returns the key of the referenced entry. It panics on the null
// cursor.
func (c Cursor[K, V, A]) Key() K {
	c.mustOk("Key")
	return c.node.key
}

// Value returns the value of the referenced entry. It panics on the null
// cursor.
func (c Cursor[K, V, A]) Value() V {
	c.mustOk("Value")
	return c.node.value
}

// SetValue replaces the value of the referenced entry in place. It panics
// on the null cursor.
func (c Cursor[K, V, A]) SetValue(value V) {
	c.mustOk("SetValue")
	c.node.value = value
}

// Next returns a cursor at the in-order successor of the referenced entry,
// or the null cursor if the entry is the largest. It panics on the null
// cursor: advancing past the end is a logic error.
func (c Cursor[K, V, A]) Next() Cursor[K, V, A] {
	c.mustOk("Next")
	return c.tree.CursorAt(c.tree.Successor(c.node))
}

// Prev returns a cursor at the in-order predecessor of the referenced
// entry, or the null cursor if the entry is the smallest. It panics on the
// null cursor.
func (c Cursor[K, V, A]) Prev() Cursor[K, V, A] {
	c.mustOk("Prev")
	return c.tree.CursorAt(c.tree.Predecessor(c.node))
}

func (c Cursor[K, V, A]) mustOk(op string) {
	if !c.Ok() {
		panic("rbtree: " + op + " on null cursor")
	}
}
