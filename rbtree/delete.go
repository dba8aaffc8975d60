package rbtree

// Delete removes the given node z from the tree while maintaining the
// red-black and aggregate invariants, and releases z back to the pool.
//
// If z has two children it is first swapped with its in-order successor by
// rewiring pointers. The successor node keeps its address and simply moves
// to z's position, so any caller still holding it continues to reference
// the same entry; payloads are never copied between nodes. Colors travel
// with the position, not the node, as the rebalancing below operates on the
// shape of the tree.
//
// After the physical unlink, every aggregate on the path from the removal
// point to the root is recomputed bottom-up. This single pass repairs both
// the ancestors of the removed entry and, in the swap case, the nodes on
// the sub-path between the successor's old and new positions.
//
// Returns false if z is nil or the sentinel, true otherwise.
func (t *Tree[K, V, A]) Delete(z *Node[K, V, A]) bool {
	// if nil input, don't delete anything and give nil output
	if z == nil || t.IsNil(z) {
		return false
	}

	// reduce to the at-most-one-child case
	if !t.IsNil(z.left) && !t.IsNil(z.right) {
		t.swapWithSuccessor(z)
	}

	// replace z with its only child (possibly the sentinel)
	x := z.left
	if t.IsNil(x) {
		x = z.right
	}
	x.parent = z.parent // sentinel parent is set too; fixup climbs through it
	if t.IsNil(z.parent) {
		t.root = x
	} else if z == z.parent.left {
		z.parent.left = x
	} else {
		z.parent.right = x
	}

	// repair aggregates from the removal point to the root before any
	// rebalancing rotation reads them
	t.refreshPath(x.parent)

	// removing a black node leaves one path a black short; fix up
	if z.color == Black {
		t.deleteFixup(x)
	}
	t.resetSentinel()
	t.size--
	t.nodes.Release(z)
	return true
}

// swapWithSuccessor exchanges the tree positions of z and its in-order
// successor by rewiring pointers. z must have two children; afterwards z
// sits where the successor was and has at most one (right) child.
//
// Colors are exchanged along with the positions. Aggregates are left stale
// on purpose: the caller's refresh pass over the removal path recomputes
// every affected node, and the path from the successor's old position to
// the root covers the successor's new position as well.
func (t *Tree[K, V, A]) swapWithSuccessor(z *Node[K, V, A]) {
	y := t.Min(z.right) // successor; has no left child

	z.color, y.color = y.color, z.color

	zp, zl, zr := z.parent, z.left, z.right
	yp, yr := y.parent, y.right

	// y takes z's position
	if t.IsNil(zp) {
		t.root = y
	} else if zp.left == z {
		zp.left = y
	} else {
		zp.right = y
	}
	y.parent = zp
	y.left = zl
	zl.parent = y

	if y == zr {
		// successor is z's direct right child; z slides below y
		y.right = z
		z.parent = y
	} else {
		y.right = zr
		zr.parent = y
		// y was the leftmost node of z's right subtree
		yp.left = z
		z.parent = yp
	}

	// z takes y's old child set
	z.left = t.nil
	z.right = yr
	if !t.IsNil(yr) {
		yr.parent = z
	}
}

// deleteFixup restores the red-black properties after a node deletion.
//
// The removed node was black, so the paths through its replacement x are
// one black node short ("double black"). The imbalance is resolved by
// applying four sibling cases, iterating up the tree until balance is
// restored:
//
//  1. Sibling is red: Perform rotation and recoloring.
//  2. Sibling and its children are black: Recolor sibling and move problem up the tree.
//  3. Sibling has one red child (far side is black): Rotate sibling and recolor.
//  4. Sibling's far child is red: Rotate parent, recolor, and terminate.
//
// Rotations refresh the aggregates of the nodes they pivot; recolorings do
// not touch aggregates.
func (t *Tree[K, V, A]) deleteFixup(x *Node[K, V, A]) {
	for x != t.root && t.isBlack(x) {
		if x == x.parent.left { // is x a left child?
			w := x.parent.right
			if t.isRed(w) {

				// case 1
				t.setColor(w, Black)
				t.setColor(x.parent, Red)
				t.rotateLeft(x.parent)
				w = x.parent.right

			}
			if t.isBlack(w.left) && t.isBlack(w.right) {

				// case 2
				t.setColor(w, Red)
				x = x.parent

			} else {

				if t.isBlack(w.right) {

					// case 3
					t.setColor(w.left, Black)
					t.setColor(w, Red)
					t.rotateRight(w)
					w = x.parent.right
				}

				// case 4
				t.setColor(w, x.parent.color)
				t.setColor(x.parent, Black)
				t.setColor(w.right, Black)
				t.rotateLeft(x.parent)
				x = t.root
			}
		} else {

			// same as above but with right and left exchanged

			w := x.parent.left
			if t.isRed(w) {

				// case 1
				t.setColor(w, Black)
				t.setColor(x.parent, Red)
				t.rotateRight(x.parent)
				w = x.parent.left

			}
			if t.isBlack(w.right) && t.isBlack(w.left) {

				// case 2
				t.setColor(w, Red)
				x = x.parent

			} else {

				if t.isBlack(w.left) {

					// case 3
					t.setColor(w.right, Black)
					t.setColor(w, Red)
					t.rotateLeft(w)
					w = x.parent.left
				}

				// case 4
				t.setColor(w, x.parent.color)
				t.setColor(x.parent, Black)
				t.setColor(w.left, Black)
				t.rotateRight(x.parent)
				x = t.root
			}
		}
	}
	t.setColor(x, Black)
}

// resetSentinel re-initializes the sentinel nil node.
//
// The deletion path temporarily points the sentinel's parent at a real node
// so the fixup can climb through it. This function restores the sentinel to
// its pristine state: no children, itself as parent, black, zero aggregate.
func (t *Tree[K, V, A]) resetSentinel() {
	var zero A
	t.nil.left = nil
	t.nil.right = nil
	t.nil.parent = t.nil
	t.nil.color = Black
	t.nil.agg = zero
}

// Clear removes every node from the tree, returning all of them to the
// pool. Cursors and node pointers into the tree are invalidated.
func (t *Tree[K, V, A]) Clear() {
	var release func(n *Node[K, V, A])
	release = func(n *Node[K, V, A]) {
		if t.IsNil(n) {
			return
		}
		release(n.left)
		release(n.right)
		t.nodes.Release(n)
	}
	release(t.root)
	t.root = t.nil
	t.resetSentinel()
	t.size = 0
}
