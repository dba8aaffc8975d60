// Package rbtree provides a generic, self-balancing red-black binary search
// tree augmented with a per-node aggregate annotation.
//
// The tree maintains the classic red-black invariants:
//   - The tree remains approximately balanced, maintaining O(log n) insertions, deletions, and lookups.
//   - No two consecutive red nodes appear in a path.
//   - All paths from the root to leaves contain the same number of black nodes.
//
// On top of the ordering structure, every node carries one aggregate value
// summarizing its subtree (see [Aggregate]). The tree repairs aggregates
// bottom-up on every structural mutation (rotations, insertions, and
// deletions), so a descent guided by the aggregates (rank selection,
// weighted sampling) always sees consistent values. The two concrete
// container packages in this module, ordstat and weighted, are built on
// this core: one annotates nodes with subtree counts, the other with
// subtree weight sums.
//
// # Node identity
//
// Nodes are allocated from a slab pool and their addresses are stable for
// as long as they are live. When a node with two children is deleted, the
// tree swaps it with its in-order successor by rewiring pointers; payloads
// are never copied between nodes. A *Node held by a caller therefore keeps
// referring to the same entry across arbitrary mutations that do not erase
// that entry.
//
// # Limitations
//
//   - Not Thread-Safe – Requires external synchronization for concurrent use.
//   - No Duplicate Keys – Keys must be unique under the ordering function.
package rbtree

import (
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/gbalduzz/order-statistic-map/pool"
)

// These "connectors" are used for the Tree.String method when drawing the tree.
const (
	connectorLeft     = " ╭── "
	connectorRight    = " ╰── "
	connectorVertical = " │   "
	connectorSpace    = "     "
)

// LessFunc is a comparison function used to define the ordering of keys.
//
// It should return true if 'a' is less than 'b', and false otherwise.
//
// For example, in a Tree where the key type is int:
//
//	lessFunc := func(a, b int) bool { return a < b }
//
// This function must define a strict total order to ensure correct behavior.
type LessFunc[K any] func(a, b K) bool

// Ordered returns the natural LessFunc for any ordered key type.
func Ordered[K constraints.Ordered]() LessFunc[K] {
	return func(a, b K) bool { return a < b }
}

// TraversalFunc defines a function type used for processing nodes during a
// tree traversal. The traversal continues as long as the function returns
// true; returning false stops it early.
type TraversalFunc[K, V any, A Aggregate[A]] func(node *Node[K, V, A]) bool

// Tree represents an augmented red-black tree.
//
// It stores Nodes containing key-value pairs and maintains order based on
// the provided LessFunc. The color bit and the aggregate annotation live in
// the nodes; absent children are represented by a single sentinel nil node
// whose color is black and whose aggregate is the zero value of A.
//
// The tree exclusively owns its nodes through an embedded slab pool; a Tree
// must not be copied after first use.
type Tree[K, V any, A Aggregate[A]] struct {
	root *Node[K, V, A] // Root node of the tree.
	less LessFunc[K]    // Function to compare keys and maintain order.
	nil  *Node[K, V, A] // Sentinel nil node.
	size int            // Total number of nodes.

	nodes pool.Pool[Node[K, V, A]]
}

// New creates and returns a new empty tree.
//
// The Tree is initialized with a user-provided LessFunc, which defines how
// keys are compared for ordering, and starts with no nodes. The sentinel
// nil node is black and carries the zero aggregate, so a child accessor on
// a leaf position yields a node whose Agg is the identity for Combine.
func New[K, V any, A Aggregate[A]](less LessFunc[K]) *Tree[K, V, A] {
	t := &Tree[K, V, A]{
		less: less,
		nil:  &Node[K, V, A]{color: Black},
	}
	t.root = t.nil
	t.root.parent = t.nil
	return t
}

// keyEq is a helper function that performs an equality check between keys
// using the LessFunc function.
func (t *Tree[K, V, A]) keyEq(a, b K) bool {
	return !t.less(a, b) && !t.less(b, a)
}

// refresh recomputes the aggregate of n from its children's aggregates.
// Callers must invoke it bottom-up: a node is refreshed only after every
// child whose aggregate changed has been refreshed.
func (t *Tree[K, V, A]) refresh(n *Node[K, V, A]) {
	n.agg = n.agg.Combine(n.left.agg, n.right.agg)
}

// refreshPath refreshes every node from n up to and including the root.
func (t *Tree[K, V, A]) refreshPath(n *Node[K, V, A]) {
	for ; n != t.nil; n = n.parent {
		t.refresh(n)
	}
}

// Less reports whether a orders strictly before b under the tree's ordering
// function.
func (t *Tree[K, V, A]) Less(a, b K) bool {
	return t.less(a, b)
}

// IsNil returns true if the given node n is the tree's sentinel nil node.
//
// The nil node is used to represent the absence of a real node in the tree.
func (t *Tree[K, V, A]) IsNil(n *Node[K, V, A]) bool {
	return n == t.nil
}

// Sentinel returns the tree's sentinel nil node.
func (t *Tree[K, V, A]) Sentinel() *Node[K, V, A] {
	return t.nil
}

// Root returns the root node of the tree.
//
// If the tree is empty, it returns the sentinel nil node.
func (t *Tree[K, V, A]) Root() *Node[K, V, A] {
	return t.root
}

// Size returns the total number of nodes in the tree.
//
// The count is maintained dynamically during insertions and deletions, so
// this is an O(1) operation.
func (t *Tree[K, V, A]) Size() int {
	return t.size
}

// Key returns the key of the given node n. Keys are immutable after
// insertion.
func (t *Tree[K, V, A]) Key(n *Node[K, V, A]) K {
	return n.key
}

// Value returns the value associated with the given node n.
func (t *Tree[K, V, A]) Value(n *Node[K, V, A]) V {
	return n.value
}

// SetValue replaces the value stored at node n. The key, the color, and the
// aggregate are unaffected.
func (t *Tree[K, V, A]) SetValue(n *Node[K, V, A], value V) {
	if n != nil && !t.IsNil(n) {
		n.value = value
	}
}

// Agg returns the aggregate annotation of the given node n. For the
// sentinel nil node this is the zero value of A.
func (t *Tree[K, V, A]) Agg(n *Node[K, V, A]) A {
	return n.agg
}

// SetAgg overwrites the aggregate stored at node n and repairs every
// ancestor by refreshing the path from n up to the root. This is how a
// weight-annotated container updates an entry's weight in O(log n).
func (t *Tree[K, V, A]) SetAgg(n *Node[K, V, A], agg A) {
	n.agg = agg
	t.refreshPath(n)
}

// Color returns the color of the given node n.
func (t *Tree[K, V, A]) Color(n *Node[K, V, A]) Color {
	return n.color
}

// Left returns the left child of the given node n.
//
// If the node has no left child, it returns the tree's sentinel nil node.
func (t *Tree[K, V, A]) Left(n *Node[K, V, A]) *Node[K, V, A] {
	return n.left
}

// Right returns the right child of the given node n.
//
// If the node has no right child, it returns the tree's sentinel nil node.
func (t *Tree[K, V, A]) Right(n *Node[K, V, A]) *Node[K, V, A] {
	return n.right
}

// Parent returns the parent of the given node n.
//
// If n is the root, it returns the tree's sentinel nil node.
func (t *Tree[K, V, A]) Parent(n *Node[K, V, A]) *Node[K, V, A] {
	return n.parent
}

// Min returns the node with the minimum key in the subtree rooted at n.
//
// This function traverses to the leftmost node of the subtree.
// If n is the sentinel nil node, it returns n.
func (t *Tree[K, V, A]) Min(n *Node[K, V, A]) *Node[K, V, A] {
	for n.left != nil && n.left != t.nil {
		n = n.left
	}
	return n
}

// Max returns the node with the maximum key in the subtree rooted at n.
//
// This function traverses to the rightmost node of the subtree.
// If n is the sentinel nil node, it returns n.
func (t *Tree[K, V, A]) Max(n *Node[K, V, A]) *Node[K, V, A] {
	for n.right != nil && n.right != t.nil {
		n = n.right
	}
	return n
}

// Search looks for a node with the given key in the tree.
//
// The search follows standard BST lookup rules:
//   - If the key matches the current node, it is returned.
//   - If the key is smaller, the search continues in the left subtree.
//   - If the key is larger, the search continues in the right subtree.
//
// Returns:
//   - (*Node[K, V, A], true) if the key exists in the tree.
//   - (sentinel, false) if the key is not found.
func (t *Tree[K, V, A]) Search(key K) (*Node[K, V, A], bool) {
	currNode := t.root

	// if we arrive at a nil node, then node is not in tree
	for currNode != t.nil {

		// if we've found the matching node, return it
		if t.keyEq(currNode.key, key) {
			return currNode, true
		}

		// traverse the tree in the direction of key
		if t.less(key, currNode.key) {
			currNode = currNode.left
		} else {
			currNode = currNode.right
		}
	}
	return t.nil, false
}

// Successor returns the in-order successor of the given node n.
//
// The successor is the smallest node that is greater than n in the tree.
//   - If n has a right subtree, the successor is the leftmost node in that subtree.
//   - Otherwise, the function moves up the tree until it finds a parent
//     where n is in the left subtree. That parent is the successor.
//
// If no successor exists, the sentinel nil node is returned.
func (t *Tree[K, V, A]) Successor(n *Node[K, V, A]) *Node[K, V, A] {
	if n.right != t.nil {
		return t.Min(n.right)
	}
	p := n.parent
	for p != t.nil && n != p.left {
		n = p
		p = p.parent
	}
	return p
}

// Predecessor returns the in-order predecessor of the given node n.
//
// The predecessor is the largest node in n's left subtree.
// If n has no left subtree, it moves up the tree until it finds a parent
// where n is in the right subtree. If no predecessor exists, it returns the
// sentinel nil node.
func (t *Tree[K, V, A]) Predecessor(n *Node[K, V, A]) *Node[K, V, A] {
	if n.left != t.nil {
		return t.Max(n.left)
	}
	p := n.parent
	for p != t.nil && n != p.right {
		n = p
		p = p.parent
	}
	return p
}

// rotateLeft performs a left rotation on the given node within the tree.
//
// A left rotation moves the node down while promoting its right child.
//
// Rotation steps:
//  1. The right child of the node becomes the new parent of the node.
//  2. The left child of the node's right subtree becomes the new right child of the node.
//  3. The node's right subtree replaces the node in the tree structure.
//
// The rotation ends by refreshing the aggregates of the demoted node first
// and its new parent second; the lower node must be refreshed before the
// node above it sees its result.
func (t *Tree[K, V, A]) rotateLeft(node *Node[K, V, A]) {
	if node == nil || node == t.nil || node.right == t.nil {
		return // No rotation possible if node is nil or has no right child
	}

	rightSubtree := node.right
	node.right = rightSubtree.left
	if rightSubtree.left != t.nil {
		rightSubtree.left.parent = node
	}

	rightSubtree.parent = node.parent
	if node.parent == t.nil {
		t.root = rightSubtree
	} else if node.parent.left == node {
		node.parent.left = rightSubtree
	} else {
		node.parent.right = rightSubtree
	}

	rightSubtree.left, node.parent = node, rightSubtree

	t.refresh(node)
	t.refresh(rightSubtree)
}

// rotateRight performs a right rotation on the given node within the tree.
//
// A right rotation moves the node down while promoting its left child.
// It mirrors rotateLeft, including the bottom-up aggregate refresh.
func (t *Tree[K, V, A]) rotateRight(node *Node[K, V, A]) {
	if node == nil || node == t.nil || node.left == t.nil {
		return // No rotation possible if node is nil or has no left child
	}

	leftSubtree := node.left
	node.left = leftSubtree.right
	if leftSubtree.right != t.nil {
		leftSubtree.right.parent = node
	}

	leftSubtree.parent = node.parent
	if node.parent == t.nil {
		t.root = leftSubtree
	} else if node.parent.left == node {
		node.parent.left = leftSubtree
	} else {
		node.parent.right = leftSubtree
	}

	leftSubtree.right, node.parent = node, leftSubtree

	t.refresh(node)
	t.refresh(leftSubtree)
}

// TraverseInOrder performs an in-order traversal of the tree starting from
// node n.
//
// TraverseInOrder uses recursion; tree height is O(log n), so stack depth is
// bounded.
//
// The traversal order is:
//  1. Recursively visit the left subtree.
//  2. Process the current node.
//  3. Recursively visit the right subtree.
//
// The function applies the user-provided function f to each visited node.
// If f returns false, the traversal stops early.
//
// Returns:
//   - true if the traversal completes successfully.
//   - false if f returns false, causing an early exit.
func (t *Tree[K, V, A]) TraverseInOrder(n *Node[K, V, A], f TraversalFunc[K, V, A]) bool {

	// Recurse the left children of n
	if n.left != nil && n.left != t.nil && !t.TraverseInOrder(n.left, f) {
		return false
	}

	// Process n
	if !f(n) {
		return false
	}

	// Recurse the right children of n
	if n.right != nil && n.right != t.nil && !t.TraverseInOrder(n.right, f) {
		return false
	}

	// Continue traversing
	return true
}

// Depth returns the depth of node n.
//
// The depth of a node is the number of edges from the root to the node.
// The root node has a depth of 0.
func (t *Tree[K, V, A]) Depth(n *Node[K, V, A]) int {
	h := 0
	for !t.IsNil(n.parent) {
		h++
		n = n.parent
	}
	return h
}

// IsLeaf returns true if the given node `n` has no children,
// meaning both its left and right pointers are nil.
func (t *Tree[K, V, A]) IsLeaf(n *Node[K, V, A]) bool {
	return n.left == t.nil && n.right == t.nil
}

// IsUnary returns true if the given node `n` has exactly one child
// (either left or right, but not both).
func (t *Tree[K, V, A]) IsUnary(n *Node[K, V, A]) bool {
	return (n.left == t.nil) != (n.right == t.nil) // Logical XOR
}

// Contains checks whether the given node n is present in the tree.
//
// The function searches for n's key in the tree and verifies that the
// returned node is the same as n. This ensures that the node belongs
// to this specific tree instance and is not an external or detached node.
func (t *Tree[K, V, A]) Contains(n *Node[K, V, A]) bool {
	if n == nil || t.IsNil(n) {
		return false
	}
	n2, found := t.Search(n.key)
	return found && n == n2
}

// String returns a visual representation of the tree.
//
// The tree is displayed in a structured format, resembling its actual shape.
// Nodes are printed with connectors indicating their relationships, making it
// easy to understand the hierarchy of the tree.
//
// The tree is ordered in ascending order, with the minimum node on the first line.
//
// The nodes are printed using the Node.String method.
//
// If the tree is empty, the function returns "Empty Tree".
func (t *Tree[K, V, A]) String() string {

	// if tree is empty, return early
	if t.root == t.nil {
		return "Empty Tree"
	}

	// prepare string builder
	builder := strings.Builder{}

	// prepare map to hold which levels to draw vertical lines
	verticalLineHeights := make(map[int]bool)

	// ascend the tree. for each node:
	t.TraverseInOrder(t.root, func(node *Node[K, V, A]) bool {
		// get height of node
		h := t.Depth(node)

		// if we are at a height that needs a vertical line, draw it,
		// otherwise draw a space
		for j := 0; j < h-1; j++ {
			if verticalLineHeights[j+1] {
				builder.WriteString(connectorVertical)
			} else {
				builder.WriteString(connectorSpace)
			}
		}

		// draw "connector" based on node orientation
		if node.parent != t.nil && node.parent.left == node {
			builder.WriteString(connectorLeft)
		} else if node.parent != t.nil && node.parent.right == node {
			builder.WriteString(connectorRight)
		}

		// print node key
		builder.WriteString(node.String())
		builder.WriteString("\n")

		// turn on/off vertical lines

		// if node parent is in the "right" direction ("down" in this representation),
		// turn on vertical lines for this height.
		if node.parent != t.nil && node.parent.left == node {
			verticalLineHeights[h] = true
		}
		// if node parent is in "left" direction ("up" in this representation),
		// turn off vertical lines for this height.
		if node.parent != t.nil && node.parent.right == node {
			verticalLineHeights[h] = false
		}
		// if node has right child ("down" in this representation),
		// turn on vertical lines for the next height (h+1).
		if node.right != t.nil {
			verticalLineHeights[h+1] = true
		} else {
			verticalLineHeights[h+1] = false
		}

		return true
	})

	// return the tree
	return builder.String()
}
