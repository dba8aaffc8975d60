package rbtree

import (
	"fmt"
	"strings"
)

// Aggregate is the capability a node annotation must provide so the tree can
// maintain it incrementally. An aggregate summarizes the subtree rooted at
// its node (for example a node count, or a weight sum) and is recomputed
// from the children's aggregates whenever a node's child set changes.
//
// Combine is called with the aggregates of the node's left and right
// children (the zero value of A stands for an absent child) and returns the
// node's own refreshed aggregate. Data the aggregate carries about the node
// itself, such as the node's own weight, is read from the receiver and must
// be preserved in the result.
//
// The constraint is resolved at compile time; there is no runtime dispatch
// on the aggregate kind.
type Aggregate[A any] interface {
	Combine(left, right A) A
}

// Color represents the color of a node in a Red-Black Tree.
//
// Nodes are either:
//   - Red (🟥), indicates a temporary imbalance during insertion/deletion.
//   - Black (⬛), maintains tree balancing properties.
type Color bool

const (
	Red   Color = false // Red-colored node
	Black Color = true  // Black-colored node
)

// String returns a Unicode representation of the node color.
//
// Nodes are either:
//   - Red: function will return "🟥"
//   - Black: function will return "⬛"
func (c Color) String() string {
	if c == Black {
		return "⬛"
	} else {
		return "🟥"
	}
}

// Node represents a single element within the tree.
//
// Each node stores a key-value pair, its color, one aggregate annotation,
// and references to its parent and child nodes. Nodes are allocated from
// the owning tree's pool, so a node's address never changes while it is
// live: deletions rewire pointers rather than moving payloads, which is
// what keeps cursors bound to unrelated nodes valid across mutations.
type Node[K, V any, A Aggregate[A]] struct {
	key                 K
	value               V
	parent, left, right *Node[K, V, A]
	color               Color
	agg                 A
}

// String returns a string representation of the node.
//
// The output format is "key: value [color]", where both key and value
// are converted to strings. If the key or value implements fmt.Stringer,
// its String() method is used; otherwise, fmt.Sprintf is used.
func (n *Node[K, V, A]) String() string {
	builder := new(strings.Builder)

	// write node key
	if s, ok := any(n.key).(fmt.Stringer); ok {
		builder.WriteString(s.String())
	} else {
		builder.WriteString(fmt.Sprintf("%v", n.key))
	}

	// separator between node & value
	builder.WriteString(": ")

	// write node value
	if s, ok := any(n.value).(fmt.Stringer); ok {
		builder.WriteString(s.String())
	} else {
		builder.WriteString(fmt.Sprintf("%v", n.value))
	}

	// write node color
	builder.WriteString(" [")
	builder.WriteString(n.color.String())
	builder.WriteString("]")

	return builder.String()
}
