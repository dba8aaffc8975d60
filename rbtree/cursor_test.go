package rbtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_iteration(t *testing.T) {
	tree := newTestTree()
	keys := []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77}
	for _, k := range keys {
		insertKey(tree, k)
	}

	// forward iteration yields the sorted keys
	var forward []int
	for c := tree.Begin(); c.Ok(); c = c.Next() {
		forward = append(forward, c.Key())
	}
	assert.Equal(t, []int{1, 3, 4, 11, 12, 14, 50, 69, 77, 82}, forward)

	// backward iteration yields the reverse
	var backward []int
	for c := tree.Last(); c.Ok(); c = c.Prev() {
		backward = append(backward, c.Key())
	}
	assert.Equal(t, []int{82, 77, 69, 50, 14, 12, 11, 4, 3, 1}, backward)
}

func TestCursor_emptyTree(t *testing.T) {
	tree := newTestTree()
	assert.False(t, tree.Begin().Ok())
	assert.False(t, tree.Last().Ok())
}

func TestCursor_nullPanics(t *testing.T) {
	tree := newTestTree()
	null := tree.CursorAt(tree.Sentinel())

	assert.Panics(t, func() { null.Next() })
	assert.Panics(t, func() { null.Prev() })
	assert.Panics(t, func() { null.Key() })
	assert.Panics(t, func() { _ = null.Value() })
	assert.Panics(t, func() { null.SetValue(struct{}{}) })
}

// TestCursor_stability verifies that a cursor keeps referring to its entry
// across insertions and erasures of other entries.
func TestCursor_stability(t *testing.T) {
	tree := New[int, string, countAgg](Ordered[int]())
	for i := 0; i < 50; i++ {
		tree.Insert(i*2, "even", countAgg{n: 1})
	}

	n, found := tree.Search(48)
	require.True(t, found)
	c := tree.CursorAt(n)

	// unrelated churn: interleave inserts and deletes
	for i := 0; i < 50; i++ {
		tree.Insert(i*2+1, "odd", countAgg{n: 1})
	}
	for i := 0; i < 30; i++ {
		victim, ok := tree.Search(i)
		require.True(t, ok)
		tree.Delete(victim)
	}
	require.NoError(t, tree.IsTreeValid())

	assert.True(t, c.Ok())
	assert.Equal(t, 48, c.Key())
	assert.Equal(t, "even", c.Value())

	c.SetValue("still even")
	got, _ := tree.Search(48)
	assert.Equal(t, "still even", tree.Value(got))
}
