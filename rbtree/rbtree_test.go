package rbtree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countAgg is the aggregate used by the core tests: the number of nodes in
// the subtree. The concrete containers bring their own aggregate kinds; the
// core is exercised here with the simplest one.
type countAgg struct {
	n int
}

func (countAgg) Combine(left, right countAgg) countAgg {
	return countAgg{n: 1 + left.n + right.n}
}

func newTestTree() *Tree[int, struct{}, countAgg] {
	return New[int, struct{}, countAgg](Ordered[int]())
}

func insertKey(tree *Tree[int, struct{}, countAgg], k int) (*Node[int, struct{}, countAgg], bool) {
	return tree.Insert(k, struct{}{}, countAgg{n: 1})
}

// requireCountsValid walks the tree and checks every stored aggregate
// against a recomputation from the children.
func requireCountsValid(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
	t.Helper()
	if tree.IsNil(tree.Root()) {
		return
	}
	tree.TraverseInOrder(tree.Root(), func(n *Node[int, struct{}, countAgg]) bool {
		want := 1 + tree.Agg(tree.Left(n)).n + tree.Agg(tree.Right(n)).n
		require.Equal(t, want, tree.Agg(n).n, "subtree count mismatch at node %d", tree.Key(n))
		return true
	})
	require.Equal(t, tree.Size(), tree.Agg(tree.Root()).n, "root count should equal tree size")
}

// FuzzTree inserts 10 nodes and deletes between 1 and 10 of them.
// Tree validity and aggregate consistency are checked after each insert and
// delete.
func FuzzTree(f *testing.F) {
	f.Add(1, 11, 12, 69, 4, 14, 82, 50, 77, 3, 10)
	f.Fuzz(func(t *testing.T, k1, k2, k3, k4, k5, k6, k7, k8, k9, k10, deleteKeys int) {
		if deleteKeys < 0 || deleteKeys > 9 {
			return
		}

		// create tree
		tree := newTestTree()

		// insert nodes
		keys := []int{k1, k2, k3, k4, k5, k6, k7, k8, k9, k10}
		t.Logf("input: %v", keys)
		for _, k := range keys {

			// insert node
			t.Logf("inserting node: %d", k)
			insertKey(tree, k)

			// check
			t.Logf("rbtree after insert of node %d:\n%s", k, tree)
			err := tree.IsTreeValid()
			if err != nil {
				t.Error(err)
			}
			requireCountsValid(t, tree)
		}

		// delete nodes
		deletedNodes := map[int]struct{}{}
		for i := 0; i <= deleteKeys; i++ {
			t.Logf("deleting node: %d", keys[i])

			// has the node already been deleted?
			_, alreadyDeleted := deletedNodes[keys[i]]

			// search for node
			n, found := tree.Search(keys[i])
			if !found && !alreadyDeleted {
				// if node not found and hasn't already been deleted, something is wrong
				t.Errorf("node %d not found", keys[i])
			}

			// delete node
			deleted := tree.Delete(n)
			if !deleted && !alreadyDeleted {
				// if node not deleted and hasn't already been deleted, something is wrong
				t.Errorf("node %d not deleted", keys[i])
			}

			// check validity of tree
			if !alreadyDeleted {
				t.Logf("rbtree after delete of node %d:\n%s", keys[i], tree)
				err := tree.IsTreeValid()
				if err != nil {
					t.Error(err)
				}
				requireCountsValid(t, tree)
			}

			// add deleted node to map set
			deletedNodes[keys[i]] = struct{}{}
		}
	})
}

func TestTree_Delete(t *testing.T) {
	tests := map[string]struct {
		keys     []int // in order of insert
		deletion func(t *testing.T, tree *Tree[int, struct{}, countAgg])
		checks   func(t *testing.T, tree *Tree[int, struct{}, countAgg])
	}{
		"nil node": {
			keys: []int{20, 10, 30},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				deleted := tree.Delete(nil)
				require.False(t, deleted, "expected nil node to not be deleted")
				deleted = tree.Delete(tree.Sentinel())
				require.False(t, deleted, "expected nil node to not be deleted")
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				assert.Equal(t, tree.Sentinel(), tree.Parent(tree.Root()), "unexpected structure after delete")
				assert.Equal(t, 20, tree.Key(tree.Root()), "unexpected structure after delete")
				assert.Equal(t, 10, tree.Key(tree.Left(tree.Root())), "unexpected structure after delete")
				assert.Equal(t, 30, tree.Key(tree.Right(tree.Root())), "unexpected structure after delete")
			},
		},
		"left child delete, no fixup cases": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n1, _ := tree.Search(1)
				ok := tree.Delete(n1)
				require.True(t, ok)
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n3, _ := tree.Search(3)
				n4, _ := tree.Search(4)
				assert.Equal(t, Black, tree.Color(n3), "expected node 3 to remain black")
				assert.Equal(t, tree.Sentinel(), tree.Left(n3), "expected left child of node 3 to be sentinel after delete")
				assert.Equal(t, n4, tree.Right(n3), "expected right child of node 3 to be node 4")
				assert.Equal(t, Red, tree.Color(n4), "expected node 4 to remain red")
			},
		},
		"successor swap, fixup cases 3 & 4": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n1, _ := tree.Search(1)
				tree.Delete(n1)
				// no assertions for above deletions as this follows on from previous case(s) above
				n11, _ := tree.Search(11)
				ok := tree.Delete(n11)
				require.True(t, ok)
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n3, _ := tree.Search(3)
				n4, _ := tree.Search(4)
				n12, _ := tree.Search(12)

				assert.Equal(t, n4, tree.Left(tree.Root()), "expected node 4 to be root left child")
				assert.Equal(t, Red, tree.Color(n4), "expected node 4 to remain red")
				assert.Equal(t, n3, tree.Left(n4), "expected left child of node 4 to be node 3")
				assert.Equal(t, Black, tree.Color(n3), "expected node 3 to remain black")
				assert.Equal(t, n12, tree.Right(n4), "expected right child of node 4 to be node 12")
				assert.Equal(t, Black, tree.Color(n12), "expected node 12 to be black")
				assert.True(t, tree.IsLeaf(n3), "expected node 3 to be leaf")
				assert.True(t, tree.IsLeaf(n12), "expected node 12 to be leaf")
			},
		},
		"left child replacement, fixup case 2": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n1, _ := tree.Search(1)
				tree.Delete(n1)
				n11, _ := tree.Search(11)
				tree.Delete(n11)
				// no assertions for above deletions as this follows on from previous case(s) above
				n12, _ := tree.Search(12)
				ok := tree.Delete(n12)
				require.True(t, ok)
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n3, _ := tree.Search(3)
				n4, _ := tree.Search(4)

				assert.Equal(t, n4, tree.Left(tree.Root()), "expected node 4 to be root left child")
				assert.Equal(t, Black, tree.Color(n4), "expected node 4 to change to black")
				assert.Equal(t, n3, tree.Left(n4), "expected left child of node 4 to be node 3")
				assert.Equal(t, Red, tree.Color(n3), "expected node 3 to change to red")
				assert.Equal(t, tree.Sentinel(), tree.Right(n4), "expected right child of node 4 to be nil")
				assert.True(t, tree.IsLeaf(n3), "expected node 3 to be leaf")
			},
		},
		"successor swap, no fixup": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n1, _ := tree.Search(1)
				tree.Delete(n1)
				n11, _ := tree.Search(11)
				tree.Delete(n11)
				n12, _ := tree.Search(12)
				tree.Delete(n12)
				// no assertions for above deletions as this follows on from previous case(s) above
				n69, _ := tree.Search(69)
				ok := tree.Delete(n69)
				require.True(t, ok)
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n50, _ := tree.Search(50)
				n77, _ := tree.Search(77)
				n82, _ := tree.Search(82)

				assert.Equal(t, n77, tree.Right(tree.Root()), "expected node 77 to be root right child")
				assert.Equal(t, Red, tree.Color(n77), "expected node 77 to be red")
				assert.Equal(t, n50, tree.Left(n77), "expected left child of node 77 to be node 50")
				assert.Equal(t, Black, tree.Color(n50), "expected node 50 to be black")
				assert.Equal(t, n82, tree.Right(n77), "expected right child of node 77 to be node 82")
				assert.Equal(t, Black, tree.Color(n82), "expected node 82 to be black")
				assert.True(t, tree.IsLeaf(n50), "expected node 50 to be leaf")
				assert.True(t, tree.IsLeaf(n82), "expected node 82 to be leaf")
			},
		},
		"right child delete, no fixup": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				for _, k := range []int{1, 11, 12, 69} {
					n, _ := tree.Search(k)
					tree.Delete(n)
				}
				// no assertions for above deletions as this follows on from previous case(s) above
				n4, _ := tree.Search(4)
				ok := tree.Delete(n4)
				require.True(t, ok)
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n3, _ := tree.Search(3)

				assert.Equal(t, n3, tree.Left(tree.Root()), "expected node 3 to be root left child")
				assert.Equal(t, Black, tree.Color(n3), "expected node 3 to be black")
				assert.True(t, tree.IsLeaf(n3), "expected node 3 to be leaf")
			},
		},
		"root node with two children": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				for _, k := range []int{1, 11, 12, 69, 4} {
					n, _ := tree.Search(k)
					tree.Delete(n)
				}
				// no assertions for above deletions as this follows on from previous case(s) above
				n14, _ := tree.Search(14)
				ok := tree.Delete(n14)
				require.True(t, ok)
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n50, _ := tree.Search(50)
				n3, _ := tree.Search(3)
				n77, _ := tree.Search(77)
				n82, _ := tree.Search(82)

				assert.Equal(t, tree.Root(), n50, "expected node 50 to be new tree root")
				assert.Equal(t, n3, tree.Left(tree.Root()), "expected node 3 to be root left child")
				assert.Equal(t, Black, tree.Color(n3), "expected node 3 to be black")
				assert.True(t, tree.IsLeaf(n3), "expected node 3 to be leaf")
				assert.Equal(t, n77, tree.Right(tree.Root()), "expected node 77 to be root right child")
				assert.Equal(t, Black, tree.Color(n77), "expected node 77 to be black")
				assert.Equal(t, tree.Sentinel(), tree.Left(n77), "expected node 77 left child to be nil")
				assert.Equal(t, n82, tree.Right(n77), "expected node 77 right child to be node 82")
				assert.True(t, tree.IsLeaf(n82), "expected node 82 to be leaf")
				assert.Equal(t, Red, tree.Color(n82), "expected node 82 to be red")
			},
		},
		"root delete, fixup case 2": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				for _, k := range []int{1, 11, 12, 69, 4, 14, 82} {
					n, _ := tree.Search(k)
					tree.Delete(n)
				}
				// no assertions for above deletions as this follows on from previous case(s) above
				n50, _ := tree.Search(50)
				ok := tree.Delete(n50)
				require.True(t, ok)
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				n3, _ := tree.Search(3)
				n77, _ := tree.Search(77)

				assert.Equal(t, tree.Root(), n77, "expected node 77 to be tree root")
				assert.Equal(t, n3, tree.Left(tree.Root()), "expected node 3 to be root left child")
				assert.Equal(t, Red, tree.Color(n3), "expected node 3 to be red")
				assert.True(t, tree.IsLeaf(n3), "expected node 3 to be leaf")
				assert.Equal(t, tree.Sentinel(), tree.Right(tree.Root()), "expected root right child to be nil")
			},
		},
		"delete down to empty tree": {
			keys: []int{14, 11, 69, 3, 12, 50, 82, 1, 4, 77},
			deletion: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				for _, k := range []int{1, 11, 12, 69, 4, 14, 82, 50, 77, 3} {
					n, _ := tree.Search(k)
					ok := tree.Delete(n)
					require.True(t, ok)
				}
			},
			checks: func(t *testing.T, tree *Tree[int, struct{}, countAgg]) {
				assert.Equal(t, tree.Sentinel(), tree.Root(), "expected empty tree")
				assert.Equal(t, 0, tree.Size())
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// build tree from keys
			tree := newTestTree()
			for _, k := range tc.keys {
				insertKey(tree, k)
			}
			t.Logf("rbtree before delete:\n%s", tree)
			require.NoError(t, tree.IsTreeValid(), "tree should be valid")

			// perform deletion
			tc.deletion(t, tree)
			t.Logf("rbtree after delete:\n%s", tree)
			require.NoError(t, tree.IsTreeValid(), "tree should be valid")
			requireCountsValid(t, tree)

			// remaining checks
			tc.checks(t, tree)
		})
	}
}

func TestTree_Insert_fixup_cases(t *testing.T) {
	tests := map[string]struct {
		keys []int // in order of insert
	}{
		"case 1, z's parent is a left child": {
			keys: []int{11, 2, 14, 1},
		},
		"case 1, z's parent is a right child": {
			keys: []int{1, 11, 12, 69},
		},
		"case 2 & 3, z's parent is a left child": {
			keys: []int{11, 2, 14, 1, 7, 15, 5, 8, 4},
		},
		"case 2 & 3, z's parent is a right child": {
			keys: []int{1, 11, 12, 69, 4, 14},
		},
		"case 3, z's parent is a right child": {
			keys: []int{1, 11, 12},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// make tree
			tree := newTestTree()
			for _, k := range tc.keys {
				t.Logf("inserting node: %d", k)
				insertKey(tree, k)
				t.Logf("rbtree after insert:\n%s", tree)
			}
			require.NoError(t, tree.IsTreeValid(), "tree should be valid")
			requireCountsValid(t, tree)
		})

	}
}

func TestTree_Insert_update(t *testing.T) {
	keys := []int{11, 2, 14, 1, 7, 15, 5, 8, 4}
	tree := New[int, string, countAgg](Ordered[int]())
	for _, k := range keys {
		tree.Insert(k, fmt.Sprintf("%d", k), countAgg{n: 1})
	}
	t.Logf("rbtree:\n%s", tree)

	require.NoError(t, tree.IsTreeValid(), "tree should be valid")

	n4, _ := tree.Search(4)
	require.Equal(t, "4", tree.Value(n4))

	// update node 4; no new node, size unchanged
	n, inserted := tree.Insert(4, "updated", countAgg{n: 1})
	assert.False(t, inserted)
	assert.Equal(t, n4, n)
	assert.Equal(t, "updated", tree.Value(n4))
	assert.Equal(t, len(keys), tree.Size())
}

// TestTree_Delete_nodeIdentity checks that deleting a node with two
// children moves the successor node itself rather than copying its payload:
// a pointer captured before the deletion must still reference the same
// entry afterwards.
func TestTree_Delete_nodeIdentity(t *testing.T) {
	tree := New[int, string, countAgg](Ordered[int]())
	for i := 0; i < 64; i++ {
		tree.Insert(i, fmt.Sprintf("v%d", i), countAgg{n: 1})
	}

	n31, found := tree.Search(31)
	require.True(t, found)
	require.False(t, tree.IsNil(tree.Left(n31)))
	require.False(t, tree.IsNil(tree.Right(n31)))
	succ := tree.Successor(n31)
	succKey := tree.Key(succ)

	require.True(t, tree.Delete(n31))
	require.NoError(t, tree.IsTreeValid())

	// the successor node must still be live at the same address
	got, found := tree.Search(succKey)
	require.True(t, found)
	assert.Same(t, succ, got, "successor node should keep its identity across the swap")
	assert.Equal(t, fmt.Sprintf("v%d", succKey), tree.Value(got))
}

func TestTree_IsTreeValid(t *testing.T) {
	tests := map[string]struct {
		creation func() *Tree[int, struct{}, countAgg]
		mutation func(tree *Tree[int, struct{}, countAgg])
		wantErr  bool
	}{
		"valid tree": {
			creation: func() *Tree[int, struct{}, countAgg] {
				tree := newTestTree()
				for i := -20; i <= 20; i++ {
					insertKey(tree, i)
				}
				for i := -40; i <= -21; i++ {
					insertKey(tree, i)
				}
				for i := 21; i <= 40; i++ {
					insertKey(tree, i)
				}
				return tree
			},
			mutation: func(tree *Tree[int, struct{}, countAgg]) {},
			wantErr:  false,
		},
		"red root": {
			creation: func() *Tree[int, struct{}, countAgg] {
				tree := newTestTree()
				insertKey(tree, 10)
				return tree
			},
			mutation: func(tree *Tree[int, struct{}, countAgg]) {
				tree.Root().color = Red
			},
			wantErr: true,
		},
		"sentinel is not black": {
			creation: func() *Tree[int, struct{}, countAgg] {
				tree := newTestTree()
				insertKey(tree, 10)
				return tree
			},
			mutation: func(tree *Tree[int, struct{}, countAgg]) {
				tree.Sentinel().color = Red
			},
			wantErr: true,
		},
		"node is red and has red left child": {
			creation: func() *Tree[int, struct{}, countAgg] {
				tree := newTestTree()
				insertKey(tree, 10)
				insertKey(tree, 5)
				insertKey(tree, 15)
				insertKey(tree, 20)
				return tree
			},
			mutation: func(tree *Tree[int, struct{}, countAgg]) {
				n, _ := tree.Search(5)
				n.color = Red
				n, _ = tree.Search(15)
				n.color = Red
			},
			wantErr: true,
		},
		"node is red and has red right child": {
			creation: func() *Tree[int, struct{}, countAgg] {
				tree := newTestTree()
				insertKey(tree, 10)
				insertKey(tree, 5)
				insertKey(tree, 15)
				insertKey(tree, 14)
				return tree
			},
			mutation: func(tree *Tree[int, struct{}, countAgg]) {
				n, _ := tree.Search(5)
				n.color = Red
				n, _ = tree.Search(15)
				n.color = Red
			},
			wantErr: true,
		},
		"node has black count mismatch": {
			creation: func() *Tree[int, struct{}, countAgg] {
				tree := newTestTree()
				insertKey(tree, 10)
				insertKey(tree, 5)
				insertKey(tree, 15)
				insertKey(tree, 14)
				return tree
			},
			mutation: func(tree *Tree[int, struct{}, countAgg]) {
				n, _ := tree.Search(14)
				n.color = Black
			},
			wantErr: true,
		},
		"parent/child mismatch": {
			creation: func() *Tree[int, struct{}, countAgg] {
				tree := newTestTree()
				insertKey(tree, 10)
				insertKey(tree, 5)
				insertKey(tree, 15)
				return tree
			},
			mutation: func(tree *Tree[int, struct{}, countAgg]) {
				n, _ := tree.Search(5)
				n.parent = n
			},
			wantErr: true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tree := tc.creation()
			t.Logf("initial rbtree:\n%s", tree)
			require.NoError(t, tree.IsTreeValid(), "tree should be valid")
			// break tree
			tc.mutation(tree)
			t.Logf("rbtree after mutation:\n%s", tree)
			if tc.wantErr {
				assert.Error(t, tree.IsTreeValid(), "expected invalid tree")
			} else {
				assert.NoError(t, tree.IsTreeValid(), "expected valid tree")
			}
		})
	}
}

func TestTree_Size(t *testing.T) {
	tree := newTestTree()
	assert.Equal(t, 0, tree.Size(), "expected empty tree")
	insertKey(tree, 10)
	insertKey(tree, 5)
	insertKey(tree, 15)
	insertKey(tree, 14)
	assert.Equal(t, 4, tree.Size(), "expected 4 nodes in tree")
	assert.Equal(t, 4, tree.Agg(tree.Root()).n, "root count should match size")
}

func TestTree_Clear(t *testing.T) {
	tree := newTestTree()
	for i := 0; i < 100; i++ {
		insertKey(tree, i)
	}
	tree.Clear()
	assert.Equal(t, 0, tree.Size())
	assert.True(t, tree.IsNil(tree.Root()))
	require.NoError(t, tree.IsTreeValid())

	// the tree remains usable after Clear
	insertKey(tree, 42)
	assert.Equal(t, 1, tree.Size())
	require.NoError(t, tree.IsTreeValid())
}

func TestTree_SetAgg(t *testing.T) {
	tree := newTestTree()
	for i := 0; i < 10; i++ {
		insertKey(tree, i)
	}
	n, found := tree.Search(7)
	require.True(t, found)

	// overwrite and repair; the count aggregate recomputes to the same
	// value, so the tree stays consistent
	tree.SetAgg(n, countAgg{n: 0})
	requireCountsValid(t, tree)
}
