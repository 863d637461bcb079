package btree_test

import (
	"fmt"
	"testing"

	"fixedbtree/btree"
	"fixedbtree/storagedriver/membuf"
)

func appendKey(t *testing.T, tree *btree.Tree[string, string], buf *membuf.Buffer, n int) {
	t.Helper()
	result, err := btree.Run(tree.Append(keyFor(n), valFor(n)), buf)
	if err != nil {
		t.Fatalf("Run(Append(%d)): %v", n, err)
	}
	if err := btree.ApplyWrites(buf, result.Writes); err != nil {
		t.Fatalf("ApplyWrites(Append(%d)): %v", n, err)
	}
	if result.NewRoot != nil {
		tree.RootOffset = *result.NewRoot
	}
}

// TestAppendAscendingMatchesInsertAscending checks spec.md §8's
// property that feeding a strictly ascending key sequence through
// Append yields a tree byte-for-byte equivalent (same shape, same
// keys per node) to feeding the same sequence through Insert.
func TestAppendAscendingMatchesInsertAscending(t *testing.T) {
	for _, order := range []int{3, 4, 5, 7} {
		order := order
		t.Run(fmt.Sprintf("m=%d", order), func(t *testing.T) {
			insertTree, insertBuf := newTree(t, order)
			appendTree, appendBuf := newTree(t, order)

			for n := 1; n <= 12; n++ {
				insert(t, insertTree, insertBuf, n)
				appendKey(t, appendTree, appendBuf, n)
			}

			insertShape := debugShape(t, insertTree, insertBuf)
			appendShape := debugShape(t, appendTree, appendBuf)
			if insertShape != appendShape {
				t.Errorf("order %d: Insert shape:\n%s\ndiffers from Append shape:\n%s", order, insertShape, appendShape)
			}

			for n := 1; n <= 12; n++ {
				got, found := find(t, appendTree, appendBuf, n)
				if !found || got != valFor(n) {
					t.Errorf("Append-built tree Find(%d) = (%q, %v), want (%q, true)", n, got, found, valFor(n))
				}
			}
		})
	}
}
