package btree

// LastResult is the terminal payload of Last: the maximum key/value
// pair in the tree, or Found=false if the tree is empty.
type LastResult[K, V any] struct {
	Key   K
	Value V
	Found bool
}

// Last returns the tree's maximum key/value pair, found by following
// the rightmost subtree pointer from the root until a leaf is reached
// (spec.md §4.3).
func (t *Tree[K, V]) Last() Step[LastResult[K, V]] {
	return t.lastAt(t.RootOffset)
}

func (t *Tree[K, V]) lastAt(offset int64) Step[LastResult[K, V]] {
	return andThen(t.readNode(offset), func(n nodeView[K, V]) Step[LastResult[K, V]] {
		count := n.numVals()
		if count == 0 {
			var zeroK K
			var zeroV V
			return Done(LastResult[K, V]{Key: zeroK, Value: zeroV, Found: false})
		}
		if n.isLeaf() {
			return Done(LastResult[K, V]{Key: n.key(count - 1), Value: n.val(count - 1), Found: true})
		}
		return t.lastAt(n.child(count))
	})
}
