package btree

// FindResult is the terminal payload of Find: the value stored under
// the queried key, if any.
type FindResult[V any] struct {
	Value V
	Found bool
}

// Find locates key and returns its value, or Found=false if it is
// absent anywhere in the tree (spec.md §4.3). At each node it binary
// searches for the smallest i with key(i) >= key; on equality it
// returns val(i) directly (keys and values are co-located at every
// level, not just in leaves); otherwise it descends into child(i), or
// stops at a leaf.
func (t *Tree[K, V]) Find(key K) Step[FindResult[V]] {
	return t.findAt(t.RootOffset, key)
}

func (t *Tree[K, V]) findAt(offset int64, key K) Step[FindResult[V]] {
	width := t.NodeWidth()
	return ReadBlockStep(offset, width, func(data []byte) Step[FindResult[V]] {
		n := t.view(data)
		i := n.lowerBound(key)
		if i < n.numVals() && t.Keys.Compare(n.key(i), key) == 0 {
			return Done(FindResult[V]{Value: n.val(i), Found: true})
		}
		if n.isLeaf() {
			var zero V
			return Done(FindResult[V]{Value: zero, Found: false})
		}
		return t.findAt(n.child(i), key)
	})
}
