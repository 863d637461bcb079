package btree

// Unit is the empty result type for operations that only produce side
// effects through the caller-supplied function (spec.md §4.3's Iterate
// and Debug).
type Unit struct{}

// Iter walks every key/value pair in ascending key order, calling f for
// each (spec.md §4.3). It gives no guarantee beyond that ordering — in
// particular it does not promise any particular node visitation order
// across levels, only the resulting key sequence.
func (t *Tree[K, V]) Iter(f func(K, V)) Step[Unit] {
	return t.iterFrom(t.RootOffset, 0, f)
}

// iterFrom visits key indices [idx, numVals) of the node at offset, and
// the subtrees between them when the node is internal. The node is
// re-read on every call rather than carried across recursive calls: a
// child visit performs its own suspensions, during which the caller's
// storage may recycle the byte window this node was read into (spec.md
// §9 "No pointer graph").
func (t *Tree[K, V]) iterFrom(offset int64, idx int, f func(K, V)) Step[Unit] {
	return andThen(t.readNode(offset), func(n nodeView[K, V]) Step[Unit] {
		count := n.numVals()
		leaf := n.isLeaf()

		if idx == count {
			if leaf {
				return Done(Unit{})
			}
			return t.iterFrom(n.child(count), 0, f)
		}

		if leaf {
			f(n.key(idx), n.val(idx))
			return t.iterFrom(offset, idx+1, f)
		}

		childOffset := n.child(idx)
		key, val := n.key(idx), n.val(idx)
		return andThen(t.iterFrom(childOffset, 0, f), func(_ Unit) Step[Unit] {
			f(key, val)
			return t.iterFrom(offset, idx+1, f)
		})
	})
}
