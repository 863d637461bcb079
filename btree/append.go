package btree

// Append is the fast-path insert for a key strictly greater than every
// key currently in the tree (spec.md §4.3). It always descends to the
// right-most child, skipping the key comparisons Insert performs at
// every node, but shares Insert's split-and-rewrite machinery exactly —
// so feeding keys in strictly ascending order through Append yields a
// tree byte-for-byte identical to feeding the same sequence through
// Insert (spec.md §8, property 8). Violating the precondition is a
// caller bug; per spec.md §4.3 the result is then unspecified but
// confined to the tree's right spine, since that is the only path this
// function ever touches.
func (t *Tree[K, V]) Append(key K, value V) Step[MutateResult] {
	return andThen(t.appendAt(t.RootOffset, key, value), func(out insertOutcome[K, V]) Step[MutateResult] {
		return t.finishMutate(out)
	})
}

func (t *Tree[K, V]) appendAt(offset int64, key K, value V) Step[insertOutcome[K, V]] {
	return andThen(t.readNode(offset), func(n nodeView[K, V]) Step[insertOutcome[K, V]] {
		count := n.numVals()

		if n.isLeaf() {
			return t.insertLeaf(offset, n, count, key, value)
		}

		rightChild := n.child(count)
		return andThen(t.appendAt(rightChild, key, value), func(childOut insertOutcome[K, V]) Step[insertOutcome[K, V]] {
			if childOut.split == nil {
				return Done(insertOutcome[K, V]{writes: childOut.writes})
			}
			return andThen(t.readNode(offset), func(n2 nodeView[K, V]) Step[insertOutcome[K, V]] {
				return andThen(t.insertInternal(offset, n2, *childOut.split), func(out insertOutcome[K, V]) Step[insertOutcome[K, V]] {
					out.writes = append(append([]WriteOp{}, childOut.writes...), out.writes...)
					return Done(out)
				})
			})
		})
	})
}
