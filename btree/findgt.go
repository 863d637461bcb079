package btree

// FindGT returns up to max values whose keys are strictly greater than
// key, in ascending key order (spec.md §4.3). The scan is deliberately
// bounded by locality: it descends until it finds the first node
// carrying a key strictly greater than the query, emits the value of
// that first greater key only (later keys of the same node are not
// emitted), and — if still under budget — additionally reads the child
// immediately to the right of that key and takes its values too, then
// stops. It is not a full range scan; call it again with the
// last-returned key to continue (spec.md §9 open question 1: this
// best-effort contract is preserved verbatim, not extended).
func (t *Tree[K, V]) FindGT(key K, max int) Step[[]V] {
	if max <= 0 {
		return Done[[]V](nil)
	}
	return t.findGTAt(t.RootOffset, key, max)
}

func (t *Tree[K, V]) findGTAt(offset int64, key K, max int) Step[[]V] {
	return andThen(t.readNode(offset), func(n nodeView[K, V]) Step[[]V] {
		count := n.numVals()
		i := n.firstGreater(key)

		if n.isLeaf() {
			out := make([]V, 0, min(max, count-i))
			for j := i; j < count && len(out) < max; j++ {
				out = append(out, n.val(j))
			}
			return Done(out)
		}

		if i == count {
			// Nothing in this node beats key; every relevant value, if
			// any, lives in the rightmost subtree.
			return t.findGTAt(n.child(count), key, max)
		}

		out := []V{n.val(i)}
		if len(out) >= max {
			return Done(out)
		}

		neighbor := n.child(i + 1)
		return andThen(t.readNode(neighbor), func(nb nodeView[K, V]) Step[[]V] {
			nbCount := nb.numVals()
			for j := 0; j < nbCount && len(out) < max; j++ {
				out = append(out, nb.val(j))
			}
			return Done(out)
		})
	})
}
