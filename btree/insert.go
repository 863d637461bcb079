package btree

// MutateResult is the terminal payload shared by Insert and Append
// (spec.md §4.3): NewRoot is non-nil only when the mutation split all
// the way past the root, and Writes is the ordered batch of every node
// block (re)written — the caller must apply it in order, or discard it
// whole to abort (spec.md §4.4).
type MutateResult struct {
	NewRoot *int64
	Writes  []WriteOp
}

// splitCarry is the "pending median to reinsert above" state spec.md
// §4.3/§9 describes threading up the recursion on a split.
type splitCarry[K, V any] struct {
	Key   K
	Value V
	Right int64
}

type insertOutcome[K, V any] struct {
	split  *splitCarry[K, V]
	writes []WriteOp
}

// Insert inserts or overwrites key/value (spec.md §4.3). If key already
// exists anywhere in the tree its value is replaced in place and the
// tree shape is unchanged; otherwise it descends to the right leaf,
// inserts in sorted position, and propagates any split up to the root.
func (t *Tree[K, V]) Insert(key K, value V) Step[MutateResult] {
	return andThen(t.insertAt(t.RootOffset, key, value), func(out insertOutcome[K, V]) Step[MutateResult] {
		return t.finishMutate(out)
	})
}

// finishMutate turns an insertOutcome that bubbled all the way back to
// the top-level call into a MutateResult, allocating a new root when
// the split escaped past the existing one (spec.md §4.3).
func (t *Tree[K, V]) finishMutate(out insertOutcome[K, V]) Step[MutateResult] {
	if out.split == nil {
		return Done(MutateResult{Writes: out.writes})
	}
	carry := *out.split
	leftOffset := t.RootOffset
	return AllocateStep(t.NodeWidth(), func(newRootOffset int64) Step[MutateResult] {
		rootBlock := t.builder().build([]K{carry.Key}, []V{carry.Value}, []int64{leftOffset, carry.Right})
		writes := make([]WriteOp, 0, len(out.writes)+1)
		writes = append(writes, out.writes...)
		writes = append(writes, WriteOp{Offset: newRootOffset, Bytes: rootBlock})
		root := newRootOffset
		return Done(MutateResult{NewRoot: &root, Writes: writes})
	})
}

// insertAt is the shared recursive descent used by Insert: it returns
// whatever split carry (if any) this subtree produced, plus every
// write it performed, bottom-up.
func (t *Tree[K, V]) insertAt(offset int64, key K, value V) Step[insertOutcome[K, V]] {
	return andThen(t.readNode(offset), func(n nodeView[K, V]) Step[insertOutcome[K, V]] {
		count := n.numVals()
		i := n.lowerBound(key)

		if i < count && t.Keys.Compare(n.key(i), key) == 0 {
			return Done(t.overwriteInPlace(offset, n, i, value))
		}

		if n.isLeaf() {
			return t.insertLeaf(offset, n, i, key, value)
		}

		childOffset := n.child(i)
		return andThen(t.insertAt(childOffset, key, value), func(childOut insertOutcome[K, V]) Step[insertOutcome[K, V]] {
			if childOut.split == nil {
				return Done(insertOutcome[K, V]{writes: childOut.writes})
			}
			// This node's own block may have been recycled by the
			// caller's storage while we were suspended servicing the
			// child subtree's reads/allocations (spec.md §9 "No
			// pointer graph"), so it must be re-fetched before being
			// rewritten, mirroring the teacher's re-pin-after-split.
			return andThen(t.readNode(offset), func(n2 nodeView[K, V]) Step[insertOutcome[K, V]] {
				return andThen(t.insertInternal(offset, n2, *childOut.split), func(out insertOutcome[K, V]) Step[insertOutcome[K, V]] {
					out.writes = append(append([]WriteOp{}, childOut.writes...), out.writes...)
					return Done(out)
				})
			})
		})
	})
}

func (t *Tree[K, V]) readNode(offset int64) Step[nodeView[K, V]] {
	return ReadBlockStep(offset, t.NodeWidth(), func(data []byte) Step[nodeView[K, V]] {
		return Done(t.view(data))
	})
}

// overwriteInPlace rewrites a node with vals[i] replaced, keeping every
// other key, value and child identical (spec.md §9 open question 3:
// an overwrite never splits).
func (t *Tree[K, V]) overwriteInPlace(offset int64, n nodeView[K, V], i int, value V) insertOutcome[K, V] {
	count := n.numVals()
	keys := make([]K, count)
	vals := make([]V, count)
	for j := 0; j < count; j++ {
		keys[j] = n.key(j)
		vals[j] = n.val(j)
	}
	vals[i] = value

	var children []int64
	if !n.isLeaf() {
		children = make([]int64, count+1)
		for j := 0; j <= count; j++ {
			children[j] = n.child(j)
		}
	}

	block := t.builder().build(keys, vals, children)
	return insertOutcome[K, V]{writes: []WriteOp{{Offset: offset, Bytes: block}}}
}

// insertLeaf inserts key/value at pos in a leaf node, splitting if the
// node would then exceed m-1 keys.
func (t *Tree[K, V]) insertLeaf(offset int64, n nodeView[K, V], pos int, key K, value V) Step[insertOutcome[K, V]] {
	count := n.numVals()
	keys := make([]K, count+1)
	vals := make([]V, count+1)
	for j := 0; j < pos; j++ {
		keys[j] = n.key(j)
		vals[j] = n.val(j)
	}
	keys[pos] = key
	vals[pos] = value
	for j := pos; j < count; j++ {
		keys[j+1] = n.key(j)
		vals[j+1] = n.val(j)
	}

	if count+1 <= t.Order-1 {
		block := t.builder().build(keys, vals, nil)
		return Done(insertOutcome[K, V]{writes: []WriteOp{{Offset: offset, Bytes: block}}})
	}
	return t.splitAndWrite(offset, keys, vals, nil)
}

// insertInternal inserts a promoted (key, value, right-child) triple
// into an internal node, splitting if it would then exceed m-1 keys.
func (t *Tree[K, V]) insertInternal(offset int64, n nodeView[K, V], carry splitCarry[K, V]) Step[insertOutcome[K, V]] {
	count := n.numVals()
	pos := n.lowerBound(carry.Key)

	keys := make([]K, count+1)
	vals := make([]V, count+1)
	children := make([]int64, count+2)

	for j := 0; j < pos; j++ {
		keys[j] = n.key(j)
		vals[j] = n.val(j)
	}
	keys[pos] = carry.Key
	vals[pos] = carry.Value
	for j := pos; j < count; j++ {
		keys[j+1] = n.key(j)
		vals[j+1] = n.val(j)
	}

	for j := 0; j <= pos; j++ {
		children[j] = n.child(j)
	}
	children[pos+1] = carry.Right
	for j := pos + 1; j <= count; j++ {
		children[j+1] = n.child(j)
	}

	if count+1 <= t.Order-1 {
		block := t.builder().build(keys, vals, children)
		return Done(insertOutcome[K, V]{writes: []WriteOp{{Offset: offset, Bytes: block}}})
	}
	return t.splitAndWrite(offset, keys, vals, children)
}

// splitAndWrite implements spec.md §4.3's split rule over an
// m-entry virtual buffer: M = (m-1)/2, the node keeps keys[0,M), a
// fresh right node holds keys(M,m], and keys[M] (with vals[M]) is
// pushed up to the parent together with the right node's offset.
func (t *Tree[K, V]) splitAndWrite(offset int64, keys []K, vals []V, children []int64) Step[insertOutcome[K, V]] {
	m := t.Order
	median := (m - 1) / 2

	leftKeys, leftVals := keys[:median], vals[:median]
	rightKeys, rightVals := keys[median+1:], vals[median+1:]

	var leftChildren, rightChildren []int64
	if len(children) != 0 {
		leftChildren = children[:median+1]
		rightChildren = children[median+1:]
	}

	leftBlock := t.builder().build(leftKeys, leftVals, leftChildren)

	return AllocateStep(t.NodeWidth(), func(rightOffset int64) Step[insertOutcome[K, V]] {
		rightBlock := t.builder().build(rightKeys, rightVals, rightChildren)
		return Done(insertOutcome[K, V]{
			split: &splitCarry[K, V]{Key: keys[median], Value: vals[median], Right: rightOffset},
			writes: []WriteOp{
				{Offset: offset, Bytes: leftBlock},
				{Offset: rightOffset, Bytes: rightBlock},
			},
		})
	})
}
