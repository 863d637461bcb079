package btree

import "github.com/pkg/errors"

// ErrInvalidOrder is returned by Create when m < 3, violating spec.md
// §3's "Order m... a positive integer >= 3".
var ErrInvalidOrder = errors.New("btree: order must be >= 3")

// Tree is the tree handle of spec.md §3: the pair (root_offset, m).
// Both fields are the caller's to persist; m is immutable for the
// life of the tree, RootOffset changes whenever a root split
// publishes a new root.
type Tree[K, V any] struct {
	RootOffset int64
	Order      int

	Keys   KeyCodec[K]
	Values Codec[V]
}

// New wraps an existing (root_offset, m) pair reloaded from the
// caller's own persisted header (spec.md §6 "Persisted caller state").
func New[K, V any](rootOffset int64, order int, keys KeyCodec[K], values Codec[V]) *Tree[K, V] {
	return &Tree[K, V]{RootOffset: rootOffset, Order: order, Keys: keys, Values: values}
}

// NodeWidth returns Nw(m) for this tree's order and codecs.
func (t *Tree[K, V]) NodeWidth() int {
	return nodeWidth(t.Order, t.Keys.Width(), t.Values.Width())
}

func (t *Tree[K, V]) builder() nodeBuilder[K, V] {
	return newNodeBuilder[K, V](t)
}

func (t *Tree[K, V]) view(data []byte) nodeView[K, V] {
	return newNodeView[K, V](t, data)
}

// CreateResult is the terminal payload of Create: the freshly
// allocated root offset and the single write that formats it as an
// empty leaf.
type CreateResult struct {
	RootOffset int64
	Writes     []WriteOp
}

// Create allocates and formats the single empty node that is a brand
// new tree's root (spec.md §3 "Lifecycle": "A tree is created by
// allocating one empty node and publishing its offset as the root").
// The caller applies CreateResult.Writes and then builds a Tree with
// RootOffset set to CreateResult.RootOffset.
func Create[K, V any](order int, keys KeyCodec[K], values Codec[V]) (Step[CreateResult], error) {
	if order < 3 {
		return Step[CreateResult]{}, ErrInvalidOrder
	}
	t := &Tree[K, V]{Order: order, Keys: keys, Values: values}
	width := t.NodeWidth()
	step := AllocateStep(width, func(offset int64) Step[CreateResult] {
		empty := t.builder().build(nil, nil, nil)
		return Done(CreateResult{
			RootOffset: offset,
			Writes:     []WriteOp{{Offset: offset, Bytes: empty}},
		})
	})
	return step, nil
}
