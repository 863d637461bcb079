package btree

import "encoding/binary"

// leafSentinel is the reserved subtree offset meaning "no child"
// (spec.md §6). Stored as the bit pattern of the signed integer -1.
const leafSentinel int64 = -1

const (
	headerWidth    = 4 // nb_of_vals: u32 LE
	subtreeWidth   = 8 // each subtree offset: i64 LE
)

// nodeWidth returns Nw(m) for an order-m tree over keys of width kw and
// values of width vw, per the byte layout fixed in spec.md §6:
//
//	offset 0            : u32 LE nb_of_vals
//	offset 4            : keys[m-1], Kw bytes each
//	offset 4+(m-1)*Kw   : vals[m-1], Vw bytes each
//	offset 4+(m-1)*(Kw+Vw): subtrees[m], i64 LE each
func nodeWidth(m, kw, vw int) int {
	return headerWidth + (m-1)*(kw+vw) + m*subtreeWidth
}

// nodeView is a purely computational, read-only window over a node
// block already in memory — no I/O happens here (spec.md §4.2). Writes
// go through nodeBuilder.build instead, since ReadBlock hands back a read-only
// borrow (spec.md §5).
type nodeView[K, V any] struct {
	keys     KeyCodec[K]
	vals     Codec[V]
	order    int
	data     []byte
}

func newNodeView[K, V any](t *Tree[K, V], data []byte) nodeView[K, V] {
	return nodeView[K, V]{keys: t.Keys, vals: t.Values, order: t.Order, data: data}
}

func (n nodeView[K, V]) numVals() int {
	return int(binary.LittleEndian.Uint32(n.data[0:4]))
}

func (n nodeView[K, V]) keysOffset() int { return headerWidth }

func (n nodeView[K, V]) valsOffset() int {
	return headerWidth + (n.order-1)*n.keys.Width()
}

func (n nodeView[K, V]) subtreesOffset() int {
	return n.valsOffset() + (n.order-1)*n.vals.Width()
}

func (n nodeView[K, V]) key(i int) K {
	n.checkKeyIndex(i)
	return n.keys.Decode(n.data, n.keysOffset()+i*n.keys.Width())
}

func (n nodeView[K, V]) val(i int) V {
	n.checkKeyIndex(i)
	return n.vals.Decode(n.data, n.valsOffset()+i*n.vals.Width())
}

func (n nodeView[K, V]) child(i int) int64 {
	if i < 0 || i >= n.order {
		panic("btree: subtree index out of range")
	}
	pos := n.subtreesOffset() + i*subtreeWidth
	return int64(binary.LittleEndian.Uint64(n.data[pos : pos+8]))
}

func (n nodeView[K, V]) checkKeyIndex(i int) {
	if i < 0 || i >= n.order-1 {
		panic("btree: key/value index out of range")
	}
}

// isLeaf reports whether every used subtree slot — the first
// numVals()+1 of them — equals the sentinel (spec.md §3 invariant 5).
func (n nodeView[K, V]) isLeaf() bool {
	used := n.numVals() + 1
	for i := 0; i < used; i++ {
		if n.child(i) != leafSentinel {
			return false
		}
	}
	return true
}

// lowerBound returns the smallest index i with key(i) >= key, or
// numVals() if no such index exists — the descent rule of spec.md
// §4.3's Find contract, shared by every algorithm that walks a node.
func (n nodeView[K, V]) lowerBound(key K) int {
	count := n.numVals()
	lo, hi := 0, count
	for lo < hi {
		mid := (lo + hi) / 2
		if n.keys.Compare(n.key(mid), key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// firstGreater returns the smallest index i with key(i) > key, or
// numVals() if every key present is <= key. Used by FindGT (spec.md
// §4.3), which needs a strict bound rather than lowerBound's >=.
func (n nodeView[K, V]) firstGreater(key K) int {
	count := n.numVals()
	lo, hi := 0, count
	for lo < hi {
		mid := (lo + hi) / 2
		if n.keys.Compare(n.key(mid), key) > 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// nodeBuilder assembles a brand-new, owned node block byte-for-byte.
// Mutating operations never patch a borrowed read-only block in place;
// they always emit a freshly built block as the WriteOp payload
// (spec.md §3 "Nodes are mutated only by rewriting the whole node
// block").
type nodeBuilder[K, V any] struct {
	keys  KeyCodec[K]
	vals  Codec[V]
	order int
}

func newNodeBuilder[K, V any](t *Tree[K, V]) nodeBuilder[K, V] {
	return nodeBuilder[K, V]{keys: t.Keys, vals: t.Values, order: t.Order}
}

func (b nodeBuilder[K, V]) width() int {
	return nodeWidth(b.order, b.keys.Width(), b.vals.Width())
}

// build lays out a node holding the given keys/values and subtree
// offsets. children may be nil or empty for a leaf; when non-empty it
// must have exactly len(keys)+1 entries. Every subtree slot beyond
// len(children) is filled with the sentinel, and per spec.md §4.3(c)
// a freshly built leaf (children == nil) has every slot sentinel.
func (b nodeBuilder[K, V]) build(keys []K, vals []V, children []int64) []byte {
	if len(keys) != len(vals) {
		panic("btree: build: mismatched key/value counts")
	}
	if len(keys) > b.order-1 {
		panic("btree: build: too many keys for order")
	}
	if len(children) != 0 && len(children) != len(keys)+1 {
		panic("btree: build: wrong child count")
	}

	buf := make([]byte, b.width())
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(keys)))

	kw, vw := b.keys.Width(), b.vals.Width()
	koff := headerWidth
	voff := koff + (b.order-1)*kw
	soff := voff + (b.order-1)*vw

	for i, k := range keys {
		b.keys.Encode(buf, koff+i*kw, k)
	}
	for i, v := range vals {
		b.vals.Encode(buf, voff+i*vw, v)
	}
	for i := 0; i < b.order; i++ {
		off := int64(leafSentinel)
		if i < len(children) {
			off = children[i]
		}
		binary.LittleEndian.PutUint64(buf[soff+i*8:soff+i*8+8], uint64(off))
	}
	return buf
}
