package btree

// Codec converts a fixed-width value of type T to and from a byte
// window inside a node block. Encode must touch only buf[pos:pos+Width()]
// and Decode must read only that same range. Invalid bytes are a caller
// bug: implementations may assert rather than return an error.
type Codec[T any] interface {
	Width() int
	Encode(buf []byte, pos int, v T)
	Decode(buf []byte, pos int) T
}

// KeyCodec is a Codec for the tree's key type: keys must additionally be
// totally ordered and debug-renderable.
type KeyCodec[K any] interface {
	Codec[K]
	// Compare returns <0, 0 or >0 as a is less than, equal to, or
	// greater than b, per the type's total order.
	Compare(a, b K) int
	// Debug renders a key for Tree.Debug; it has no bearing on the
	// on-disk format.
	Debug(k K) string
}
