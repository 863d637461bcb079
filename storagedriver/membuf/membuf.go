// Package membuf is an in-memory btree.Driver/btree.Writer backed by a
// single growable byte slice, for tests and scratch trees that never
// need to survive a process restart.
package membuf

import (
	"sync"

	"github.com/pkg/errors"
)

// Buffer is a growable byte arena. Allocate reserves a contiguous
// range at the current end and grows the backing slice to cover it;
// ReadBlock and WriteBlock operate on any range already reserved.
type Buffer struct {
	mu   sync.Mutex
	data []byte
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

func (b *Buffer) ReadBlock(offset int64, length int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || length < 0 || offset+int64(length) > int64(len(b.data)) {
		return nil, errors.Errorf("membuf: read [%d,%d) out of bounds (size %d)", offset, offset+int64(length), len(b.data))
	}
	out := make([]byte, length)
	copy(out, b.data[offset:offset+int64(length)])
	return out, nil
}

func (b *Buffer) Allocate(length int) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if length < 0 {
		return 0, errors.New("membuf: negative allocation length")
	}
	offset := int64(len(b.data))
	b.data = append(b.data, make([]byte, length)...)
	return offset, nil
}

func (b *Buffer) WriteBlock(offset int64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset+int64(len(data)) > int64(len(b.data)) {
		return errors.Errorf("membuf: write [%d,%d) out of bounds (size %d)", offset, offset+int64(len(data)), len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

// Len reports the current size of the backing arena.
func (b *Buffer) Len() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int64(len(b.data))
}
