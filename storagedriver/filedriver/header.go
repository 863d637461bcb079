package filedriver

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// headerSize reserves room for the caller's persisted (root_offset, m)
// pair (spec.md §6 "Persisted caller state") at the start of the file,
// ahead of the first node block.
const headerSize = 16

// Header is the persisted tree handle: root offset and order.
type Header struct {
	RootOffset int64
	Order      int32
}

// ReadHeader reads the tree handle persisted by a prior WriteHeader
// call, or a zero Header if none has been written yet.
func (d *Driver) ReadHeader() (Header, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, headerSize)
	if _, err := d.file.ReadAt(buf, 0); err != nil {
		return Header{}, errors.Wrap(err, "filedriver: read header")
	}
	return Header{
		RootOffset: int64(binary.LittleEndian.Uint64(buf[0:8])),
		Order:      int32(binary.LittleEndian.Uint32(buf[8:12])),
	}, nil
}

// WriteHeader durably persists the tree handle. Callers write this
// once after btree.Create and again after every mutation that returns a
// new root (spec.md §4.4).
func (d *Driver) WriteHeader(h Header) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(h.RootOffset))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.Order))
	if _, err := d.file.WriteAt(buf, 0); err != nil {
		return errors.Wrap(err, "filedriver: write header")
	}
	if d.cfg.syncOnWrite {
		return errors.Wrap(d.file.Sync(), "filedriver: sync header")
	}
	return nil
}
