// Package filedriver is a file-backed btree.Driver/btree.Writer, with
// a small LRU page cache in front of the file, adapted from the
// teacher's buffer manager but stripped down to what the core's
// interfaces actually need: no pinning, no carbon-aware deferred
// flushing, since nothing here holds a block across a suspension long
// enough to need either. It logs allocation, flush and eviction events
// with the standard library log package, the same events the buffer
// manager it's adapted from logs.
package filedriver

import (
	"container/list"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

type config struct {
	directory   string
	poolPages   int
	syncOnWrite bool
}

// Option configures a Driver, following the functional-options shape
// of the teacher's buffer.Option.
type Option func(*config)

// WithDirectory sets the directory the driver's file is created or
// opened under, mirroring the teacher's buffer.WithDirectory /
// BufferManagerConfig.Directory (which defaults to "."). The directory
// is created with os.MkdirAll if it doesn't already exist.
func WithDirectory(dir string) Option {
	return func(c *config) { c.directory = dir }
}

// WithPoolPages sets how many recently touched blocks are kept in the
// in-process cache before the least-recently-used one is evicted.
func WithPoolPages(n int) Option {
	return func(c *config) { c.poolPages = n }
}

// WithSyncOnWrite calls fsync after every WriteBlock/WriteHeader,
// trading throughput for durability against a process crash.
func WithSyncOnWrite(sync bool) Option {
	return func(c *config) { c.syncOnWrite = sync }
}

type entry struct {
	offset int64
	data   []byte
}

// Driver is a btree.Driver/btree.Writer backed by a single file, with
// an LRU cache of recently read or written blocks.
type Driver struct {
	mu    sync.Mutex
	file  *os.File
	cfg   config
	cache map[int64]*list.Element
	lru   *list.List
}

// Open opens (creating if necessary) name, under cfg.directory (per
// WithDirectory, "." by default), as a Driver, reserving the header
// region described in header.go.
func Open(name string, opts ...Option) (*Driver, error) {
	cfg := config{directory: ".", poolPages: 64}
	for _, o := range opts {
		o(&cfg)
	}

	if err := os.MkdirAll(cfg.directory, 0755); err != nil {
		return nil, errors.Wrapf(err, "filedriver: create directory %q", cfg.directory)
	}
	path := filepath.Join(cfg.directory, name)

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "filedriver: open %q", path)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "filedriver: stat")
	}
	if info.Size() < headerSize {
		if err := file.Truncate(headerSize); err != nil {
			file.Close()
			return nil, errors.Wrap(err, "filedriver: reserve header region")
		}
	}

	log.Printf("filedriver: opened %q (pool pages: %d, sync on write: %v)", path, cfg.poolPages, cfg.syncOnWrite)

	return &Driver{
		file:  file,
		cfg:   cfg,
		cache: make(map[int64]*list.Element),
		lru:   list.New(),
	}, nil
}

// Close flushes nothing beyond what the OS already buffers; callers
// that need every write durable should use WithSyncOnWrite.
func (d *Driver) Close() error {
	return d.file.Close()
}

func (d *Driver) ReadBlock(offset int64, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.cache[offset]; ok {
		e := el.Value.(*entry)
		if len(e.data) == length {
			d.lru.MoveToFront(el)
			out := make([]byte, length)
			copy(out, e.data)
			return out, nil
		}
	}

	buf := make([]byte, length)
	if _, err := d.file.ReadAt(buf, offset); err != nil {
		return nil, errors.Wrapf(err, "filedriver: read block at offset %d length %d", offset, length)
	}
	d.cacheInsertLocked(offset, buf)
	return buf, nil
}

// Allocate reserves length contiguous bytes past the current end of
// file (or past the header region, for the very first block) by
// truncating the file to cover them.
func (d *Driver) Allocate(length int) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := d.file.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "filedriver: stat")
	}
	offset := info.Size()
	if offset < headerSize {
		offset = headerSize
	}
	if err := d.file.Truncate(offset + int64(length)); err != nil {
		return 0, errors.Wrapf(err, "filedriver: reserve %d bytes at offset %d", length, offset)
	}
	log.Printf("filedriver: allocated %d bytes at offset %d", length, offset)
	return offset, nil
}

func (d *Driver) WriteBlock(offset int64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.file.WriteAt(data, offset); err != nil {
		return errors.Wrapf(err, "filedriver: write block at offset %d", offset)
	}
	if d.cfg.syncOnWrite {
		if err := d.file.Sync(); err != nil {
			return errors.Wrap(err, "filedriver: sync after write")
		}
		log.Printf("filedriver: flushed block at offset %d (%d bytes)", offset, len(data))
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	d.cacheInsertLocked(offset, cp)
	return nil
}

// cacheInsertLocked must be called with mu held.
func (d *Driver) cacheInsertLocked(offset int64, data []byte) {
	if el, ok := d.cache[offset]; ok {
		el.Value.(*entry).data = data
		d.lru.MoveToFront(el)
		return
	}
	el := d.lru.PushFront(&entry{offset: offset, data: data})
	d.cache[offset] = el
	for d.lru.Len() > d.cfg.poolPages {
		back := d.lru.Back()
		if back == nil {
			break
		}
		victim := back.Value.(*entry)
		d.lru.Remove(back)
		delete(d.cache, victim.offset)
		log.Printf("filedriver: evicted block at offset %d from cache (pool pages: %d)", victim.offset, d.cfg.poolPages)
	}
}
