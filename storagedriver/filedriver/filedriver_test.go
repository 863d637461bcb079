package filedriver

import (
	"testing"
)

func openTemp(t *testing.T, opts ...Option) *Driver {
	opts = append([]Option{WithDirectory(t.TempDir())}, opts...)
	d, err := Open("tree.db", opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpenCreatesMissingDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/does/not/exist"
	d, err := Open("tree.db", WithDirectory(dir))
	if err != nil {
		t.Fatalf("Open with missing directory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
}

func TestAllocateSkipsHeaderRegion(t *testing.T) {
	d := openTemp(t)
	off, err := d.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if off != headerSize {
		t.Errorf("first allocation offset = %d, want %d", off, headerSize)
	}
}

func TestWriteThenReadBlock(t *testing.T) {
	d := openTemp(t)
	off, err := d.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	payload := []byte("0123456789abcdef")
	if err := d.WriteBlock(off, payload); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}

	got, err := d.ReadBlock(off, 16)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("ReadBlock = %q, want %q", got, payload)
	}
}

func TestReadBlockMissesCacheAfterEviction(t *testing.T) {
	d := openTemp(t, WithPoolPages(1))
	off1, _ := d.Allocate(8)
	off2, _ := d.Allocate(8)

	d.WriteBlock(off1, []byte("aaaaaaaa"))
	d.WriteBlock(off2, []byte("bbbbbbbb"))

	got, err := d.ReadBlock(off1, 8)
	if err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if string(got) != "aaaaaaaa" {
		t.Errorf("ReadBlock(off1) = %q, want %q (should fall back to disk after cache eviction)", got, "aaaaaaaa")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	d := openTemp(t)
	h := Header{RootOffset: 123, Order: 7}
	if err := d.WriteHeader(h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	got, err := d.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != h {
		t.Errorf("ReadHeader = %+v, want %+v", got, h)
	}
}
