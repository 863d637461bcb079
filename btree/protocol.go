package btree

import "github.com/pkg/errors"

// Block identifies a byte range on the caller's storage.
type Block struct {
	Offset int64
	Length int
}

// WriteOp is a single durable write the caller must apply. Mutating
// operations return an ordered batch of these inside their terminal
// Done result; the caller applies them in order and discards the whole
// batch on abort (pre-commit semantics, spec.md §4.4).
type WriteOp struct {
	Offset int64
	Bytes  []byte
}

type stepKind int

const (
	stepDone stepKind = iota
	stepRead
	stepAllocate
)

// Step is a suspendable computation: it is either a terminal Done
// carrying a result, or a suspension (ReadBlock / Allocate) carrying a
// request and a one-shot continuation. Continuations must be invoked at
// most once, in the order they were produced; Step itself never
// performs I/O.
type Step[T any] struct {
	kind   stepKind
	result T

	block       Block
	resumeRead  func([]byte) Step[T]
	allocLen    int
	resumeAlloc func(int64) Step[T]
}

// Done builds a terminal step carrying the algorithm's result.
func Done[T any](v T) Step[T] {
	return Step[T]{kind: stepDone, result: v}
}

// ReadBlockStep suspends until the caller supplies the bytes currently
// at the given block.
func ReadBlockStep[T any](offset int64, length int, k func([]byte) Step[T]) Step[T] {
	return Step[T]{kind: stepRead, block: Block{Offset: offset, Length: length}, resumeRead: k}
}

// AllocateStep suspends until the caller supplies the offset of a
// freshly reserved, contiguous region of the given length.
func AllocateStep[T any](length int, k func(int64) Step[T]) Step[T] {
	return Step[T]{kind: stepAllocate, allocLen: length, resumeAlloc: k}
}

func (s Step[T]) IsDone() bool      { return s.kind == stepDone }
func (s Step[T]) IsRead() bool      { return s.kind == stepRead }
func (s Step[T]) IsAllocate() bool  { return s.kind == stepAllocate }
func (s Step[T]) Result() T         { return s.result }
func (s Step[T]) ReadBlock() Block  { return s.block }
func (s Step[T]) AllocLen() int     { return s.allocLen }

// ResumeRead feeds the requested bytes back in, continuing the
// computation. Calling it on a Step that is not IsRead panics: that is
// a caller-contract violation per spec.md §7.
func (s Step[T]) ResumeRead(data []byte) Step[T] {
	if s.kind != stepRead {
		panic("btree: ResumeRead called on a non-read step")
	}
	return s.resumeRead(data)
}

// ResumeAlloc feeds the chosen offset back in, continuing the
// computation. Calling it on a Step that is not IsAllocate panics.
func (s Step[T]) ResumeAlloc(offset int64) Step[T] {
	if s.kind != stepAllocate {
		panic("btree: ResumeAlloc called on a non-allocate step")
	}
	return s.resumeAlloc(offset)
}

// andThen sequences a Step[A] with a continuation producing Step[B],
// threading suspensions through unchanged. This is the bind operation
// of the Done|ReadBlock|Allocate free monad described in spec.md §9;
// every multi-node algorithm (insert, append, find_gt) is built from it.
func andThen[A, B any](s Step[A], f func(A) Step[B]) Step[B] {
	switch s.kind {
	case stepDone:
		return f(s.result)
	case stepRead:
		return ReadBlockStep(s.block.Offset, s.block.Length, func(data []byte) Step[B] {
			return andThen(s.resumeRead(data), f)
		})
	case stepAllocate:
		return AllocateStep(s.allocLen, func(off int64) Step[B] {
			return andThen(s.resumeAlloc(off), f)
		})
	default:
		panic("btree: unreachable step kind")
	}
}

// Driver is the storage driver interface required from the caller
// (spec.md §6): read a range and reserve a fresh range. Durably applying
// a write batch is the separate Writer interface (see ApplyWrites). The
// core never implements either itself — see
// storagedriver/membuf and storagedriver/filedriver for reference
// collaborators.
type Driver interface {
	ReadBlock(offset int64, length int) ([]byte, error)
	Allocate(length int) (int64, error)
}

// Run pumps a Step to completion against a concrete Driver, a
// convenience for callers who don't need to interleave other work
// between suspensions. It performs no storage operations itself beyond
// what it asks the Driver to do, so it does not violate the core's "no
// I/O" contract — see SPEC_FULL.md §4.
func Run[T any](step Step[T], d Driver) (T, error) {
	for {
		switch {
		case step.IsDone():
			return step.Result(), nil
		case step.IsRead():
			b := step.ReadBlock()
			data, err := d.ReadBlock(b.Offset, b.Length)
			if err != nil {
				var zero T
				return zero, errors.Wrapf(err, "read block at offset %d length %d", b.Offset, b.Length)
			}
			step = step.ResumeRead(data)
		case step.IsAllocate():
			length := step.AllocLen()
			off, err := d.Allocate(length)
			if err != nil {
				var zero T
				return zero, errors.Wrapf(err, "allocate %d bytes", length)
			}
			step = step.ResumeAlloc(off)
		default:
			var zero T
			return zero, errors.New("btree: unreachable step kind in Run")
		}
	}
}

// ApplyWrites durably applies a write batch in order against a driver
// that additionally knows how to write. Mutating operations never call
// this themselves; the caller calls it once Run (or its own pump) has
// returned a terminal MutateResult, per the pre-commit semantics of
// spec.md §4.4 — discard the batch instead to abort.
func ApplyWrites(w Writer, ops []WriteOp) error {
	for _, op := range ops {
		if err := w.WriteBlock(op.Offset, op.Bytes); err != nil {
			return errors.Wrapf(err, "apply write at offset %d", op.Offset)
		}
	}
	return nil
}

// Writer is the durable-write half of the storage driver contract,
// kept separate from Driver because only mutating operations produce
// write batches; Find/Iter/Last/Debug never need it.
type Writer interface {
	WriteBlock(offset int64, data []byte) error
}
