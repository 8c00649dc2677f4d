package gap

import (
	"fmt"
	"iter"
	"slices"
)

// minCapacity is the capacity allocated by the first growth.
const minCapacity = 4

// Buffer is a gap buffer over elements of type T.
// The zero value is an empty buffer ready to use.
type Buffer[T any] struct {
	storage []T
	start   int // gap start; also the cursor
	end     int // gap end (exclusive)

	release func(T)
}

// New creates an empty buffer with capacity 0.
func New[T any](opts ...Option[T]) *Buffer[T] {
	b := &Buffer[T]{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Cap returns the number of raw slots currently allocated.
func (b *Buffer[T]) Cap() int {
	return len(b.storage)
}

// Len returns the number of live elements.
func (b *Buffer[T]) Len() int {
	return len(b.storage) - b.GapLen()
}

// GapLen returns the number of free slots parked at the cursor.
func (b *Buffer[T]) GapLen() int {
	return b.end - b.start
}

// Position returns the cursor, the logical index at which Insert writes.
func (b *Buffer[T]) Position() int {
	return b.start
}

// IsEmpty returns true if the buffer holds no elements.
func (b *Buffer[T]) IsEmpty() bool {
	return b.Len() == 0
}

// rawIndex maps a logical index to its slot, skipping over the gap.
func (b *Buffer[T]) rawIndex(i int) int {
	if i < b.start {
		return i
	}
	return i + b.GapLen()
}

// Get returns the element at logical index i.
// Returns the zero value and false if i is out of range.
func (b *Buffer[T]) Get(i int) (T, bool) {
	if i < 0 || i >= b.Len() {
		var zero T
		return zero, false
	}
	return b.storage[b.rawIndex(i)], true
}

// SetPosition moves the cursor to logical index pos by sliding the gap.
// It panics with an error wrapping ErrPositionOutOfRange if pos is negative
// or greater than Len.
func (b *Buffer[T]) SetPosition(pos int) {
	if pos < 0 || pos > b.Len() {
		panic(fmt.Errorf("%w: %d not in [0, %d]", ErrPositionOutOfRange, pos, b.Len()))
	}

	switch {
	case pos > b.start:
		// Pull the suffix head back across the gap.
		d := pos - b.start
		copy(b.storage[b.start:b.start+d], b.storage[b.end:b.end+d])
		vacated := max(b.end, pos)
		clear(b.storage[vacated : b.end+d])
		b.start += d
		b.end += d
	case pos < b.start:
		// Push the prefix tail forward across the gap.
		d := b.start - pos
		copy(b.storage[b.end-d:b.end], b.storage[pos:b.start])
		clear(b.storage[pos:min(b.start, b.end-d)])
		b.start -= d
		b.end -= d
	}
}

// Remove takes the element immediately after the cursor out of the buffer.
// Returns the zero value and false if the cursor is at the end.
func (b *Buffer[T]) Remove() (T, bool) {
	var zero T
	if b.end == len(b.storage) {
		return zero, false
	}
	v := b.storage[b.end]
	b.storage[b.end] = zero
	b.end++
	return v, true
}

// Insert writes v at the cursor and advances the cursor past it.
func (b *Buffer[T]) Insert(v T) {
	if b.start == b.end {
		b.enlargeGap()
	}
	b.storage[b.start] = v
	b.start++
}

// InsertSeq inserts every element produced by seq at the cursor, in order.
// The cursor ends immediately after the last inserted element.
func (b *Buffer[T]) InsertSeq(seq iter.Seq[T]) {
	for v := range seq {
		b.Insert(v)
	}
}

// InsertSlice inserts vs at the cursor, in order.
func (b *Buffer[T]) InsertSlice(vs ...T) {
	b.InsertSeq(slices.Values(vs))
}

// enlargeGap doubles the storage (minimum minCapacity). The prefix keeps its
// offset, the suffix moves flush against the new end, and every new slot
// lands in the gap. Elements are moved, never released.
func (b *Buffer[T]) enlargeGap() {
	oldCap := len(b.storage)
	newCap := max(minCapacity, 2*oldCap)
	afterGap := oldCap - b.end
	newEnd := newCap - afterGap

	storage := make([]T, newCap)
	copy(storage[:b.start], b.storage[:b.start])
	copy(storage[newEnd:], b.storage[b.end:])

	b.storage = storage
	b.end = newEnd
}

// Values returns an iterator over the elements in logical order.
// The buffer must not be modified during iteration.
func (b *Buffer[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range b.storage[:b.start] {
			if !yield(v) {
				return
			}
		}
		for _, v := range b.storage[b.end:] {
			if !yield(v) {
				return
			}
		}
	}
}

// All returns an iterator over logical index/element pairs.
// The buffer must not be modified during iteration.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for v := range b.Values() {
			if !yield(i, v) {
				return
			}
			i++
		}
	}
}

// Slice returns a new slice holding the elements in logical order.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, 0, b.Len())
	out = append(out, b.storage[:b.start]...)
	return append(out, b.storage[b.end:]...)
}

// Close releases every live element exactly once and drops the storage,
// leaving an empty buffer with capacity 0. Gap slots are not touched.
// Closing an already closed buffer is a no-op.
func (b *Buffer[T]) Close() {
	storage, start, end := b.storage, b.start, b.end
	b.storage, b.start, b.end = nil, 0, 0

	for _, v := range storage[:start] {
		b.releaseOne(v)
	}
	for _, v := range storage[end:] {
		b.releaseOne(v)
	}
}

func (b *Buffer[T]) releaseOne(v T) {
	if b.release != nil {
		b.release(v)
		return
	}
	if r, ok := any(v).(Releaser); ok {
		r.Release()
	}
}

// String returns a short description of the buffer layout for debugging.
func (b *Buffer[T]) String() string {
	return fmt.Sprintf("gap.Buffer[len=%d, cap=%d, pos=%d]", b.Len(), b.Cap(), b.start)
}
