// Package gap provides a generic gap buffer: a sequence container optimized
// for repeated insertions and deletions clustered around a movable cursor.
//
// The buffer owns a single slice partitioned into three regions:
//
//	[0, start)      prefix: live elements before the cursor
//	[start, end)    the gap: free capacity parked at the cursor
//	[end, Cap())    suffix: live elements after the cursor
//
// Inserting writes into the left edge of the gap and removing consumes the
// element at its right edge, so edits at the cursor are O(1). Moving the
// cursor slides the gap and costs O(distance moved). When the gap is full,
// the storage doubles (minimum 4 slots) and the suffix is pushed flush
// against the new end, leaving all fresh capacity inside the gap.
//
// Basic usage:
//
//	b := gap.New[rune]()
//	defer b.Close()
//
//	b.InsertSlice([]rune("Lord of the Rings")...)
//	b.SetPosition(12)
//	b.InsertSlice([]rune("Onion ")...)
//	string(b.Slice()) // "Lord of the Onion Rings"
//
//	r, ok := b.Remove() // 'R', true
//
// # Absence and Contract Violations
//
// Get past the end and Remove at the end of the buffer are ordinary outcomes
// reported as (zero, false). SetPosition beyond Len is a programmer error
// and panics with an error wrapping ErrPositionOutOfRange.
//
// # Element Release
//
// Close releases every live element exactly once, either through the hook
// installed with WithRelease or, when no hook is set, through the element's
// own Release method if it implements Releaser. Elements relocated by
// growth are never released twice, and consumed elements (returned by
// Remove) become the caller's responsibility.
//
// # Thread Safety
//
// A Buffer is not safe for concurrent use. Callers sharing one across
// goroutines must provide their own locking.
package gap
