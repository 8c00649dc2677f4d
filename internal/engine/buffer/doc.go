// Package buffer provides a thread-safe text buffer built on top of the gap
// buffer. It is the editor-facing layer: offsets are rune offsets, edits are
// expressed as cursor moves plus inserts and removals at the gap, and a
// sync.RWMutex supplies the locking the gap buffer itself does not.
//
// The buffer package provides:
//
//   - Cursor-local editing (InsertAtCursor, DeleteForward, DeleteBackward)
//   - Range editing (Insert, Delete, Replace, ApplyEdit, ApplyEdits)
//   - Grapheme-cluster cursor motion for user-perceived characters
//   - Coordinate conversion between rune offsets and line/column positions
//   - Line ending normalization
//   - Revision tracking and immutable snapshots
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Lord of the Rings")
//	defer buf.Close()
//
//	buf.Insert(12, "Onion ")  // "Lord of the Onion Rings", cursor at 18
//	buf.DeleteForward(5)      // "Rings"
//
// Edits near the cursor are cheap; edits far from it first slide the gap,
// which costs time proportional to the distance moved.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. Use Snapshot to
// obtain a consistent read-only view.
package buffer
