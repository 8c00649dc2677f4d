package buffer

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	text       string
	length     RuneOffset
	cursor     RuneOffset
	revisionID RevisionID
	lineEnding LineEnding
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.text
}

// Len returns the length of the snapshot in runes.
func (s *Snapshot) Len() RuneOffset {
	return s.length
}

// Cursor returns the cursor offset at the time the snapshot was taken.
func (s *Snapshot) Cursor() RuneOffset {
	return s.cursor
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.length == 0
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return uint32(strings.Count(s.text, s.lineEnding.Sequence())) + 1
}

// GraphemeCount returns the number of user-perceived characters.
func (s *Snapshot) GraphemeCount() int {
	return uniseg.GraphemeClusterCount(s.text)
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}
