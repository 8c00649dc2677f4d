package buffer

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	"github.com/dshills/gapbuffer/internal/engine/gap"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is a cursor-oriented text buffer backed by a gap buffer of runes.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	runes      *gap.Buffer[rune]
	revisionID RevisionID
	lineEnding LineEnding
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		runes:      gap.New[rune](),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// The cursor is placed at the start of the text.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.runes.InsertSeq(runeSeq(b.normalizeLineEndings(s)))
	b.runes.SetPosition(0)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first; a CRLF pair may straddle a read boundary.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read buffer content: %w", err)
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') && b.lineEnding == LineEndingLF {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding != LineEndingLF {
		s = strings.ReplaceAll(s, "\n", b.lineEnding.Sequence())
	}
	return s
}

// runeSeq yields the runes of s in order.
func runeSeq(s string) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, r := range s {
			if !yield(r) {
				return
			}
		}
	}
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.runes.Slice())
}

// TextRange returns text in the given rune range, clamped to the buffer.
func (b *Buffer) TextRange(start, end RuneOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.textRange(max(start, 0), min(end, b.runes.Len()))
}

func (b *Buffer) textRange(start, end RuneOffset) string {
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	for i := start; i < end; i++ {
		r, _ := b.runes.Get(i)
		sb.WriteRune(r)
	}
	return sb.String()
}

// Len returns the length of the buffer in runes.
func (b *Buffer) Len() RuneOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.runes.Len()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.runes.IsEmpty()
}

// RuneAt returns the rune at the given offset.
// Returns false if offset is out of range.
func (b *Buffer) RuneAt(offset RuneOffset) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.runes.Get(offset)
}

// Cursor returns the current cursor offset.
func (b *Buffer) Cursor() RuneOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.runes.Position()
}

// LineCount returns the number of lines (newlines + 1).
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lines := uint32(1)
	for r := range b.runes.Values() {
		if b.isBreak(r) {
			lines++
		}
	}
	return lines
}

// isBreak reports whether r terminates a line under the buffer's line ending.
func (b *Buffer) isBreak(r rune) bool {
	if b.lineEnding == LineEndingCR {
		return r == '\r'
	}
	return r == '\n'
}

// isLineBreak reports whether the rune at offset ends a line.
func (b *Buffer) isLineBreak(offset RuneOffset) bool {
	r, ok := b.runes.Get(offset)
	return ok && b.isBreak(r)
}

// lineStart returns the offset of the first rune of line, or -1 if the line
// does not exist.
func (b *Buffer) lineStart(line uint32) RuneOffset {
	if line == 0 {
		return 0
	}
	var seen uint32
	for i, r := range b.runes.All() {
		if b.isBreak(r) {
			seen++
			if seen == line {
				return i + 1
			}
		}
	}
	return -1
}

// lineEnd returns the offset just past the last content rune of the line
// starting at start, excluding the line ending sequence.
func (b *Buffer) lineEnd(start RuneOffset) RuneOffset {
	n := b.runes.Len()
	end := start
	for end < n && !b.isLineBreak(end) {
		end++
	}
	if b.lineEnding == LineEndingCRLF && end > start && end < n {
		if r, _ := b.runes.Get(end - 1); r == '\r' {
			end--
		}
	}
	return end
}

// LineText returns the text of a specific line (without line ending).
// Returns an empty string if the line does not exist.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := b.lineStart(line)
	if start < 0 {
		return ""
	}
	return b.textRange(start, b.lineEnd(start))
}

// Coordinate Conversion

// OffsetToPoint converts a rune offset to line/column.
// Offsets past the end are clamped to the end of the buffer.
func (b *Buffer) OffsetToPoint(offset RuneOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset = max(0, min(offset, b.runes.Len()))
	var p Point
	for i := 0; i < offset; i++ {
		if b.isLineBreak(i) {
			p.Line++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}

// PointToOffset converts line/column to a rune offset.
// Columns past the end of the line are clamped to the line end.
func (b *Buffer) PointToOffset(point Point) (RuneOffset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := b.lineStart(point.Line)
	if start < 0 {
		return 0, fmt.Errorf("%w: line %d", ErrOffsetOutOfRange, point.Line)
	}
	end := b.lineEnd(start)
	return min(start+int(point.Column), end), nil
}

// Cursor Operations

// MoveTo places the cursor at offset.
func (b *Buffer) MoveTo(offset RuneOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moveTo(offset)
}

func (b *Buffer) moveTo(offset RuneOffset) error {
	if offset < 0 || offset > b.runes.Len() {
		return fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
	}
	b.runes.SetPosition(offset)
	return nil
}

// InsertAtCursor inserts text at the cursor and returns the new cursor,
// which sits immediately after the inserted text.
func (b *Buffer) InsertAtCursor(text string) RuneOffset {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insert(text)
	return b.runes.Position()
}

func (b *Buffer) insert(text string) {
	if text == "" {
		return
	}
	b.runes.InsertSeq(runeSeq(b.normalizeLineEndings(text)))
	b.revisionID = NewRevisionID()
}

// DeleteForward removes up to n runes after the cursor and returns them.
func (b *Buffer) DeleteForward(n int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deleteForward(n)
}

func (b *Buffer) deleteForward(n int) string {
	var sb strings.Builder
	for range n {
		r, ok := b.runes.Remove()
		if !ok {
			break
		}
		sb.WriteRune(r)
	}
	if sb.Len() > 0 {
		b.revisionID = NewRevisionID()
	}
	return sb.String()
}

// DeleteBackward removes up to n runes before the cursor and returns them.
func (b *Buffer) DeleteBackward(n int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deleteBackward(n)
}

func (b *Buffer) deleteBackward(n int) string {
	n = max(0, min(n, b.runes.Position()))
	b.runes.SetPosition(b.runes.Position() - n)
	return b.deleteForward(n)
}

// Range Operations

// Insert inserts text at the given offset, leaving the cursor after it.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset RuneOffset, text string) (RuneOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.moveTo(offset); err != nil {
		return 0, err
	}
	b.insert(text)
	return b.runes.Position(), nil
}

// Delete removes text in the given range, leaving the cursor at start.
func (b *Buffer) Delete(start, end RuneOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(Range{Start: start, End: end}); err != nil {
		return err
	}
	b.runes.SetPosition(start)
	b.deleteForward(end - start)
	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end RuneOffset, text string) (RuneOffset, error) {
	result, err := b.ApplyEdit(NewEdit(Range{Start: start, End: end}, text))
	if err != nil {
		return 0, err
	}
	return result.NewRange.End, nil
}

func (b *Buffer) checkRange(r Range) error {
	if r.Start < 0 || !r.IsValid() || r.End > b.runes.Len() {
		return fmt.Errorf("%w: %s", ErrRangeInvalid, r)
	}
	return nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(edit.Range); err != nil {
		return EditResult{}, err
	}
	return b.applyEdit(edit), nil
}

func (b *Buffer) applyEdit(edit Edit) EditResult {
	b.runes.SetPosition(edit.Range.Start)
	oldText := b.deleteForward(edit.Range.Len())
	b.insert(edit.NewText)
	newEnd := b.runes.Position()

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    (newEnd - edit.Range.Start) - edit.Range.Len(),
	}
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}
	for _, edit := range edits {
		if err := b.checkRange(edit.Range); err != nil {
			return err
		}
	}

	for _, edit := range edits {
		b.applyEdit(edit)
	}
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the buffer's line ending style.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		text:       string(b.runes.Slice()),
		length:     b.runes.Len(),
		cursor:     b.runes.Position(),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
	}
}

// Close drops the buffer's storage. The buffer is empty afterwards and may
// be reused.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runes.Close()
	b.revisionID = NewRevisionID()
}
