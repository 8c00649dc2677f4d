package buffer

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}

	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewBufferFromString(t *testing.T) {
	text := "Hello, 世界!"
	b := NewBufferFromString(text)
	defer b.Close()

	if b.Text() != text {
		t.Errorf("expected %q, got %q", text, b.Text())
	}

	if b.Len() != 10 {
		t.Errorf("expected length 10 runes, got %d", b.Len())
	}

	if b.Cursor() != 0 {
		t.Errorf("cursor should start at 0, got %d", b.Cursor())
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("one\r\ntwo"))
	if err != nil {
		t.Fatalf("NewBufferFromReader failed: %v", err)
	}
	defer b.Close()

	if b.Text() != "one\ntwo" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestNewBufferFromReaderError(t *testing.T) {
	if _, err := NewBufferFromReader(failingReader{}); err == nil {
		t.Error("expected read error to propagate")
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}

	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(uint32(i)); got != want {
			t.Errorf("LineText(%d) = %q, want %q", i, got, want)
		}
	}

	if got := b.LineText(3); got != "" {
		t.Errorf("LineText past end = %q, want empty", got)
	}
}

func TestBufferInsertInMiddle(t *testing.T) {
	b := NewBufferFromString("Lord of the Rings")

	end, err := b.Insert(12, "Onion ")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if end != 18 || b.Cursor() != 18 {
		t.Errorf("expected end and cursor 18, got %d and %d", end, b.Cursor())
	}

	if b.Text() != "Lord of the Onion Rings" {
		t.Errorf("expected 'Lord of the Onion Rings', got %q", b.Text())
	}

	if got := b.DeleteForward(5); got != "Rings" {
		t.Errorf("DeleteForward(5) = %q, want %q", got, "Rings")
	}
	if _, ok := b.RuneAt(b.Cursor()); ok {
		t.Error("RuneAt(cursor) should be absent at end of buffer")
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	_, err := b.Insert(100, "X")
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}

	_, err = b.Insert(-1, "X")
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}

	if b.Text() != "Hello" {
		t.Errorf("failed insert modified buffer: %q", b.Text())
	}
}

func TestBufferMoveTo(t *testing.T) {
	b := NewBufferFromString("Hello")

	if err := b.MoveTo(5); err != nil {
		t.Fatalf("MoveTo(5) failed: %v", err)
	}
	if b.Cursor() != 5 {
		t.Errorf("expected cursor 5, got %d", b.Cursor())
	}

	if err := b.MoveTo(6); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if b.Cursor() != 5 {
		t.Errorf("failed move changed cursor to %d", b.Cursor())
	}
}

func TestBufferCursorEditing(t *testing.T) {
	b := NewBuffer()
	defer b.Close()

	b.InsertAtCursor("Hello World")
	if err := b.MoveTo(5); err != nil {
		t.Fatal(err)
	}

	if cursor := b.InsertAtCursor(","); cursor != 6 {
		t.Errorf("expected cursor 6, got %d", cursor)
	}
	if got := b.DeleteBackward(3); got != "lo," {
		t.Errorf("DeleteBackward(3) = %q, want %q", got, "lo,")
	}
	if got := b.DeleteForward(100); got != " World" {
		t.Errorf("DeleteForward(100) = %q, want %q", got, " World")
	}
	if got := b.DeleteBackward(100); got != "Hel" {
		t.Errorf("DeleteBackward(100) = %q, want %q", got, "Hel")
	}
	if !b.IsEmpty() {
		t.Errorf("expected empty buffer, got %q", b.Text())
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("Hello, World!")

	if err := b.Delete(5, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if b.Text() != "HelloWorld!" {
		t.Errorf("expected 'HelloWorld!', got %q", b.Text())
	}
	if b.Cursor() != 5 {
		t.Errorf("expected cursor at 5, got %d", b.Cursor())
	}
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	tests := []struct {
		name       string
		start, end int
	}{
		{"reversed", 3, 2},
		{"past end", 0, 100},
		{"negative", -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.Delete(tt.start, tt.end); !errors.Is(err, ErrRangeInvalid) {
				t.Errorf("expected ErrRangeInvalid, got %v", err)
			}
		})
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Replace(6, 11, "Go")
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if end != 8 {
		t.Errorf("expected end position 8, got %d", end)
	}

	if b.Text() != "Hello Go" {
		t.Errorf("expected 'Hello Go', got %q", b.Text())
	}
}

func TestBufferApplyEdit(t *testing.T) {
	b := NewBufferFromString("Hello World")

	result, err := b.ApplyEdit(NewEdit(Range{Start: 0, End: 5}, "Hi"))
	if err != nil {
		t.Fatalf("apply edit failed: %v", err)
	}

	if b.Text() != "Hi World" {
		t.Errorf("expected 'Hi World', got %q", b.Text())
	}

	if result.OldText != "Hello" {
		t.Errorf("expected old text 'Hello', got %q", result.OldText)
	}

	if result.Delta != -3 {
		t.Errorf("expected delta -3, got %d", result.Delta)
	}

	if result.NewRange != (Range{Start: 0, End: 2}) {
		t.Errorf("expected new range [0:2), got %s", result.NewRange)
	}
}

func TestBufferApplyEdits(t *testing.T) {
	b := NewBufferFromString("Hello World")

	// Edits must be in reverse order
	edits := []Edit{
		NewEdit(Range{Start: 6, End: 11}, "Go"),
		NewEdit(Range{Start: 0, End: 5}, "Goodbye"),
	}

	if err := b.ApplyEdits(edits); err != nil {
		t.Fatalf("apply edits failed: %v", err)
	}

	if b.Text() != "Goodbye Go" {
		t.Errorf("expected 'Goodbye Go', got %q", b.Text())
	}
}

func TestBufferApplyEditsOverlap(t *testing.T) {
	b := NewBufferFromString("Hello World")

	edits := []Edit{
		NewEdit(Range{Start: 0, End: 5}, "A"),
		NewEdit(Range{Start: 3, End: 8}, "B"),
	}

	if err := b.ApplyEdits(edits); !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("expected ErrEditsOverlap, got %v", err)
	}
	if b.Text() != "Hello World" {
		t.Errorf("rejected edits modified buffer: %q", b.Text())
	}
}

func TestBufferOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("ab\ncd\u00e9\nf")

	tests := []struct {
		offset int
		want   Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{6, Point{1, 3}},
		{7, Point{2, 0}},
		{8, Point{2, 1}},
		{100, Point{2, 1}},
	}

	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %s, want %s", tt.offset, got, tt.want)
		}
	}
}

func TestBufferPointToOffset(t *testing.T) {
	b := NewBufferFromString("ab\ncd\u00e9\nf")

	tests := []struct {
		point Point
		want  int
	}{
		{Point{0, 0}, 0},
		{Point{0, 2}, 2},
		{Point{0, 10}, 2},
		{Point{1, 0}, 3},
		{Point{1, 3}, 6},
		{Point{2, 1}, 8},
	}

	for _, tt := range tests {
		got, err := b.PointToOffset(tt.point)
		if err != nil {
			t.Fatalf("PointToOffset(%s) failed: %v", tt.point, err)
		}
		if got != tt.want {
			t.Errorf("PointToOffset(%s) = %d, want %d", tt.point, got, tt.want)
		}
	}

	if _, err := b.PointToOffset(Point{Line: 5}); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange for missing line, got %v", err)
	}
}

func TestBufferLineEndingNormalization(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc\n")

	if b.Text() != "a\nb\nc\n" {
		t.Errorf("expected LF-normalized text, got %q", b.Text())
	}
	if b.LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", b.LineCount())
	}
}

func TestBufferWithCRLFLineEnding(t *testing.T) {
	b := NewBufferFromString("one\ntwo", WithCRLF())

	if b.Text() != "one\r\ntwo" {
		t.Errorf("expected CRLF text, got %q", b.Text())
	}
	if b.LineText(0) != "one" {
		t.Errorf("LineText(0) should drop the line ending, got %q", b.LineText(0))
	}
	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF line ending, got %s", b.LineEnding())
	}
}

func TestBufferWithCRLineEnding(t *testing.T) {
	b := NewBufferFromString("one\ntwo\r\nthree", WithCR())

	if b.Text() != "one\rtwo\rthree" {
		t.Errorf("expected CR text, got %q", b.Text())
	}
	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	if b.LineText(2) != "three" {
		t.Errorf("LineText(2) = %q, want %q", b.LineText(2), "three")
	}
}

func TestBufferRevisionID(t *testing.T) {
	b := NewBuffer()
	rev1 := b.RevisionID()

	b.InsertAtCursor("hello")
	rev2 := b.RevisionID()
	if rev2 == rev1 {
		t.Error("insert should change revision")
	}

	if err := b.MoveTo(0); err != nil {
		t.Fatal(err)
	}
	if b.RevisionID() != rev2 {
		t.Error("moving the cursor should not change revision")
	}

	b.DeleteForward(0)
	if b.RevisionID() != rev2 {
		t.Error("deleting nothing should not change revision")
	}

	b.DeleteForward(1)
	if b.RevisionID() == rev2 {
		t.Error("delete should change revision")
	}
}

func TestBufferSnapshot(t *testing.T) {
	b := NewBufferFromString("Hello\nWorld")
	if err := b.MoveTo(5); err != nil {
		t.Fatal(err)
	}
	snap := b.Snapshot()

	b.InsertAtCursor("!!!")

	if snap.Text() != "Hello\nWorld" {
		t.Errorf("snapshot changed after edit: %q", snap.Text())
	}
	if snap.Len() != 11 || snap.Cursor() != 5 {
		t.Errorf("snapshot len=%d cursor=%d, want 11 and 5", snap.Len(), snap.Cursor())
	}
	if snap.LineCount() != 2 {
		t.Errorf("snapshot should have 2 lines, got %d", snap.LineCount())
	}
	if snap.RevisionID() == b.RevisionID() {
		t.Error("snapshot revision should differ from edited buffer")
	}
	if snap.IsEmpty() {
		t.Error("snapshot should not be empty")
	}
}

func TestBufferClose(t *testing.T) {
	b := NewBufferFromString("Hello")
	b.Close()

	if !b.IsEmpty() || b.Cursor() != 0 {
		t.Errorf("closed buffer should be empty, got %q at %d", b.Text(), b.Cursor())
	}

	b.InsertAtCursor("again")
	if b.Text() != "again" {
		t.Errorf("closed buffer should be reusable, got %q", b.Text())
	}
}

func TestBufferConcurrentReadWrite(t *testing.T) {
	b := NewBuffer()
	defer b.Close()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				b.InsertAtCursor("x")
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = b.Text()
				_ = b.LineCount()
			}
		}()
	}
	wg.Wait()

	if b.Len() != 400 {
		t.Errorf("expected 400 runes after concurrent inserts, got %d", b.Len())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"no newlines", LineEndingLF},
		{"a\nb\nc", LineEndingLF},
		{"a\r\nb\r\nc", LineEndingCRLF},
		{"a\rb\rc", LineEndingCR},
		{"a\r\nb\nc\nd", LineEndingLF},
	}

	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestPointOperations(t *testing.T) {
	p1 := Point{Line: 1, Column: 5}
	p2 := Point{Line: 1, Column: 10}
	p3 := Point{Line: 2, Column: 0}

	if !p1.Before(p2) || !p2.Before(p3) {
		t.Error("points should be ordered by line then column")
	}
	if !p3.After(p1) {
		t.Error("p3 should be after p1")
	}
	if p1.Compare(p1) != 0 {
		t.Error("point should equal itself")
	}
	if p1.String() != "(1:5)" {
		t.Errorf("unexpected String(): %s", p1.String())
	}
}

func TestRangeOperations(t *testing.T) {
	r := Range{Start: 5, End: 10}

	if r.Len() != 5 {
		t.Errorf("expected length 5, got %d", r.Len())
	}
	if !r.Contains(5) || r.Contains(10) {
		t.Error("range should be half-open")
	}
	if !r.Overlaps(Range{Start: 8, End: 12}) || r.Overlaps(Range{Start: 10, End: 12}) {
		t.Error("unexpected overlap result")
	}
	if (Range{Start: 3, End: 2}).IsValid() {
		t.Error("reversed range should be invalid")
	}
	if r.String() != "[5:10)" {
		t.Errorf("unexpected String(): %s", r.String())
	}
}

func TestEditOperations(t *testing.T) {
	tests := []struct {
		edit  Edit
		str   string
		delta int
	}{
		{NewInsert(3, "abc"), `Insert(3, "abc")`, 3},
		{NewDelete(2, 6), "Delete[2:6)", -4},
		{NewEdit(Range{Start: 0, End: 2}, "\u00e9"), "Replace[0:2) with \"\u00e9\"", -1},
	}

	for _, tt := range tests {
		if got := tt.edit.String(); got != tt.str {
			t.Errorf("String() = %s, want %s", got, tt.str)
		}
		if got := tt.edit.Delta(); got != tt.delta {
			t.Errorf("%s Delta() = %d, want %d", tt.str, got, tt.delta)
		}
	}

	if !NewInsert(1, "").IsNoOp() {
		t.Error("empty insert should be a no-op")
	}
}
