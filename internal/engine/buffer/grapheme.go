package buffer

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// graphemeWindow is the initial number of runes examined when looking for
// the end of the cluster after the cursor. It doubles until a boundary is
// found.
const graphemeWindow = 16

// nextClusterLen returns the rune length of the grapheme cluster that starts
// at the cursor, or 0 at the end of the buffer.
func (b *Buffer) nextClusterLen() int {
	pos := b.runes.Position()
	remaining := b.runes.Len() - pos
	if remaining == 0 {
		return 0
	}

	window := min(remaining, graphemeWindow)
	for {
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(b.textRange(pos, pos+window), -1)
		if rest != "" || window == remaining {
			return utf8.RuneCountInString(cluster)
		}
		window = min(remaining, window*2)
	}
}

// prevClusterLen returns the rune length of the grapheme cluster that ends
// at the cursor, or 0 at the start of the buffer.
func (b *Buffer) prevClusterLen() int {
	pos := b.runes.Position()
	if pos == 0 {
		return 0
	}

	if prev, _ := b.runes.Get(pos - 1); prev == '\n' {
		if r, ok := b.runes.Get(pos - 2); ok && r == '\r' {
			return 2
		}
		return 1
	}

	// Clusters never continue past a line feed, so segmentation can start
	// at the beginning of the cursor's line.
	anchor := pos - 1
	for anchor > 0 {
		if r, _ := b.runes.Get(anchor - 1); r == '\n' {
			break
		}
		anchor--
	}

	last := 0
	g := uniseg.NewGraphemes(b.textRange(anchor, pos))
	for g.Next() {
		last = len(g.Runes())
	}
	return last
}

// MoveGraphemeForward moves the cursor past the next grapheme cluster.
// Returns false if the cursor is already at the end.
func (b *Buffer) MoveGraphemeForward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.nextClusterLen()
	if n == 0 {
		return false
	}
	b.runes.SetPosition(b.runes.Position() + n)
	return true
}

// MoveGraphemeBackward moves the cursor before the previous grapheme cluster.
// Returns false if the cursor is already at the start.
func (b *Buffer) MoveGraphemeBackward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.prevClusterLen()
	if n == 0 {
		return false
	}
	b.runes.SetPosition(b.runes.Position() - n)
	return true
}

// DeleteGraphemeForward removes the grapheme cluster after the cursor and
// returns it.
func (b *Buffer) DeleteGraphemeForward() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deleteForward(b.nextClusterLen())
}

// DeleteGraphemeBackward removes the grapheme cluster before the cursor and
// returns it, as a backspace key would.
func (b *Buffer) DeleteGraphemeBackward() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deleteBackward(b.prevClusterLen())
}
