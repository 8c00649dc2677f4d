// Package gapbuffer exposes the gap buffer and the text buffer built on it.
//
// The implementations live under internal/engine; this package re-exports
// their public types so other modules can use them.
package gapbuffer

import (
	"github.com/dshills/gapbuffer/internal/engine/buffer"
	"github.com/dshills/gapbuffer/internal/engine/gap"
)

// Buffer is a generic gap buffer. See package gap for details.
type Buffer[T any] = gap.Buffer[T]

// Option configures a Buffer.
type Option[T any] = gap.Option[T]

// Releaser is implemented by elements released when a Buffer is closed.
type Releaser = gap.Releaser

// ErrPositionOutOfRange is wrapped by the panic raised for an invalid cursor.
var ErrPositionOutOfRange = gap.ErrPositionOutOfRange

// New creates an empty gap buffer.
func New[T any](opts ...Option[T]) *Buffer[T] {
	return gap.New(opts...)
}

// WithRelease sets the per-element release hook called by Close.
func WithRelease[T any](fn func(T)) Option[T] {
	return gap.WithRelease(fn)
}

// Text is a thread-safe, rune-indexed text buffer.
type Text = buffer.Buffer

// TextOption configures a Text.
type TextOption = buffer.Option

// NewText creates an empty text buffer.
func NewText(opts ...TextOption) *Text {
	return buffer.NewBuffer(opts...)
}

// NewTextFromString creates a text buffer holding s with the cursor at 0.
func NewTextFromString(s string, opts ...TextOption) *Text {
	return buffer.NewBufferFromString(s, opts...)
}
