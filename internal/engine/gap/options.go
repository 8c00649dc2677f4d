package gap

// Option configures a Buffer during creation.
type Option[T any] func(*Buffer[T])

// Releaser is implemented by elements that hold resources which must be
// freed when the buffer holding them is closed.
type Releaser interface {
	Release()
}

// WithRelease sets the hook Close calls once for every live element.
// It takes precedence over a Releaser implementation on T.
func WithRelease[T any](fn func(T)) Option[T] {
	return func(b *Buffer[T]) {
		b.release = fn
	}
}
