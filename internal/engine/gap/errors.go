package gap

import "errors"

// ErrPositionOutOfRange is the panic value (wrapped) raised by SetPosition
// when asked to place the cursor outside [0, Len()].
var ErrPositionOutOfRange = errors.New("gap: position out of range")
