package mqtt

import "errors"

// Adapter-level errors. Channel operations translate these into the
// shared transport error kinds where the contract requires it; use
// errors.Is() to check for them in calling code.
var (
	// ErrNotConnected is returned when the broker connection is gone.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrSubscribeFailed is returned when a subscribe is rejected by
	// the broker.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed is returned when an unsubscribe is rejected
	// by the broker.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrPayloadTooLarge is returned when a payload does not fit the
	// channel's send buffer.
	ErrPayloadTooLarge = errors.New("mqtt: payload exceeds send buffer")

	// ErrTimeout is returned when a broker operation does not complete
	// within its deadline.
	ErrTimeout = errors.New("mqtt: operation timed out")
)
