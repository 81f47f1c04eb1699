package transport

import "errors"

// Shared error kinds for all transport implementations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidAddress is returned when a channel config does not
	// carry a usable network address URL.
	ErrInvalidAddress = errors.New("transport: invalid address")

	// ErrOutOfMemory is returned when a channel's buffers cannot be
	// allocated within the transport's limits.
	ErrOutOfMemory = errors.New("transport: out of memory")

	// ErrConnectFailed is returned when the broker handshake fails
	// during channel construction.
	ErrConnectFailed = errors.New("transport: connect failed")

	// ErrConnectionClosed is returned when a data-plane operation is
	// attempted on a channel that is not ready.
	ErrConnectionClosed = errors.New("transport: connection closed")

	// ErrMissingArgument is returned by Regist and Unregist when the
	// transport settings are absent or carry no queue name.
	ErrMissingArgument = errors.New("transport: transport settings missing")

	// ErrPublishFailed is returned when the broker rejects a publish.
	// The channel is faulted afterwards.
	ErrPublishFailed = errors.New("transport: publish failed")

	// ErrInternal is returned by Yield on an already-faulted channel.
	ErrInternal = errors.New("transport: channel faulted")

	// ErrInvalidArgument is returned by Yield on a nil channel.
	ErrInvalidArgument = errors.New("transport: invalid argument")

	// ErrUnknownProfile is returned by a Registry for a profile URI
	// with no registered transport layer.
	ErrUnknownProfile = errors.New("transport: unknown transport profile")

	// ErrDuplicateProfile is returned when a profile URI is registered
	// twice.
	ErrDuplicateProfile = errors.New("transport: transport profile already registered")
)
