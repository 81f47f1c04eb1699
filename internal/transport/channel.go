package transport

import "time"

// State describes where a channel is in its lifecycle.
//
// State transitions are one-way funnels: Fresh becomes Ready inside a
// transport's open routine, Ready degrades to Error on a send or yield
// fault, and Close moves any state to Closed. A channel never leaves
// Closed.
type State uint8

const (
	// StateFresh is a channel under construction, before the broker
	// handshake has completed.
	StateFresh State = iota

	// StateReady accepts all data-plane operations.
	StateReady

	// StateError is a sticky soft-fault. The channel value stays live
	// so Close remains valid, but data-plane operations are rejected.
	StateError

	// StateClosed is terminal.
	StateClosed
)

// String returns a short lowercase name for logging.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DeliveryGuarantee is the abstract, transport-agnostic reliability
// level the engine requests for a subscription or publish. Each
// transport translates it to its broker's native quality-of-service
// value.
type DeliveryGuarantee uint8

const (
	// BestEffort delivers with no acknowledgement.
	BestEffort DeliveryGuarantee = iota

	// AtLeastOnce guarantees delivery but may duplicate.
	AtLeastOnce

	// AtMostOnce delivers without duplication.
	AtMostOnce
)

// NetworkAddressURL carries a broker endpoint. URL is mandatory and
// must parse as scheme://host[:port]; NetworkInterface optionally pins
// the local interface and may be empty.
type NetworkAddressURL struct {
	NetworkInterface string
	URL              string
}

// KeyValue is one connection property. Properties form an ordered
// list, not a map: transports scan them in order and let the last
// matching key win.
type KeyValue struct {
	Key   string
	Value any
}

// ChannelConfig is the engine-owned description of one connection.
// It is read-only to the transport: anything a channel needs beyond
// open time is copied, so the config need not outlive the channel.
type ChannelConfig struct {
	// Name identifies the connection in logs.
	Name string

	// Address is the broker endpoint.
	Address NetworkAddressURL

	// Properties are transport-specific settings. Keys a transport
	// does not recognise are ignored with a warning.
	Properties []KeyValue
}

// TransportSettings carry the per-operation routing parameters for
// Regist, Unregist and Send.
type TransportSettings struct {
	// QueueName is the broker-side topic or queue the operation
	// targets.
	QueueName string

	// RequestedDeliveryGuarantee is translated to the broker's QoS.
	RequestedDeliveryGuarantee DeliveryGuarantee
}

// MessageCallback receives one inbound message. Both slices are only
// valid for the duration of the call; implementations may reuse the
// backing buffers for the next message.
type MessageCallback func(payload, topic []byte)

// Channel is the transport-channel contract consumed by the pub-sub
// engine. Implementations live in sub-packages, one per protocol.
//
// All methods report outcome through their error value; none panic on
// broker faults. See the package documentation for the state rules.
type Channel interface {
	// Regist stores the receive callback and, given settings with a
	// queue name, subscribes to it at the translated QoS. The callback
	// is stored even when the settings turn out to be missing: the
	// callback slot and the subscription are independent concerns.
	Regist(settings *TransportSettings, cb MessageCallback) error

	// Unregist removes the subscription named by the settings.
	Unregist(settings *TransportSettings) error

	// Send publishes payload to the queue named by the settings.
	// Missing settings make Send a logged no-op, not an error.
	Send(settings *TransportSettings, payload []byte) error

	// Yield pumps broker I/O for up to timeout, delivering inbound
	// messages to the registered callback on the calling goroutine.
	Yield(timeout time.Duration) error

	// Close tears the channel down. It is idempotent and always
	// succeeds; broker-side disconnect problems are swallowed because
	// the caller cannot act on them.
	Close() error

	// State reports the current lifecycle state.
	State() State
}
