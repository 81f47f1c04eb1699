// Package transport defines the protocol-agnostic pub-sub transport
// channel contract.
//
// A Channel is one logical bidirectional connection a pub-sub engine
// uses to exchange serialized messages with a message broker. The
// engine never talks to a broker library directly: it asks a Registry
// for the TransportLayer matching a profile URI and lets that layer's
// CreateChannel build a concrete channel from a ChannelConfig.
//
// # Lifecycle
//
// A channel moves through four states:
//
//	Fresh ──open──▶ Ready ──fault──▶ Error
//	                  │                │
//	                  └────Close()─────┴──▶ Closed
//
// Ready is the only state in which Regist, Unregist, Send and Yield
// are valid. Error is a sticky soft-fault: the channel remains a live
// value so Close stays safe, but every data-plane operation is
// rejected until the engine closes it. Closed is terminal. Recovery
// (reopen, backoff) is the engine's responsibility, never the
// channel's.
//
// # Threading
//
// Channels follow a single-threaded cooperative model: all operations
// on one channel must come from one engine goroutine (or be serialized
// externally). Yield is the only blocking point and bounds its
// blocking by the caller-supplied timeout; it invokes the registered
// callback synchronously on the calling goroutine. The callback must
// not call Close on the channel that is delivering to it.
//
// # Usage
//
//	reg := transport.NewRegistry()
//	reg.Register(mqtt.NewTransportLayer(logger))
//
//	ch, err := reg.Create(mqtt.ProfileURI, &transport.ChannelConfig{
//	    Address: transport.NetworkAddressURL{URL: "tcp://127.0.0.1:1883"},
//	})
package transport
