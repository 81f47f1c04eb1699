package mqtt

import (
	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/brandnewdays/open62541/internal/transport"
)

// Channel defaults and limits.
const (
	// defaultClientID identifies the channel to the broker when the
	// config carries no mqttClientId property.
	defaultClientID = "open62541_pub"

	// defaultBufferSize is the send and receive buffer size in bytes
	// when the config does not override it.
	defaultBufferSize = 2000

	// maxBufferSize caps configurable buffer sizes. A request above
	// this is treated as an allocation failure rather than honoured.
	maxBufferSize = 64 << 20 // 64 MiB

	// inboundQueueDepth is the number of staged inbound messages the
	// channel holds between Yield calls before dropping.
	inboundQueueDepth = 128
)

// Connection property keys recognised by the channel.
const (
	propSendBufferSize = "sendBufferSize"
	propRecvBufferSize = "recvBufferSize"
	propMQTTClientID   = "mqttClientId"
)

// inboundMessage is one received message staged between the paho
// network goroutine and Yield.
type inboundMessage struct {
	topic   string
	payload []byte
}

// channelData is the private state bundle for one channel. It is
// exclusively owned by its pubSubChannel: buffers are allocated once
// at open time, keep their size for the channel's lifetime, and are
// released by Close.
type channelData struct {
	address  transport.NetworkAddressURL
	clientID string

	sendBufferSize uint32
	recvBufferSize uint32

	// sendBuffer stages outbound payloads; nil when sendBufferSize is
	// zero, in which case payloads are handed to the broker directly.
	sendBuffer []byte

	// recvBuffer stages inbound payloads for the callback; nil when
	// recvBufferSize is zero, in which case inbound messages cannot be
	// staged and are dropped.
	recvBuffer []byte

	// callback is set by Regist and invoked from Yield.
	callback transport.MessageCallback

	// inbound is fed by the paho subscription handler and drained by
	// Yield. It is the only structure shared with another goroutine.
	inbound chan inboundMessage

	// conn is the live broker connection, owned by the adapter.
	conn pahomqtt.Client
}

// newChannelData builds the state bundle from a config: defaults
// first, then an in-order scan of the connection properties where the
// last matching key wins. Type-mismatched values are ignored silently;
// unrecognised keys are ignored with a warning.
func newChannelData(cfg *transport.ChannelConfig, log Logger) *channelData {
	data := &channelData{
		address:        cfg.Address,
		clientID:       defaultClientID,
		sendBufferSize: defaultBufferSize,
		recvBufferSize: defaultBufferSize,
	}

	for _, prop := range cfg.Properties {
		switch prop.Key {
		case propSendBufferSize:
			if size, ok := prop.Value.(uint32); ok {
				data.sendBufferSize = size
			}
		case propRecvBufferSize:
			if size, ok := prop.Value.(uint32); ok {
				data.recvBufferSize = size
			}
		case propMQTTClientID:
			if id, ok := prop.Value.(string); ok {
				data.clientID = id
			}
		default:
			log.Warn("unknown connection property",
				"connection", cfg.Name,
				"key", prop.Key,
			)
		}
	}

	return data
}

// allocateBuffers sizes the send and receive buffers. A zero size is
// valid and leaves the buffer unallocated. Sizes beyond the cap fail
// without allocating anything.
func (d *channelData) allocateBuffers() error {
	if d.sendBufferSize > maxBufferSize || d.recvBufferSize > maxBufferSize {
		return transport.ErrOutOfMemory
	}
	if d.recvBufferSize > 0 {
		d.recvBuffer = make([]byte, d.recvBufferSize)
	}
	if d.sendBufferSize > 0 {
		d.sendBuffer = make([]byte, d.sendBufferSize)
	}
	d.inbound = make(chan inboundMessage, inboundQueueDepth)
	return nil
}

// enqueue stages one inbound message for the next Yield. It runs on
// the paho network goroutine and must not block: when the queue is
// full, or the payload cannot be staged in the receive buffer, the
// message is dropped with a warning.
func (d *channelData) enqueue(topic string, payload []byte, log Logger) {
	if uint32(len(payload)) > d.recvBufferSize {
		log.Warn("dropping inbound message larger than receive buffer",
			"topic", topic,
			"size", len(payload),
			"recv_buffer_size", d.recvBufferSize,
		)
		return
	}

	msg := inboundMessage{
		topic:   topic,
		payload: append([]byte(nil), payload...),
	}
	select {
	case d.inbound <- msg:
	default:
		log.Warn("dropping inbound message, queue full",
			"topic", topic,
			"queue_depth", inboundQueueDepth,
		)
	}
}

// deliver copies one staged message into the receive buffer and hands
// it to the registered callback. The callback sees the buffer itself;
// the slices are invalid after the callback returns.
func (d *channelData) deliver(msg inboundMessage) {
	if d.callback == nil {
		return
	}
	n := copy(d.recvBuffer, msg.payload)
	d.callback(d.recvBuffer[:n], []byte(msg.topic))
}

// release drops the buffers and the callback. The channel is done
// with this data after release; the inbound queue is left open because
// a paho handler may still be in flight during disconnect.
func (d *channelData) release() {
	d.sendBuffer = nil
	d.recvBuffer = nil
	d.callback = nil
}
