package mqtt

import (
	"fmt"
	"net/url"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Broker operation constants.
const (
	// defaultConnectTimeout is the maximum time to wait for the broker
	// handshake.
	defaultConnectTimeout = 10 * time.Second

	// defaultOpTimeout is the maximum time to wait for publish,
	// subscribe and unsubscribe acknowledgements.
	defaultOpTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time allowed for pending
	// operations on disconnect, in milliseconds.
	defaultDisconnectQuiesce = 1000

	// defaultKeepAlive is the connection keepalive interval.
	defaultKeepAlive = 60 * time.Second
)

// brokerClient abstracts the MQTT client library behind the channel.
// The production implementation is pahoClient; tests substitute a
// fake. All methods operate on the channel's own data bundle, and a
// Disconnect must be safe on a partially-connected or already
// disconnected state.
type brokerClient interface {
	Connect(data *channelData) error
	Disconnect(data *channelData) error
	Subscribe(data *channelData, topic string, qos byte) error
	Unsubscribe(data *channelData, topic string) error
	Publish(data *channelData, topic string, payload []byte, qos byte) error
	Yield(data *channelData, timeout time.Duration) error
}

// pahoClient implements brokerClient over paho.mqtt.golang.
type pahoClient struct {
	log Logger
}

// Connect establishes the broker connection described by the channel
// data. Auto-reconnect is deliberately off: a lost connection faults
// the channel and recovery belongs to the engine.
func (p *pahoClient) Connect(data *channelData) error {
	opts, err := buildClientOptions(data)
	if err != nil {
		return err
	}

	data.conn = pahomqtt.NewClient(opts)
	token := data.conn.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: connect timeout after %v", ErrTimeout, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}

// Disconnect tears the connection down best-effort. It tolerates a
// connection that never completed.
func (p *pahoClient) Disconnect(data *channelData) error {
	if data.conn == nil {
		return nil
	}
	data.conn.Disconnect(defaultDisconnectQuiesce)
	return nil
}

// Subscribe registers a broker subscription whose messages are staged
// on the channel's inbound queue for the next Yield.
func (p *pahoClient) Subscribe(data *channelData, topic string, qos byte) error {
	if data.conn == nil || !data.conn.IsConnected() {
		return ErrNotConnected
	}

	token := data.conn.Subscribe(topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		data.enqueue(msg.Topic(), msg.Payload(), p.log)
	})
	if !token.WaitTimeout(defaultOpTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultOpTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

// Unsubscribe removes a broker subscription.
func (p *pahoClient) Unsubscribe(data *channelData, topic string) error {
	if data.conn == nil || !data.conn.IsConnected() {
		return ErrNotConnected
	}

	token := data.conn.Unsubscribe(topic)
	if !token.WaitTimeout(defaultOpTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrUnsubscribeFailed, defaultOpTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}
	return nil
}

// Publish sends one payload. When the channel has a send buffer the
// payload is staged through it, so a payload that does not fit fails
// here; waiting for the acknowledgement keeps the buffer safe to
// reuse on the next call.
func (p *pahoClient) Publish(data *channelData, topic string, payload []byte, qos byte) error {
	if data.conn == nil || !data.conn.IsConnected() {
		return ErrNotConnected
	}

	out := payload
	if data.sendBuffer != nil {
		if len(payload) > len(data.sendBuffer) {
			return fmt.Errorf("%w: payload size %d, buffer size %d",
				ErrPayloadTooLarge, len(payload), len(data.sendBuffer))
		}
		n := copy(data.sendBuffer, payload)
		out = data.sendBuffer[:n]
	}

	token := data.conn.Publish(topic, qos, false, out)
	if !token.WaitTimeout(defaultOpTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrTimeout, defaultOpTimeout)
	}
	return token.Error()
}

// Yield drains staged inbound messages for up to timeout, delivering
// each through the channel's callback on the calling goroutine. A
// non-positive timeout delivers whatever is already queued without
// blocking. A dropped connection is reported as a failure so the
// channel can fault.
func (p *pahoClient) Yield(data *channelData, timeout time.Duration) error {
	if data.conn == nil || !data.conn.IsConnected() {
		return ErrNotConnected
	}

	if timeout <= 0 {
		for {
			select {
			case msg := <-data.inbound:
				data.deliver(msg)
			default:
				return nil
			}
		}
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case msg := <-data.inbound:
			data.deliver(msg)
		case <-deadline.C:
			return nil
		}
	}
}

// buildClientOptions creates paho options from the channel data.
//
// The address URL picks the transport: mqtts, ssl and tls schemes
// connect over TLS, everything else over plain TCP. Sessions are
// clean and auto-reconnect is off.
func buildClientOptions(data *channelData) (*pahomqtt.ClientOptions, error) {
	endpoint, err := url.Parse(data.address.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing broker address %q: %w", data.address.URL, err)
	}

	scheme := "tcp"
	switch endpoint.Scheme {
	case "mqtts", "ssl", "tls":
		scheme = "ssl"
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s://%s", scheme, endpoint.Host))
	opts.SetClientID(data.clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	return opts, nil
}
