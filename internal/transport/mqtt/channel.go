package mqtt

import (
	"fmt"
	"net/url"
	"time"

	"github.com/brandnewdays/open62541/internal/transport"
)

// ProfileURI identifies this transport to the engine's registry.
const ProfileURI = "http://opcfoundation.org/UA-Profile/Transport/pubsub-mqtt"

// Logger interface for channel and adapter logging.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopLogger discards everything. Used when no logger is supplied.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// pubSubChannel is the MQTT transport channel. One channel owns
// exactly one channelData; all methods must be called from a single
// goroutine.
type pubSubChannel struct {
	state  transport.State
	data   *channelData
	broker brokerClient
	log    Logger
}

// NewTransportLayer returns the MQTT transport layer for registration
// with a transport.Registry. A nil logger silences the transport.
func NewTransportLayer(log Logger) transport.TransportLayer {
	if log == nil {
		log = nopLogger{}
	}
	broker := &pahoClient{log: log}
	return transport.TransportLayer{
		ProfileURI: ProfileURI,
		CreateChannel: func(cfg *transport.ChannelConfig) (transport.Channel, error) {
			ch, err := openChannel(cfg, broker, log)
			if err != nil {
				return nil, err
			}
			return ch, nil
		},
	}
}

// openChannel builds and connects one channel. The address is
// validated before anything is built; every later failure unwinds
// completely, so a failed open leaves nothing for the caller to clean
// up.
func openChannel(cfg *transport.ChannelConfig, broker brokerClient, log Logger) (*pubSubChannel, error) {
	if err := validateAddress(cfg); err != nil {
		log.Error("channel creation failed, invalid address")
		return nil, err
	}

	data := newChannelData(cfg, log)
	if err := data.allocateBuffers(); err != nil {
		log.Error("channel creation failed, out of memory",
			"send_buffer_size", data.sendBufferSize,
			"recv_buffer_size", data.recvBufferSize,
		)
		return nil, err
	}

	ch := &pubSubChannel{
		state:  transport.StateFresh,
		data:   data,
		broker: broker,
		log:    log,
	}

	if err := broker.Connect(data); err != nil {
		// The handshake may have got partway; disconnect is
		// best-effort cleanup.
		_ = broker.Disconnect(data)
		data.release()
		return nil, fmt.Errorf("%w: %w", transport.ErrConnectFailed, err)
	}

	ch.state = transport.StateReady
	log.Info("connection established",
		"connection", cfg.Name,
		"address", data.address.URL,
		"client_id", data.clientID,
	)
	return ch, nil
}

// validateAddress checks that the config carries a broker endpoint of
// the expected URL shape. Anything else is a configuration error and
// no channel is produced.
func validateAddress(cfg *transport.ChannelConfig) error {
	if cfg == nil || cfg.Address.URL == "" {
		return transport.ErrInvalidAddress
	}
	endpoint, err := url.Parse(cfg.Address.URL)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return fmt.Errorf("%w: %q", transport.ErrInvalidAddress, cfg.Address.URL)
	}
	return nil
}

// Regist stores the receive callback and subscribes to the queue
// named by the settings.
//
// The callback is stored before the settings are inspected: the
// callback slot and the subscription are independent concerns, and a
// later Regist with valid settings must not be required for delivery
// of messages from an earlier subscription.
func (c *pubSubChannel) Regist(settings *transport.TransportSettings, cb transport.MessageCallback) error {
	if c.state != transport.StateReady {
		c.log.Warn("register failed, channel not ready", "state", c.state.String())
		return transport.ErrConnectionClosed
	}

	c.data.callback = cb

	if settings == nil || settings.QueueName == "" {
		return transport.ErrMissingArgument
	}

	qos := mqttQoS(settings.RequestedDeliveryGuarantee, 0)
	c.log.Info("register", "topic", settings.QueueName, "qos", qos)
	return c.broker.Subscribe(c.data, settings.QueueName, qos)
}

// Unregist removes the subscription named by the settings.
func (c *pubSubChannel) Unregist(settings *transport.TransportSettings) error {
	if c.state != transport.StateReady {
		c.log.Warn("unregister failed, channel not ready", "state", c.state.String())
		return transport.ErrConnectionClosed
	}

	if settings == nil || settings.QueueName == "" {
		return transport.ErrMissingArgument
	}

	c.log.Info("unregister", "topic", settings.QueueName)
	return c.broker.Unsubscribe(c.data, settings.QueueName)
}

// Send publishes payload to the queue named by the settings.
//
// Missing settings make Send a logged no-op, not an error. This is
// deliberately asymmetric with Regist and Unregist: a writer group
// without broker transport settings simply has nothing for this
// channel to do.
//
// A broker-side publish failure faults the channel permanently; only
// Close and a fresh open recover it.
func (c *pubSubChannel) Send(settings *transport.TransportSettings, payload []byte) error {
	if c.state != transport.StateReady {
		c.log.Warn("sending failed, channel not ready", "state", c.state.String())
		return transport.ErrConnectionClosed
	}

	if settings == nil || settings.QueueName == "" {
		c.log.Info("transport settings not found, nothing sent")
		return nil
	}

	qos := mqttQoS(settings.RequestedDeliveryGuarantee, 0)
	if err := c.broker.Publish(c.data, settings.QueueName, payload, qos); err != nil {
		c.state = transport.StateError
		c.log.Error("publish failed", "topic", settings.QueueName, "error", err)
		return fmt.Errorf("%w: %w", transport.ErrPublishFailed, err)
	}

	c.log.Info("publish", "topic", settings.QueueName, "qos", qos, "size", len(payload))
	return nil
}

// Yield pumps broker I/O for up to timeout, delivering staged inbound
// messages through the registered callback on the calling goroutine.
// The callback must not call Close on this channel.
func (c *pubSubChannel) Yield(timeout time.Duration) error {
	if c == nil {
		return transport.ErrInvalidArgument
	}

	switch c.state {
	case transport.StateReady:
	case transport.StateError:
		return transport.ErrInternal
	default:
		return transport.ErrConnectionClosed
	}

	if err := c.broker.Yield(c.data, timeout); err != nil {
		c.state = transport.StateError
		return err
	}
	return nil
}

// Close disconnects best-effort and releases the channel's data. It
// is idempotent and always succeeds: the caller cannot act on a
// failed teardown, so disconnect problems are swallowed. It also
// tolerates a channel whose connection never fully completed.
func (c *pubSubChannel) Close() error {
	if c.state == transport.StateClosed {
		return nil
	}

	c.log.Info("closing channel", "address", c.data.address.URL)
	_ = c.broker.Disconnect(c.data)
	c.data.release()
	c.state = transport.StateClosed
	return nil
}

// State reports the current lifecycle state.
func (c *pubSubChannel) State() transport.State {
	return c.state
}
