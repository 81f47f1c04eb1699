// pubsubd exchanges messages with an MQTT broker through the pub-sub
// transport channel abstraction.
//
// It opens one channel via the transport registry, registers a
// subscription, publishes a heartbeat message on a ticker, and pumps
// inbound delivery with Yield. When the channel faults it is closed
// and replaced under exponential backoff; the channel itself never
// retries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/brandnewdays/open62541/internal/infrastructure/config"
	"github.com/brandnewdays/open62541/internal/infrastructure/logging"
	"github.com/brandnewdays/open62541/internal/transport"
	"github.com/brandnewdays/open62541/internal/transport/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
)

// Default configuration file path
const defaultConfigPath = "configs/pubsubd.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting pubsubd", "version", version, "commit", commit)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	registry := transport.NewRegistry()
	if err := registry.Register(mqtt.NewTransportLayer(log.With("component", "mqtt"))); err != nil {
		return fmt.Errorf("registering MQTT transport: %w", err)
	}
	log.Info("transports registered", "profiles", registry.Profiles())

	channelConfig := buildChannelConfig(cfg)

	// Channel replacement loop. A faulted channel is closed and a new
	// one opened under exponential backoff; the channel never repairs
	// itself.
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.InitialInterval = cfg.ReopenInitialDelay()
	backoffCfg.MaxInterval = cfg.ReopenMaxDelay()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		default:
		}

		channel, err := registry.Create(mqtt.ProfileURI, channelConfig)
		if err != nil {
			sleep := backoffCfg.NextBackOff()
			if sleep == backoff.Stop {
				sleep = cfg.ReopenMaxDelay()
			}
			log.Warn("channel open failed, retrying",
				"error", err,
				"retry_in", sleep,
			)
			select {
			case <-ctx.Done():
				log.Info("shutting down")
				return nil
			case <-time.After(sleep):
				continue
			}
		}
		backoffCfg.Reset()

		err = serve(ctx, channel, cfg, log)
		if closeErr := channel.Close(); closeErr != nil {
			log.Error("error closing channel", "error", closeErr)
		}
		if err != nil {
			log.Warn("channel faulted, replacing", "error", err)
		}
	}
}

// serve drives one channel until it faults or the context is
// cancelled. A nil return means clean shutdown; an error means the
// channel needs replacing.
func serve(ctx context.Context, channel transport.Channel, cfg *config.Config, log *logging.Logger) error {
	if cfg.Subscribe.Topic != "" {
		settings := &transport.TransportSettings{
			QueueName:                  cfg.Subscribe.Topic,
			RequestedDeliveryGuarantee: parseGuarantee(cfg.Subscribe.DeliveryGuarantee),
		}
		err := channel.Regist(settings, func(payload, topic []byte) {
			log.Info("message received",
				"topic", string(topic),
				"size", len(payload),
			)
		})
		if err != nil {
			return fmt.Errorf("registering subscription: %w", err)
		}
	}

	publishSettings := &transport.TransportSettings{
		QueueName:                  cfg.Publish.Topic,
		RequestedDeliveryGuarantee: parseGuarantee(cfg.Publish.DeliveryGuarantee),
	}

	ticker := time.NewTicker(cfg.PublishInterval())
	defer ticker.Stop()

	sequence := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if cfg.Publish.Topic == "" {
				continue
			}
			sequence++
			payload := fmt.Sprintf(`{"seq":%d,"timestamp":%q}`,
				sequence, now.UTC().Format(time.RFC3339))
			if err := channel.Send(publishSettings, []byte(payload)); err != nil {
				return fmt.Errorf("publishing message %d: %w", sequence, err)
			}
		default:
		}

		if err := channel.Yield(cfg.YieldTimeout()); err != nil {
			return fmt.Errorf("pumping channel: %w", err)
		}
	}
}

// buildChannelConfig translates the daemon config into a transport
// channel config. An absent client ID gets a random suffix so
// parallel daemons do not evict each other from the broker.
func buildChannelConfig(cfg *config.Config) *transport.ChannelConfig {
	clientID := cfg.Connection.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("pubsubd-%s", uuid.NewString()[:8])
	}

	return &transport.ChannelConfig{
		Name: cfg.Connection.Name,
		Address: transport.NetworkAddressURL{
			URL: cfg.Connection.BrokerURL,
		},
		Properties: []transport.KeyValue{
			{Key: "sendBufferSize", Value: cfg.Connection.SendBufferSize},
			{Key: "recvBufferSize", Value: cfg.Connection.RecvBufferSize},
			{Key: "mqttClientId", Value: clientID},
		},
	}
}

// parseGuarantee maps a config string to a delivery guarantee. Config
// validation has already rejected unknown values; default to best
// effort for safety.
func parseGuarantee(value string) transport.DeliveryGuarantee {
	switch value {
	case "at_least_once":
		return transport.AtLeastOnce
	case "at_most_once":
		return transport.AtMostOnce
	default:
		return transport.BestEffort
	}
}

// getConfigPath returns the config file path, preferring the
// PUBSUB_CONFIG environment variable over the default.
func getConfigPath() string {
	if path := os.Getenv("PUBSUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
