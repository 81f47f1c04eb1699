package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the pub-sub daemon.
// All configuration is loaded from YAML and can be overridden by
// environment variables.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Publish    PublishConfig    `yaml:"publish"`
	Subscribe  SubscribeConfig  `yaml:"subscribe"`
	Engine     EngineConfig     `yaml:"engine"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConnectionConfig describes the broker connection one channel is
// opened against.
type ConnectionConfig struct {
	// Name identifies the connection in logs.
	Name string `yaml:"name"`

	// BrokerURL is the broker endpoint, e.g. "tcp://127.0.0.1:1883"
	// or "mqtts://broker:8883".
	BrokerURL string `yaml:"broker_url"`

	// ClientID is the MQTT client identifier. Empty means a random
	// one is generated at startup.
	ClientID string `yaml:"client_id"`

	// SendBufferSize and RecvBufferSize are the channel buffer sizes
	// in bytes. Zero disables the respective buffer.
	SendBufferSize uint32 `yaml:"send_buffer_size"`
	RecvBufferSize uint32 `yaml:"recv_buffer_size"`
}

// PublishConfig describes the demo publisher.
type PublishConfig struct {
	// Topic messages are published to. Empty disables publishing.
	Topic string `yaml:"topic"`

	// DeliveryGuarantee is "best_effort", "at_least_once" or
	// "at_most_once".
	DeliveryGuarantee string `yaml:"delivery_guarantee"`

	// Interval between published messages, in milliseconds.
	Interval int `yaml:"interval"`
}

// SubscribeConfig describes the demo subscription.
type SubscribeConfig struct {
	// Topic to subscribe to. Empty disables the subscription.
	Topic string `yaml:"topic"`

	// DeliveryGuarantee is "best_effort", "at_least_once" or
	// "at_most_once".
	DeliveryGuarantee string `yaml:"delivery_guarantee"`
}

// EngineConfig contains the run-loop settings.
type EngineConfig struct {
	// YieldTimeout bounds each I/O pump, in milliseconds.
	YieldTimeout int `yaml:"yield_timeout"`

	// Reopen controls the backoff used when a faulted channel is
	// replaced.
	Reopen ReopenConfig `yaml:"reopen"`
}

// ReopenConfig contains channel reopen backoff settings, in seconds.
type ReopenConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PUBSUB_SECTION_KEY,
// e.g. PUBSUB_BROKER_URL, PUBSUB_LOG_LEVEL.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults for a local
// broker.
func defaultConfig() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Name:           "pubsub-mqtt",
			BrokerURL:      "tcp://127.0.0.1:1883",
			SendBufferSize: 2000,
			RecvBufferSize: 2000,
		},
		Publish: PublishConfig{
			Topic:             "demo/messages",
			DeliveryGuarantee: "at_least_once",
			Interval:          5000,
		},
		Subscribe: SubscribeConfig{
			Topic:             "demo/messages",
			DeliveryGuarantee: "at_least_once",
		},
		Engine: EngineConfig{
			YieldTimeout: 100,
			Reopen: ReopenConfig{
				InitialDelay: 1,
				MaxDelay:     30,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PUBSUB_BROKER_URL"); v != "" {
		cfg.Connection.BrokerURL = v
	}
	if v := os.Getenv("PUBSUB_CLIENT_ID"); v != "" {
		cfg.Connection.ClientID = v
	}
	if v := os.Getenv("PUBSUB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// validGuarantees are the accepted delivery_guarantee values.
var validGuarantees = map[string]bool{
	"best_effort":   true,
	"at_least_once": true,
	"at_most_once":  true,
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Connection.BrokerURL == "" {
		errs = append(errs, "connection.broker_url is required")
	}
	if c.Publish.Topic != "" && !validGuarantees[c.Publish.DeliveryGuarantee] {
		errs = append(errs, "publish.delivery_guarantee must be best_effort, at_least_once or at_most_once")
	}
	if c.Subscribe.Topic != "" && !validGuarantees[c.Subscribe.DeliveryGuarantee] {
		errs = append(errs, "subscribe.delivery_guarantee must be best_effort, at_least_once or at_most_once")
	}
	if c.Publish.Interval < 1 {
		errs = append(errs, "publish.interval must be at least 1 millisecond")
	}
	if c.Engine.YieldTimeout < 1 {
		errs = append(errs, "engine.yield_timeout must be at least 1 millisecond")
	}
	if c.Engine.Reopen.InitialDelay < 1 || c.Engine.Reopen.MaxDelay < c.Engine.Reopen.InitialDelay {
		errs = append(errs, "engine.reopen delays must satisfy 1 <= initial_delay <= max_delay")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// PublishInterval returns the publish interval as a Duration.
func (c *Config) PublishInterval() time.Duration {
	return time.Duration(c.Publish.Interval) * time.Millisecond
}

// YieldTimeout returns the per-pump yield timeout as a Duration.
func (c *Config) YieldTimeout() time.Duration {
	return time.Duration(c.Engine.YieldTimeout) * time.Millisecond
}

// ReopenInitialDelay returns the first reopen backoff as a Duration.
func (c *Config) ReopenInitialDelay() time.Duration {
	return time.Duration(c.Engine.Reopen.InitialDelay) * time.Second
}

// ReopenMaxDelay returns the reopen backoff ceiling as a Duration.
func (c *Config) ReopenMaxDelay() time.Duration {
	return time.Duration(c.Engine.Reopen.MaxDelay) * time.Second
}
