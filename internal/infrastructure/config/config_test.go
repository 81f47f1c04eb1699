package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "pubsubd.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
connection:
  name: "test-connection"
  broker_url: "tcp://broker.local:1883"
  client_id: "test-client"
  send_buffer_size: 4096
publish:
  topic: "plant/telemetry"
  delivery_guarantee: "at_most_once"
  interval: 250
subscribe:
  topic: "plant/commands"
  delivery_guarantee: "best_effort"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Connection.BrokerURL != "tcp://broker.local:1883" {
		t.Errorf("Connection.BrokerURL = %q, want tcp://broker.local:1883", cfg.Connection.BrokerURL)
	}
	if cfg.Connection.SendBufferSize != 4096 {
		t.Errorf("Connection.SendBufferSize = %d, want 4096", cfg.Connection.SendBufferSize)
	}
	if cfg.Publish.DeliveryGuarantee != "at_most_once" {
		t.Errorf("Publish.DeliveryGuarantee = %q, want at_most_once", cfg.Publish.DeliveryGuarantee)
	}
	if cfg.PublishInterval() != 250*time.Millisecond {
		t.Errorf("PublishInterval() = %v, want 250ms", cfg.PublishInterval())
	}

	// Untouched sections keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
	if cfg.Engine.YieldTimeout != 100 {
		t.Errorf("Engine.YieldTimeout = %d, want default 100", cfg.Engine.YieldTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/pubsubd.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PUBSUB_BROKER_URL", "mqtts://secure.local:8883")
	t.Setenv("PUBSUB_CLIENT_ID", "env-client")
	t.Setenv("PUBSUB_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, `
connection:
  broker_url: "tcp://file.local:1883"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Connection.BrokerURL != "mqtts://secure.local:8883" {
		t.Errorf("Connection.BrokerURL = %q, env must override file", cfg.Connection.BrokerURL)
	}
	if cfg.Connection.ClientID != "env-client" {
		t.Errorf("Connection.ClientID = %q, want env-client", cfg.Connection.ClientID)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing broker url",
			mutate:  func(c *Config) { c.Connection.BrokerURL = "" },
			wantErr: true,
		},
		{
			name:    "bad publish guarantee",
			mutate:  func(c *Config) { c.Publish.DeliveryGuarantee = "exactly_twice" },
			wantErr: true,
		},
		{
			name: "guarantee ignored when topic disabled",
			mutate: func(c *Config) {
				c.Subscribe.Topic = ""
				c.Subscribe.DeliveryGuarantee = "bogus"
			},
			wantErr: false,
		},
		{
			name:    "zero yield timeout",
			mutate:  func(c *Config) { c.Engine.YieldTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "reopen max below initial",
			mutate:  func(c *Config) { c.Engine.Reopen.MaxDelay = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := defaultConfig()

	if cfg.YieldTimeout() != 100*time.Millisecond {
		t.Errorf("YieldTimeout() = %v, want 100ms", cfg.YieldTimeout())
	}
	if cfg.ReopenInitialDelay() != time.Second {
		t.Errorf("ReopenInitialDelay() = %v, want 1s", cfg.ReopenInitialDelay())
	}
	if cfg.ReopenMaxDelay() != 30*time.Second {
		t.Errorf("ReopenMaxDelay() = %v, want 30s", cfg.ReopenMaxDelay())
	}
}
