package main

import (
	"context"
	"testing"
	"time"

	"github.com/brandnewdays/open62541/internal/infrastructure/config"
	"github.com/brandnewdays/open62541/internal/transport"
)

func testDaemonConfig() *config.Config {
	return &config.Config{
		Connection: config.ConnectionConfig{
			Name:           "test-connection",
			BrokerURL:      "tcp://127.0.0.1:1883",
			ClientID:       "test-client",
			SendBufferSize: 2000,
			RecvBufferSize: 2000,
		},
	}
}

func clientIDProperty(t *testing.T, cfg *transport.ChannelConfig) string {
	t.Helper()
	for _, prop := range cfg.Properties {
		if prop.Key == "mqttClientId" {
			id, ok := prop.Value.(string)
			if !ok {
				t.Fatalf("mqttClientId value is %T, want string", prop.Value)
			}
			return id
		}
	}
	t.Fatal("mqttClientId property not found")
	return ""
}

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("PUBSUB_CONFIG", "/nonexistent/path/pubsubd.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("PUBSUB_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/pubsubd.yaml"
	t.Setenv("PUBSUB_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

func TestParseGuarantee(t *testing.T) {
	tests := []struct {
		input string
		want  transport.DeliveryGuarantee
	}{
		{"best_effort", transport.BestEffort},
		{"at_least_once", transport.AtLeastOnce},
		{"at_most_once", transport.AtMostOnce},
		{"", transport.BestEffort},
		{"bogus", transport.BestEffort},
	}

	for _, tt := range tests {
		if got := parseGuarantee(tt.input); got != tt.want {
			t.Errorf("parseGuarantee(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBuildChannelConfig(t *testing.T) {
	chCfg := buildChannelConfig(testDaemonConfig())

	if chCfg.Address.URL != "tcp://127.0.0.1:1883" {
		t.Errorf("Address.URL = %q, want tcp://127.0.0.1:1883", chCfg.Address.URL)
	}
	if got := clientIDProperty(t, chCfg); got != "test-client" {
		t.Errorf("mqttClientId = %q, want test-client", got)
	}

	keys := map[string]bool{}
	for _, prop := range chCfg.Properties {
		keys[prop.Key] = true
	}
	for _, want := range []string{"sendBufferSize", "recvBufferSize", "mqttClientId"} {
		if !keys[want] {
			t.Errorf("missing channel property %q", want)
		}
	}
}

func TestBuildChannelConfig_GeneratedClientID(t *testing.T) {
	cfg := testDaemonConfig()
	cfg.Connection.ClientID = ""

	first := clientIDProperty(t, buildChannelConfig(cfg))
	second := clientIDProperty(t, buildChannelConfig(cfg))

	if first == "" || second == "" {
		t.Fatal("generated client ID is empty")
	}
	if first == second {
		t.Error("generated client IDs collide across builds")
	}
}
