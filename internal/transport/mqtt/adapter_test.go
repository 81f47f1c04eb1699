package mqtt

import (
	"testing"

	"github.com/brandnewdays/open62541/internal/transport"
)

// =============================================================================
// Option Building Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	data := &channelData{
		address:  transport.NetworkAddressURL{URL: "tcp://broker.local:1883"},
		clientID: "publisher-01",
	}

	opts, err := buildClientOptions(data)
	if err != nil {
		t.Fatalf("buildClientOptions() error = %v", err)
	}

	if len(opts.Servers) != 1 {
		t.Fatalf("servers = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q, want tcp://broker.local:1883", got)
	}
	if opts.ClientID != "publisher-01" {
		t.Errorf("ClientID = %q, want publisher-01", opts.ClientID)
	}
	if opts.AutoReconnect {
		t.Error("AutoReconnect enabled; recovery belongs to the engine")
	}
	if !opts.CleanSession {
		t.Error("CleanSession disabled, want enabled")
	}
}

func TestBuildClientOptionsTLSSchemes(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"tcp://h:1883", "tcp://h:1883"},
		{"mqtt://h:1883", "tcp://h:1883"},
		{"opc.mqtt://h:1883", "tcp://h:1883"},
		{"mqtts://h:8883", "ssl://h:8883"},
		{"ssl://h:8883", "ssl://h:8883"},
		{"tls://h:8883", "ssl://h:8883"},
	}

	for _, tt := range tests {
		data := &channelData{
			address:  transport.NetworkAddressURL{URL: tt.url},
			clientID: defaultClientID,
		}
		opts, err := buildClientOptions(data)
		if err != nil {
			t.Errorf("buildClientOptions(%s) error = %v", tt.url, err)
			continue
		}
		if got := opts.Servers[0].String(); got != tt.want {
			t.Errorf("buildClientOptions(%s) broker = %q, want %q", tt.url, got, tt.want)
		}
	}
}
