package mqtt

import (
	"testing"

	"github.com/brandnewdays/open62541/internal/transport"
)

func TestMQTTQoSMapping(t *testing.T) {
	tests := []struct {
		name      string
		guarantee transport.DeliveryGuarantee
		want      byte
	}{
		{"best effort", transport.BestEffort, 0},
		{"at least once", transport.AtLeastOnce, 1},
		{"at most once", transport.AtMostOnce, 2},
	}

	for _, tt := range tests {
		if got := mqttQoS(tt.guarantee, 0); got != tt.want {
			t.Errorf("mqttQoS(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMQTTQoSUnknownGuaranteeKeepsFallback(t *testing.T) {
	unknown := transport.DeliveryGuarantee(200)

	for _, fallback := range []byte{0, 1, 2} {
		if got := mqttQoS(unknown, fallback); got != fallback {
			t.Errorf("mqttQoS(unknown, %d) = %d, want fallback unchanged", fallback, got)
		}
	}
}
