// Package mqtt implements the pub-sub transport channel contract over
// MQTT using paho.mqtt.golang.
//
// This package manages:
//   - Channel construction from a ChannelConfig (address, buffer
//     sizes, client ID)
//   - Translation of abstract delivery guarantees to MQTT QoS levels
//   - Topic subscription and publishing through a broker adapter
//   - Cooperative inbound delivery via Yield
//
// # Architecture
//
// The channel never calls the paho library directly. All broker I/O
// goes through the brokerClient adapter, so the MQTT library can be
// swapped and tests can run against a fake broker.
//
//	engine ↔ pubSubChannel ↔ brokerClient ↔ paho ↔ MQTT broker
//
// Inbound messages are queued by the paho network goroutine and
// delivered one at a time inside Yield, on the engine's goroutine,
// through the callback registered with Regist. The channel itself is
// single-threaded: all operations on one channel must come from one
// goroutine.
//
// # Fault model
//
// A failed publish or yield faults the channel permanently. The
// channel does not reconnect or retry; the engine observes the fault
// through rejected calls, closes the channel and opens a new one under
// its own backoff policy.
//
// # Usage
//
//	layer := mqtt.NewTransportLayer(logger)
//	ch, err := layer.CreateChannel(&transport.ChannelConfig{
//	    Address: transport.NetworkAddressURL{URL: "tcp://127.0.0.1:1883"},
//	    Properties: []transport.KeyValue{
//	        {Key: "mqttClientId", Value: "publisher-01"},
//	        {Key: "recvBufferSize", Value: uint32(4096)},
//	    },
//	})
package mqtt
