package status

import (
	"context"
	"net"
	"time"

	mqtt "github.com/soypat/natiu-mqtt"
)

// MQTTSink publishes status envelopes to a broker topic over a caller
// supplied net.Conn, standing in for the serial-Ethernet or WiFi link
// the original firmware brings up for its own telemetry channel
// (spec.md section 6 leaves the transport unspecified: "out of scope:
// the on-wire syntax used to query/set variables"). Since it only
// needs a net.Conn, it works unmodified over TCP, TLS, or any other
// stream the host provides — no link driver of its own.
type MQTTSink struct {
	client *mqtt.Client
	topic  []byte
	qos    mqtt.QoS
}

// MQTTSinkConfig configures the broker connection and topic an
// MQTTSink publishes envelopes to.
type MQTTSinkConfig struct {
	ClientID string
	Topic    string
	QoS      mqtt.QoS
	RxBuffer int
}

// DialMQTTSink connects to a broker over conn and returns a Sink
// publishing every envelope it receives as a retained-free message on
// cfg.Topic.
func DialMQTTSink(ctx context.Context, conn net.Conn, cfg MQTTSinkConfig) (*MQTTSink, error) {
	rxBuf := cfg.RxBuffer
	if rxBuf <= 0 {
		rxBuf = 1024
	}
	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, rxBuf)},
	})
	connectFlags := mqtt.VariablesConnect{
		ClientID:     []byte(cfg.ClientID),
		CleanSession: true,
		KeepAlive:    60,
	}
	if err := client.Connect(ctx, conn, &connectFlags); err != nil {
		return nil, err
	}
	return &MQTTSink{client: client, topic: []byte(cfg.Topic), qos: cfg.QoS}, nil
}

// Status implements Sink by publishing the envelope's rendered text as
// the message payload. Publish errors are swallowed: a lost telemetry
// link must never back-pressure the motion core raising the status.
func (m *MQTTSink) Status(e Envelope) {
	if m == nil || m.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	header := mqtt.Header{QoS: m.qos}
	varPub := mqtt.VariablesPublish{TopicName: m.topic}
	_ = m.client.PublishPayload(ctx, header, varPub, []byte(e.Format()))
}

// Close disconnects from the broker.
func (m *MQTTSink) Close() error {
	if m == nil || m.client == nil {
		return nil
	}
	return m.client.Disconnect(context.Background())
}
