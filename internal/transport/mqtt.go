package transport

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/model"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// MQTT publishes measurement payloads to the collection broker. The
// upload path is appended to the topic base, so path "/r/1700000000"
// lands on "aquanode/r/1700000000".
type MQTT struct {
	client    mqtt.Client
	topicBase string
}

func NewMQTT(brokerURL, clientID, topicBase string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to broker %s", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to broker %s: %w", brokerURL, err)
	}

	log.Info().Str("broker", brokerURL).Str("client_id", clientID).Msg("Connected to upload broker")
	return &MQTT{client: client, topicBase: topicBase}, nil
}

func (m *MQTT) Send(path string, payload model.UploadPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	topic := m.topicBase + path
	token := m.client.Publish(topic, 1, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s failed: %w", topic, err)
	}
	return nil
}

func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
