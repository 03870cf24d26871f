package test

import (
	"context"
	"testing"
	"time"

	"github.com/futurehomeno/fimpgo"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupMQTTContainer creates a new MQTT container and returns the broker URI.
func SetupMQTTContainer(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping MQTT broker test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "eclipse-mosquitto:1.6.8", //nolint:misspell
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForLog("Opening ipv4 listen socket on port 1883"),
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	addr, err := container.Endpoint(ctx, "tcp")
	require.NoError(t, err)

	return addr
}

// NewMQTTClient connects a FIMP transport to the broker and subscribes it to the topic.
func NewMQTTClient(t *testing.T, uri, clientID, topic string) (*fimpgo.MqttTransport, fimpgo.MessageCh) {
	t.Helper()

	mqtt := fimpgo.NewMqttTransport(uri, clientID, "", "", true, 1, 1)
	require.NoError(t, mqtt.Start())

	t.Cleanup(mqtt.Stop)

	messages := make(fimpgo.MessageCh, 10)
	mqtt.RegisterChannel(clientID, messages)

	if topic != "" {
		require.NoError(t, mqtt.Subscribe(topic))
	}

	return mqtt, messages
}

// WaitForMessage returns the next message of the type or fails the test after the timeout.
func WaitForMessage(t *testing.T, messages fimpgo.MessageCh, msgType string, timeout time.Duration) *fimpgo.Message {
	t.Helper()

	deadline := time.After(timeout)

	for {
		select {
		case msg := <-messages:
			if msg.Payload != nil && msg.Payload.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("message %s was not received within %s", msgType, timeout)

			return nil
		}
	}
}
