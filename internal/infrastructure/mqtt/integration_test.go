//go:build integration

package mqtt

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/nerrad567/tsbridge/internal/infrastructure/config"
)

// Integration tests for MQTT session behaviour under load and across
// concurrent subscribers. These tests require a running MQTT broker at
// 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...
//
// Note: Some tests may be flaky in CI due to timing dependencies.
// Consider running with: go test -tags=integration -count=1 -v ...

func integrationConfig(clientID string) config.MQTTConfig {
	return config.MQTTConfig{
		Host:     "127.0.0.1",
		Port:     1883,
		ClientID: clientID,
		QoS:      1,
		Topics:   []string{"telemetry/#"},
		TLS:      false,
	}
}

// mustConnect fails the test immediately when the broker is absent.
// Connect itself tolerates an unreachable broker and keeps retrying,
// which is not useful inside a broker-dependent test.
func mustConnect(t *testing.T, clientID string) *Client {
	t.Helper()
	client, err := Connect(integrationConfig(clientID))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !client.IsConnected() {
		client.Close()
		t.Fatal("broker not reachable at 127.0.0.1:1883")
	}
	return client
}

// TestIntegration_MessageBurst verifies no messages are dropped when a
// device publishes a burst faster than a handler can drain it.
func TestIntegration_MessageBurst(t *testing.T) {
	client := mustConnect(t, "tsbridge-int-burst")
	defer client.Close()

	const burstSize = 200
	var received atomic.Int64

	topic := "telemetry/int-burst/value"
	err := client.Subscribe(topic, 1, func(string, []byte) error {
		received.Add(1)
		time.Sleep(time.Millisecond) // slow consumer
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	for i := 0; i < burstSize; i++ {
		if err := client.Publish(topic, []byte(`{"value":1}`), 1, false); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	deadline := time.After(30 * time.Second)
	for received.Load() < burstSize {
		select {
		case <-deadline:
			t.Fatalf("received %d messages, want %d", received.Load(), burstSize)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// TestIntegration_MessageOrdering verifies that messages on a single
// topic arrive in publish order. The pipeline relies on ordered
// delivery for backpressure to be meaningful.
func TestIntegration_MessageOrdering(t *testing.T) {
	client := mustConnect(t, "tsbridge-int-order")
	defer client.Close()

	const count = 50
	results := make(chan string, count)

	topic := "telemetry/int-order/value"
	err := client.Subscribe(topic, 1, func(_ string, payload []byte) error {
		results <- string(payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	want := make([]string, count)
	for i := 0; i < count; i++ {
		want[i] = string(rune('a' + i%26))
		if err := client.Publish(topic, []byte(want[i]), 1, false); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	for i := 0; i < count; i++ {
		select {
		case got := <-results:
			if got != want[i] {
				t.Fatalf("message %d = %q, want %q", i, got, want[i])
			}
		case <-time.After(10 * time.Second):
			t.Fatalf("timeout waiting for message %d", i)
		}
	}
}

// TestIntegration_StatusTopic verifies the retained online status is
// published on connect and visible to a late subscriber.
func TestIntegration_StatusTopic(t *testing.T) {
	bridge := mustConnect(t, "tsbridge-int-status")
	defer bridge.Close()

	// A second client subscribing after the bridge connected should
	// still see the retained status message.
	time.Sleep(500 * time.Millisecond)

	observer := mustConnect(t, "tsbridge-int-status-obs")
	defer observer.Close()

	status := make(chan []byte, 1)
	err := observer.Subscribe(Topics{}.SystemStatus(), 1, func(_ string, payload []byte) error {
		select {
		case status <- payload:
		default:
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case payload := <-status:
		if len(payload) == 0 {
			t.Error("retained status payload is empty")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for retained status")
	}
}

// TestIntegration_ReconnectCallbacks verifies disconnect and reconnect
// callbacks fire when the session drops. Requires the broker to accept
// a duplicate client ID takeover, which Mosquitto does.
func TestIntegration_ReconnectCallbacks(t *testing.T) {
	client := mustConnect(t, "tsbridge-int-reconnect")
	defer client.Close()

	var disconnects, reconnects atomic.Int64
	client.SetOnDisconnect(func(error) { disconnects.Add(1) })
	client.SetOnConnect(func() { reconnects.Add(1) })

	// Connecting a second client with the same ID forces the broker to
	// drop the first session, triggering the reconnect path.
	usurper := mustConnect(t, "tsbridge-int-reconnect")
	usurper.Close()

	deadline := time.After(30 * time.Second)
	for disconnects.Load() == 0 || reconnects.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("disconnects = %d, reconnects = %d, want both > 0",
				disconnects.Load(), reconnects.Load())
		case <-time.After(100 * time.Millisecond):
		}
	}

	if !client.IsConnected() {
		t.Error("IsConnected() = false after reconnect")
	}
}

// TestIntegration_SubscriptionsSurviveReconnect verifies tracked
// subscriptions are restored after the session drops.
func TestIntegration_SubscriptionsSurviveReconnect(t *testing.T) {
	client := mustConnect(t, "tsbridge-int-resub")
	defer client.Close()

	var received atomic.Int64
	topic := "telemetry/int-resub/value"
	if err := client.Subscribe(topic, 1, func(string, []byte) error {
		received.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	reconnected := make(chan struct{}, 1)
	client.SetOnConnect(func() {
		select {
		case reconnected <- struct{}{}:
		default:
		}
	})

	// Kick the session over.
	usurper := mustConnect(t, "tsbridge-int-resub")
	usurper.Close()

	select {
	case <-reconnected:
	case <-time.After(30 * time.Second):
		t.Fatal("timeout waiting for reconnect")
	}

	// Publish from a fresh client; the restored subscription should
	// deliver it.
	publisher := mustConnect(t, "tsbridge-int-resub-pub")
	defer publisher.Close()

	if err := publisher.Publish(topic, []byte(`{"value":1}`), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.After(10 * time.Second)
	for received.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("message not delivered after subscription restoration")
		case <-time.After(100 * time.Millisecond):
		}
	}
}
