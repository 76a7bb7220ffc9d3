// Package mqtt provides MQTT client connectivity for tsbridge.
//
// This package manages:
//   - The single outbound session to the broker with auto-reconnect
//   - Topic-filter subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Devices publish telemetry to the broker; tsbridge subscribes to the
// configured topic filters and feeds every inbound message into the
// ingest pipeline. The bridge never commands devices - the only topic
// it publishes to is its own retained status topic.
//
//	Devices → MQTT Broker → tsbridge → time-series store
//
// # Delivery Semantics
//
// Sessions are clean: messages published while the bridge is offline
// are lost to it (at-most-once from the bridge's perspective, bounded
// by broker retention policy). On reconnect, every configured filter is
// re-subscribed before messages flow downstream. Reconnection uses a
// fixed 5-second backoff with no attempt limit; connectivity loss is
// recovered, never fatal.
//
// # Security Considerations
//
//   - TLS is required for production deployments (mqtt.tls = true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe("telemetry/#", 1,
//	    func(topic string, payload []byte) error {
//	        return coord.Handle(topic, payload)
//	    })
package mqtt
