// Package mqtt provides the MQTT publisher used to broadcast audit events.
//
// The client is optional: when mqtt.enabled is false Connect returns
// ErrDisabled and the service runs without it. When enabled it
//   - connects to the broker with optional TLS and credentials
//   - keeps a retained status message on <prefix>/status, with a last will
//     so an unexpected disconnect is visible to subscribers
//   - publishes JSON payloads on <prefix>/audit/<entity>/<action>
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().Audit("device", "created")
//	err = client.PublishJSON(topic, event)
package mqtt
