package mqtt

import "strings"

// DefaultTopicPrefix is used when the configuration leaves topic_prefix empty.
const DefaultTopicPrefix = "devicekeeper"

// Topics builds the topic names devicekeeper publishes to.
//
//	topics := mqtt.Topics{Prefix: "devicekeeper"}
//	topics.Audit("device", "created")
//	// Returns: "devicekeeper/audit/device/created"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.Trim(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// Status returns the retained service status topic. The broker publishes the
// last will here when the connection drops unexpectedly.
//
// Example: devicekeeper/status
func (t Topics) Status() string {
	return t.prefix() + "/status"
}

// Audit returns the topic for an audit event about an entity.
//
// Example: devicekeeper/audit/device/password_rotated
func (t Topics) Audit(entityType, action string) string {
	return t.prefix() + "/audit/" + entityType + "/" + action
}

// AllAudit returns a wildcard subscription matching every audit event.
//
// Example: devicekeeper/audit/#
func (t Topics) AllAudit() string {
	return t.prefix() + "/audit/#"
}
