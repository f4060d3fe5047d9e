// Package audit records security-relevant account and device events and
// fans them out to the configured sinks (MQTT, InfluxDB).
//
// Delivery is best-effort. Events are queued on a bounded channel and
// written by a single goroutine; when the queue is full the event is dropped
// and a warning is logged, so a slow broker never holds up a request.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entity types.
const (
	EntityUser   = "user"
	EntityDevice = "device"
)

// Actions.
const (
	ActionRegistered      = "registered"
	ActionLogin           = "login"
	ActionCreated         = "created"
	ActionUpdated         = "updated"
	ActionPasswordRotated = "password_rotated"
	ActionDeleted         = "deleted"
)

// SourceAPI marks events raised by the HTTP API.
const SourceAPI = "api"

// Event is a single audit trail entry.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	UserID     int64     `json:"user_id"`
	Source     string    `json:"source"`
	At         time.Time `json:"at"`
}

// stamp fills in the ID, source and timestamp when they are unset.
func (e *Event) stamp(now time.Time) {
	if e.ID == "" {
		e.ID = "aud-" + uuid.NewString()[:8]
	}
	if e.Source == "" {
		e.Source = SourceAPI
	}
	if e.At.IsZero() {
		e.At = now.UTC()
	}
}
