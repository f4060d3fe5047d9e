package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementAuditEvents is the measurement audit points are written to.
const MeasurementAuditEvents = "audit_events"

// WriteAuditEvent records one audit event. The write is batched and
// non-blocking; it is dropped silently when the client is closed.
//
// Example:
//
//	client.WriteAuditEvent("device", "created", 42, 7, time.Now())
func (c *Client) WriteAuditEvent(entityType, action string, entityID, userID int64, at time.Time) {
	if !c.writable() {
		return
	}
	c.writeAPI.WritePoint(auditPoint(entityType, action, entityID, userID, at))
}

// auditPoint tags by entity type and action so dashboards can group on them;
// the ids are fields because they are unbounded.
func auditPoint(entityType, action string, entityID, userID int64, at time.Time) *write.Point {
	if at.IsZero() {
		at = time.Now()
	}
	return write.NewPoint(
		MeasurementAuditEvents,
		map[string]string{
			"entity_type": entityType,
			"action":      action,
		},
		map[string]interface{}{
			"entity_id": entityID,
			"user_id":   userID,
		},
		at,
	)
}
