// Package influxdb provides the optional InfluxDB audit sink.
//
// It wraps the official influxdb-client-go v2 library. Audit events are
// written to the audit_events measurement with entity_type and action tags
// and entity_id and user_id fields, batched by the non-blocking write API.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without it
//	}
//	defer client.Close()
//
//	client.WriteAuditEvent("device", "deleted", 42, 7, time.Now())
package influxdb
