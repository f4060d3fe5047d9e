package audit

import (
	"context"
	"errors"
	"time"

	"github.com/nerrad567/devicekeeper/internal/infrastructure/mqtt"
)

// Sink receives audit events.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

// Record calls f.
func (f SinkFunc) Record(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Publisher is the part of mqtt.Client the MQTT sink needs.
type Publisher interface {
	PublishJSON(topic string, v any) error
}

// MQTTSink publishes each event as JSON on <prefix>/audit/<entity_type>/<action>.
type MQTTSink struct {
	pub    Publisher
	topics mqtt.Topics
}

// NewMQTTSink creates a sink publishing through pub.
func NewMQTTSink(pub Publisher, topics mqtt.Topics) *MQTTSink {
	return &MQTTSink{pub: pub, topics: topics}
}

// Record publishes ev.
func (s *MQTTSink) Record(_ context.Context, ev Event) error {
	return s.pub.PublishJSON(s.topics.Audit(ev.EntityType, ev.Action), ev)
}

// PointWriter is the part of influxdb.Client the Influx sink needs.
type PointWriter interface {
	WriteAuditEvent(entityType, action string, entityID, userID int64, at time.Time)
}

// InfluxSink writes each event as a point in the audit_events measurement.
type InfluxSink struct {
	w PointWriter
}

// NewInfluxSink creates a sink writing through w.
func NewInfluxSink(w PointWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

// Record queues ev on the batching write API. It never fails; write errors
// are reported asynchronously by the client.
func (s *InfluxSink) Record(_ context.Context, ev Event) error {
	s.w.WriteAuditEvent(ev.EntityType, ev.Action, ev.EntityID, ev.UserID, ev.At)
	return nil
}

// Multi delivers every event to each sink in turn. A failing sink does not
// stop delivery to the others; their errors are joined.
type Multi []Sink

// Record delivers ev to every sink.
func (m Multi) Record(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
