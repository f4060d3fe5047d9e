package audit

import (
	"context"
	"time"
)

// DefaultQueueSize bounds the number of events waiting for delivery.
const DefaultQueueSize = 256

// Logger is the subset of logging.Logger the dispatcher needs.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Dispatcher queues events and delivers them to a sink from one goroutine.
//
// Record never blocks. Run must be started for events to be delivered.
type Dispatcher struct {
	sink   Sink
	logger Logger
	ch     chan Event
	done   chan struct{}
	now    func() time.Time
}

// NewDispatcher creates a dispatcher for sink. A nil sink makes Record a
// no-op. A queueSize <= 0 selects DefaultQueueSize.
func NewDispatcher(sink Sink, logger Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Dispatcher{
		sink:   sink,
		logger: logger,
		ch:     make(chan Event, queueSize),
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

// Record enqueues ev. If the queue is full the event is dropped.
func (d *Dispatcher) Record(ev Event) {
	if d == nil || d.sink == nil {
		return
	}

	ev.stamp(d.now())

	select {
	case d.ch <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event",
			"action", ev.Action,
			"entity_type", ev.EntityType,
			"entity_id", ev.EntityID,
		)
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is
// left and returns. Done is closed when Run returns.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	if d.sink == nil {
		<-ctx.Done()
		return
	}

	for {
		select {
		case ev := <-d.ch:
			d.deliver(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-d.ch:
					d.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

// Done is closed once Run has drained the queue and returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// deliver uses a fresh context so events queued before shutdown still go out.
func (d *Dispatcher) deliver(ev Event) {
	if err := d.sink.Record(context.Background(), ev); err != nil {
		d.logger.Error("audit event delivery failed",
			"action", ev.Action,
			"entity_type", ev.EntityType,
			"entity_id", ev.EntityID,
			"error", err,
		)
	}
}
