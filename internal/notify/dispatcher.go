package notify

import (
	"context"
	"sync"
	"time"

	"github.com/blclinic/appointments/pkg/logging"
)

// Dispatcher hands confirmations to sinks on a background worker so the
// payment-confirmation response never waits on downstream availability.
// A full buffer drops the notification (logged) rather than blocking.
type Dispatcher struct {
	sinks   []Sink
	jobs    chan Confirmation
	timeout time.Duration
	logger  *logging.Logger
	observe func(sink string, err error)

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts the delivery worker. Nil sinks are ignored.
func NewDispatcher(sinks []Sink, timeout time.Duration, buffer int, logger *logging.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = logging.Default()
	}

	var active []Sink
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}

	d := &Dispatcher{
		sinks:   active,
		jobs:    make(chan Confirmation, buffer),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// WithObserver registers a callback invoked after each delivery attempt,
// used to feed metrics.
func (d *Dispatcher) WithObserver(fn func(sink string, err error)) *Dispatcher {
	d.observe = fn
	return d
}

// Dispatch queues a confirmation without blocking the caller.
func (d *Dispatcher) Dispatch(c Confirmation) {
	if d == nil || len(d.sinks) == 0 {
		return
	}
	select {
	case d.jobs <- c:
	default:
		d.logger.Warn("notification buffer full, dropping confirmation", "appointment_id", c.AppointmentID)
	}
}

// Close stops accepting work and waits for queued deliveries to finish.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		close(d.jobs)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for c := range d.jobs {
		d.deliver(c)
	}
}

func (d *Dispatcher) deliver(c Confirmation) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := sink.Deliver(ctx, c)
		cancel()

		if err != nil {
			d.logger.Error("notification delivery failed",
				"sink", sink.Name(),
				"appointment_id", c.AppointmentID,
				"error", err,
			)
		}
		if d.observe != nil {
			d.observe(sink.Name(), err)
		}
	}
}
