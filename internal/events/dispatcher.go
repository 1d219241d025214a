// Package events provides the asynchronous fan-out behind ports.EventSink.
// Engines emit without blocking; subscribers consume on a worker goroutine.
// Having zero subscribers is valid and affects nothing.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

// Subscriber receives every dispatched event.
type Subscriber func(e ports.Event)

// Dispatcher buffers events on a channel and fans them out to subscribers.
type Dispatcher struct {
	logger *zap.Logger
	ch     chan ports.Event

	mu   sync.RWMutex
	subs []Subscriber

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher creates a dispatcher with the given buffer size.
func NewDispatcher(logger *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Dispatcher{
		logger: logger,
		ch:     make(chan ports.Event, buffer),
	}
}

// Subscribe registers a subscriber. Safe to call before or after Start.
func (d *Dispatcher) Subscribe(s Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, s)
}

// Emit enqueues an event without blocking. When the buffer is full the
// event is dropped with a warning; observability must never stall the
// request path.
func (d *Dispatcher) Emit(e ports.Event) {
	select {
	case d.ch <- e:
	default:
		d.logger.Warn("event buffer full, dropping event", zap.String("event", e.Name))
	}
}

// Start launches the fan-out worker. The worker drains the buffer on
// context cancellation before exiting.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go d.worker(ctx)
}

// Stop closes the queue and waits for the worker to drain it.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.ch)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()

	deliver := func(e ports.Event) {
		d.mu.RLock()
		subs := append([]Subscriber(nil), d.subs...)
		d.mu.RUnlock()
		for _, s := range subs {
			s(e)
		}
	}

	for {
		select {
		case e, ok := <-d.ch:
			if !ok {
				return
			}
			deliver(e)
		case <-ctx.Done():
			for {
				select {
				case e, ok := <-d.ch:
					if !ok {
						return
					}
					deliver(e)
				default:
					return
				}
			}
		}
	}
}

// LogSubscriber returns a subscriber that logs every event with zap.
func LogSubscriber(logger *zap.Logger) Subscriber {
	return func(e ports.Event) {
		fields := make([]zap.Field, 0, len(e.Payload)+1)
		fields = append(fields, zap.Time("at", e.Timestamp))
		for k, v := range e.Payload {
			fields = append(fields, zap.Any(k, v))
		}
		logger.Info(e.Name, fields...)
	}
}
