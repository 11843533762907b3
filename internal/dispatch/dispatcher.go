// Package dispatch runs fire-and-forget remote writes after an optimistic local change.
package dispatch

import (
	"context"
	"sync"

	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
	"careerlens/internal/common/metrics"
)

// Dispatcher starts remote writes on their own goroutines. Failures are absorbed: logged,
// counted, never retried and never surfaced to the caller.
type Dispatcher struct {
	wg      sync.WaitGroup
	handler *errors.Handler
}

func New(log logger.Logger) *Dispatcher {
	return &Dispatcher{
		handler: errors.NewErrorHandler(log, func(op string, code errors.ErrorCode) {
			metrics.RemoteWriteFailures.WithLabelValues(op, string(code)).Inc()
		}),
	}
}

// Go runs write in the background. The write keeps ctx's values but not its cancellation,
// so a finished command does not abort writes already in flight.
func (d *Dispatcher) Go(ctx context.Context, kind string, fields map[string]interface{}, write func(ctx context.Context) error) {
	metrics.LocalMutations.WithLabelValues(kind).Inc()
	metrics.RemoteWritesInFlight.Inc()
	d.wg.Add(1)

	detached := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()
		defer metrics.RemoteWritesInFlight.Dec()
		d.handler.Absorb(kind, write(detached), fields)
	}()
}

// Wait blocks until every write started so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
