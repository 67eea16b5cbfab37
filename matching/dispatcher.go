package matching

import (
	"limitbook/domain"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Dispatcher is the single-goroutine front door onto a non-reentrant
// Engine. It is an external collaborator, not part of the matching core:
// the core stays synchronous and single-threaded exactly as spec.md
// requires, while Dispatcher gives callers on any goroutine a safe way to
// feed it. Submit and CancelOrder enqueue work; the dispatch goroutine
// started by Start is the only caller of Engine.Limit and Engine.Cancel.
type Dispatcher struct {
	engine  *Engine
	orders  *orderRing
	cancels chan domain.OrderID
	ids     *correlationIDs
	t       tomb.Tomb
}

// NewDispatcher wires a Dispatcher around engine. capacity is the order
// queue depth and must be a power of two (the teacher's default is 65536).
func NewDispatcher(engine *Engine, capacity int) *Dispatcher {
	return &Dispatcher{
		engine:  engine,
		orders:  newOrderRing(capacity),
		cancels: make(chan domain.OrderID, 256),
		ids:     newCorrelationIDs("submit-"),
	}
}

// Start launches the dispatch goroutine and returns immediately.
func (d *Dispatcher) Start() {
	d.t.Go(d.run)
}

// Stop signals the dispatch goroutine to exit and waits for it to return.
// Orders and cancels submitted before Stop are processed first.
func (d *Dispatcher) Stop() error {
	d.orders.publish(submission{}) // stop marker: no trace id
	return d.t.Wait()
}

// cancelWake is the trace of the submission CancelOrder publishes to wake
// the dispatch goroutine; it carries no order.
const cancelWake = "cancel-wake"

// Submit enqueues order for matching. It does not wait for the order to be
// processed and is safe to call from any goroutine.
func (d *Dispatcher) Submit(order domain.Order) {
	d.orders.publish(submission{order: order, trace: d.ids.next()})
}

// CancelOrder enqueues a cancel request. Safe to call from any goroutine.
func (d *Dispatcher) CancelOrder(id domain.OrderID) {
	select {
	case d.cancels <- id:
		d.orders.publish(submission{trace: cancelWake})
	case <-d.t.Dying():
	}
}

func (d *Dispatcher) run() error {
	log.Info().Msg("dispatcher starting")
	defer log.Info().Msg("dispatcher stopped")

	for {
		select {
		case id := <-d.cancels:
			d.engine.Cancel(id)
			continue
		default:
		}

		// Consume blocks until a submission arrives. CancelOrder and Stop
		// each publish one after their request, so a pending cancel or stop
		// is picked up even when no further order follows it.
		s := d.orders.consume()
		switch s.trace {
		case "":
			return nil // stop marker from Stop
		case cancelWake:
			continue
		}
		d.process(s)
	}
}

func (d *Dispatcher) process(s submission) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("trace", s.trace).
				Interface("panic", r).
				Msg("dropping order: contract violation")
		}
	}()
	d.engine.Limit(s.order)
}
