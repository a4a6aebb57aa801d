package services

import (
	"log"
	"sync"
	"time"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
)

// Dispatcher simulates delivery progression: a fixed delay after an order is
// placed, it moves the order from Pending to Dispatched. Every task is a
// tracked timer, so shutdown can stop what has not fired yet and wait for
// whatever is mid-flight. The status write is conditional: an order cancelled
// while its timer was pending stays Cancelled.
type Dispatcher struct {
	orders *repositories.OrderStore
	delay  time.Duration

	// onDispatched is invoked after a successful Pending -> Dispatched
	// transition, outside any lock. Used to publish the lifecycle event.
	onDispatched func(order models.Order)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

// NewDispatcher creates a dispatcher that advances orders after the given
// simulated delivery-route delay.
func NewDispatcher(orders *repositories.OrderStore, delay time.Duration, onDispatched func(order models.Order)) *Dispatcher {
	return &Dispatcher{
		orders:       orders,
		delay:        delay,
		onDispatched: onDispatched,
		timers:       make(map[string]*time.Timer),
	}
}

// Schedule queues the dispatch progression for a newly placed order. It never
// blocks the caller.
func (d *Dispatcher) Schedule(orderID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		log.Printf("Dispatcher is shut down; order %s stays Pending", orderID)
		return
	}
	if _, exists := d.timers[orderID]; exists {
		return
	}

	d.wg.Add(1)
	d.timers[orderID] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, orderID)
		d.mu.Unlock()

		// Only transition if the order is still Pending; a concurrent
		// cancellation wins and this write is dropped.
		order, ok := d.orders.UpdateStatusIf(orderID, models.StatusDispatched, models.StatusPending)
		if !ok {
			log.Printf("Order %s no longer Pending, skipping dispatch", orderID)
			return
		}
		log.Printf("Delivery route calculated for order %s. Dispatching...", orderID)
		if d.onDispatched != nil {
			d.onDispatched(order)
		}
	})
}

// Shutdown stops pending timers and waits for callbacks already running.
// Orders whose timers were stopped remain Pending and are picked up after the
// next start through their persisted status.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	d.stopped = true
	for id, timer := range d.timers {
		if timer.Stop() {
			// The callback will never run; settle its WaitGroup slot.
			d.wg.Done()
		}
		delete(d.timers, id)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Pending reports how many progression tasks have not fired yet.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
