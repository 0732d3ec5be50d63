// Package queue writes the payment-method audit trail off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Outcome hook values.
const (
	OutcomeWritten = "written"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// Dispatcher routes audit entries to a fixed set of workers using consistent
// hashing on the payment method id, so the history of one payment method is
// written in the order it happened.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
	observe func(outcome string)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. observe may be nil.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, observe func(string), log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if observe == nil {
		observe = func(string) {}
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log.With().Str("component", "audit").Logger(),
		observe: observe,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close once their queue is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands entry to the worker responsible for its payment method. It
// never blocks: when that worker is saturated, or the dispatcher is closed,
// the entry is dropped and logged.
func (d *Dispatcher) Enqueue(entry domain.AuditEntry) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(entry, "dispatcher closed")
		return
	}

	select {
	case d.workers[d.shardIndex(entry.PaymentMethodID)] <- entry:
	default:
		d.drop(entry, "worker queue full")
	}
}

// Close stops accepting entries and waits for the queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a payment method id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			d.write(ctx, id, entry)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, worker int, entry domain.AuditEntry) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, entry); err != nil {
		d.observe(OutcomeFailed)
		d.log.Error().Err(err).
			Str("payment_method_id", entry.PaymentMethodID).
			Str("action", string(entry.Action)).
			Int("worker_id", worker).
			Msg("audit write failed")
		return
	}
	d.observe(OutcomeWritten)
}

func (d *Dispatcher) drop(entry domain.AuditEntry, reason string) {
	d.observe(OutcomeDropped)
	d.log.Warn().
		Str("payment_method_id", entry.PaymentMethodID).
		Str("action", string(entry.Action)).
		Msg("audit entry dropped: " + reason)
}
