package pipeline

import (
	"sync"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// DefaultCapacity bounds the dispatch channel when no capacity is configured.
const DefaultCapacity = 10_000

// Dispatch is the bounded FIFO between the record source and the ledger.
// Send blocks while the queue is full and Recv blocks while it is empty.
// Only the producer may call Send and Close.
type Dispatch struct {
	ch   chan models.Event
	once sync.Once
}

// NewDispatch returns a queue holding at most capacity events.
// Non-positive capacities fall back to DefaultCapacity.
func NewDispatch(capacity int) *Dispatch {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Dispatch{ch: make(chan models.Event, capacity)}
}

// Send enqueues ev, waiting for a free slot.
func (d *Dispatch) Send(ev models.Event) {
	d.ch <- ev
}

// Recv dequeues the oldest event. ok is false once the queue is closed and drained.
func (d *Dispatch) Recv() (ev models.Event, ok bool) {
	ev, ok = <-d.ch
	return ev, ok
}

// Close marks the end of the stream. It is safe to call more than once.
func (d *Dispatch) Close() {
	d.once.Do(func() { close(d.ch) })
}

// Len returns the number of queued events.
func (d *Dispatch) Len() int {
	return len(d.ch)
}

// Cap returns the queue capacity.
func (d *Dispatch) Cap() int {
	return cap(d.ch)
}
