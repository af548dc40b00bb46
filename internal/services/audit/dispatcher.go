package audit

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

const (
	ActionListingDelete      = "listing.delete"
	ActionBidAccept          = "bid.accept"
	ActionListingComplete    = "listing.complete"
	ActionSubscriptionVerify = "subscription.verify"
	ActionSubscriptionReject = "subscription.reject"
	ActionSubscriptionExpire = "subscription.expire"
	ActionUserToggleBlock    = "user.toggle_block"
)

type Event struct {
	ActorID  *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Dispatcher writes events on a single background worker so request paths
// never wait on the audit table.
type Dispatcher struct {
	logger *Logger
	queue  chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.logger.Log(ev); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// queue full: drop rather than stall the request
		log.Println("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

// Nop discards events.
type Nop struct{}

func (Nop) Dispatch(Event) {}
