package runtime

import (
	"chat-notify/domain/event"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the number of events buffered per session.
const DefaultCapacity = 256

// Broadcaster fans the events of one user out to each of the user's sessions.
// Every receiver owns its buffer: a lagging receiver loses its oldest
// buffered events and never slows the sender or its siblings down.
type Broadcaster struct {
	mu        sync.Mutex
	capacity  int
	receivers map[*Receiver]struct{}
}

func NewBroadcaster(capacity int) *Broadcaster {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Broadcaster{capacity: capacity, receivers: make(map[*Receiver]struct{})}
}

// Receiver is one session's copy of the broadcast stream.
type Receiver struct {
	events chan event.DomainEvent
	lagged atomic.Uint64
}

// Events is closed once the receiver is detached from its broadcaster.
func (r *Receiver) Events() <-chan event.DomainEvent { return r.events }

// Lagged counts the events this receiver lost to the drop-oldest policy.
func (r *Receiver) Lagged() uint64 { return r.lagged.Load() }

func (b *Broadcaster) Subscribe() *Receiver {
	r := &Receiver{events: make(chan event.DomainEvent, b.capacity)}
	b.mu.Lock()
	b.receivers[r] = struct{}{}
	b.mu.Unlock()
	return r
}

// Unsubscribe detaches r and closes its channel. Unknown receivers are ignored.
func (b *Broadcaster) Unsubscribe(r *Receiver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.receivers[r]; ok {
		delete(b.receivers, r)
		close(r.events)
	}
}

func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.receivers)
}

// Send never blocks. It returns how many buffered events were evicted.
func (b *Broadcaster) Send(evt event.DomainEvent) (dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for r := range b.receivers {
		dropped += r.offer(evt)
	}
	return dropped
}

// offer runs under the broadcaster lock, so it is the only writer of
// r.events and at most one eviction is ever needed.
func (r *Receiver) offer(evt event.DomainEvent) (dropped int) {
	for {
		select {
		case r.events <- evt:
			return dropped
		default:
		}
		select {
		case <-r.events:
			r.lagged.Add(1)
			dropped++
		default:
		}
	}
}
