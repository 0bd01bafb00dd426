package runtime

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/observability"
	"log/slog"
	"sync"

	"github.com/im7mortal/kmutex"
)

// Registry maps each online user to the broadcaster shared by all of the
// user's sessions.
//
// Subscribe and unsubscribe for one user are serialized by a per-user lock,
// so an entry is created by the first session and removed by the last one
// without ever blocking work on other users. Publish takes no lock at all:
// it loads the entry and sends, which never blocks either.
type Registry struct {
	log      *slog.Logger
	metrics  *observability.Metrics
	capacity int
	locks    *kmutex.Kmutex
	entries  sync.Map // domain.UserID -> *userEntry
}

type userEntry struct {
	broadcaster *Broadcaster
	sessions    int // guarded by the user's key lock
}

func NewRegistry(log *slog.Logger, metrics *observability.Metrics, capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		log:      log,
		metrics:  metrics,
		capacity: capacity,
		locks:    kmutex.New(),
	}
}

// Subscribe opens a session hold on userID's broadcast channel, creating
// the channel if this is the user's first session.
func (r *Registry) Subscribe(userID domain.UserID) contract.Subscription {
	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)

	entry, ok := r.load(userID)
	if !ok {
		entry = &userEntry{broadcaster: NewBroadcaster(r.capacity)}
		r.entries.Store(userID, entry)
	}
	entry.sessions++
	r.metrics.SessionOpened(!ok)
	receiver := entry.broadcaster.Subscribe()
	r.log.Debug("Session subscribed",
		"user_id", userID, "sessions", entry.sessions, "receivers", entry.broadcaster.Len())

	return &Subscription{
		userID:   userID,
		entry:    entry,
		receiver: receiver,
		registry: r,
	}
}

// Publish hands evt to every live session of each user. Users without a
// session are skipped silently.
func (r *Registry) Publish(evt event.DomainEvent, users []domain.UserID) {
	for _, userID := range users {
		entry, ok := r.load(userID)
		if !ok {
			r.metrics.IncDiscarded()
			continue
		}
		dropped := entry.broadcaster.Send(evt)
		r.metrics.IncPublished(evt.Name())
		if dropped > 0 {
			r.metrics.AddDropped(dropped)
			r.log.Warn("Session lagging, oldest events dropped",
				"user_id", userID, "event", evt.Name(), "dropped", dropped)
		}
	}
}

// Sessions is the number of live sessions of userID.
func (r *Registry) Sessions(userID domain.UserID) int {
	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)
	if entry, ok := r.load(userID); ok {
		return entry.sessions
	}
	return 0
}

// Users is the number of users with at least one live session.
func (r *Registry) Users() int {
	n := 0
	r.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (r *Registry) unsubscribe(sub *Subscription) {
	r.locks.Lock(sub.userID)
	defer r.locks.Unlock(sub.userID)

	entry, ok := r.load(sub.userID)
	if !ok || entry != sub.entry {
		r.log.Error("Unsubscribe from a stale entry", "user_id", sub.userID)
		return
	}
	entry.broadcaster.Unsubscribe(sub.receiver)
	entry.sessions--
	last := entry.sessions <= 0
	if last {
		r.entries.Delete(sub.userID)
	}
	r.metrics.SessionClosed(last)
	r.log.Debug("Session unsubscribed",
		"user_id", sub.userID, "sessions", entry.sessions, "receivers", entry.broadcaster.Len())
}

func (r *Registry) load(userID domain.UserID) (*userEntry, bool) {
	v, ok := r.entries.Load(userID)
	if !ok {
		return nil, false
	}
	return v.(*userEntry), true
}

// Subscription is the guard returned by Registry.Subscribe.
// Closing it releases the session's hold exactly once.
type Subscription struct {
	userID   domain.UserID
	entry    *userEntry
	receiver *Receiver
	registry *Registry
	once     sync.Once
}

func (s *Subscription) UserID() domain.UserID { return s.userID }

func (s *Subscription) Events() <-chan event.DomainEvent { return s.receiver.Events() }

func (s *Subscription) Lagged() uint64 { return s.receiver.Lagged() }

func (s *Subscription) Close() {
	s.once.Do(func() { s.registry.unsubscribe(s) })
}
