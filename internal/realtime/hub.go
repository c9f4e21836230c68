package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
)

// Kind identifies one push resource. Ordering is guaranteed per kind per
// user, never across kinds.
type Kind string

const (
	KindMessages      Kind = "messages"
	KindNotifications Kind = "notifications"
)

type EventType string

const (
	// EventInsert carries a newly committed row for the subscriber's user.
	EventInsert EventType = "insert"
	// EventChannelClosed is delivered exactly once when the underlying
	// channel fails terminally. No further events follow.
	EventChannelClosed EventType = "channel_closed"
)

// Event is one push delivered to subscribers. Delivery is at-least-once;
// consumers merge by row id rather than appending blindly.
type Event struct {
	Type    EventType   `json:"type"`
	Kind    Kind        `json:"kind"`
	UserID  string      `json:"userId"`
	Payload interface{} `json:"payload,omitempty"`
}

// Handler receives events for one subscription. It is never invoked
// concurrently with itself and never after Unsubscribe returns.
type Handler func(Event)

// ErrChannelRevoked marks a terminal source failure, e.g. a revoked
// session. The hub stops retrying and notifies subscribers once.
var ErrChannelRevoked = errors.New("realtime: channel revoked")

// Source is the underlying push channel the hub multiplexes. Attach
// blocks, feeding committed inserts into sink, until the channel fails
// or ctx is done.
type Source interface {
	Attach(ctx context.Context, sink func(Event)) error
}

type subKey struct {
	userID string
	kind   Kind
}

// Subscription is one registered handler. Unsubscribe is idempotent and
// guarantees no callback invocation after it returns, even for a push
// already in flight.
type Subscription struct {
	hub *Hub
	key subKey
	id  uint64

	mu     sync.Mutex
	closed bool
	fn     Handler
}

func (s *Subscription) Unsubscribe() {
	// Remove from the hub first so no new delivery can pick this
	// subscription up, then drain any in-flight callback by taking the
	// delivery lock before flipping closed.
	s.hub.remove(s)

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Subscription) deliver(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.fn(ev)
}

// Hub multiplexes one logical push channel per (user, kind) pair across
// any number of subscribers. Multiple UI components may subscribe to the
// same pair; each receives every insert.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[subKey]map[uint64]*Subscription
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[subKey]map[uint64]*Subscription),
	}
}

// Subscribe registers fn for inserts of the given kind owned by userID.
func (h *Hub) Subscribe(userID string, kind Kind, fn Handler) *Subscription {
	key := subKey{userID: userID, kind: kind}

	h.mu.Lock()
	h.nextID++
	sub := &Subscription{hub: h, key: key, id: h.nextID, fn: fn}
	group := h.subs[key]
	if group == nil {
		group = make(map[uint64]*Subscription)
		h.subs[key] = group
	}
	group[sub.id] = sub
	h.mu.Unlock()

	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	if group, ok := h.subs[sub.key]; ok {
		delete(group, sub.id)
		if len(group) == 0 {
			delete(h.subs, sub.key)
		}
	}
	h.mu.Unlock()
}

// Publish delivers an insert event to every subscriber of
// (ev.UserID, ev.Kind), in registration order.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	group := h.subs[subKey{userID: ev.UserID, kind: ev.Kind}]
	targets := make([]*Subscription, 0, len(group))
	for _, sub := range group {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		sub.deliver(ev)
	}
}

// closeAll notifies every subscriber once that the channel died, then
// clears the registry.
func (h *Hub) closeAll() {
	h.mu.Lock()
	all := make([]*Subscription, 0)
	for _, group := range h.subs {
		for _, sub := range group {
			all = append(all, sub)
		}
	}
	h.subs = make(map[subKey]map[uint64]*Subscription)
	h.mu.Unlock()

	for _, sub := range all {
		sub.deliver(Event{Type: EventChannelClosed, Kind: sub.key.kind, UserID: sub.key.userID})
	}
}

const (
	initialBackoff = 250 * time.Millisecond
	maxBackoff     = 30 * time.Second
)

// Run attaches the hub to its source and keeps it attached. Transient
// source failures are retried with exponential backoff, invisible to
// subscribers. A revoked channel broadcasts channel_closed once and
// stops. Run returns when ctx is done or the source fails terminally.
func (h *Hub) Run(ctx context.Context, src Source) {
	backoff := initialBackoff
	for {
		err := src.Attach(ctx, func(ev Event) {
			backoff = initialBackoff
			h.Publish(ev)
		})

		if ctx.Err() != nil || err == nil {
			return
		}
		if errors.Is(err, ErrChannelRevoked) {
			logger.Warn().Err(err).Msg("realtime channel revoked, closing subscriptions")
			h.closeAll()
			return
		}

		logger.Warn().Err(err).Dur("backoff", backoff).Msg("realtime source error, retrying")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// DefaultHub is the process-wide dispatcher. Fan-out publishes here
// synchronously after each durable insert, so realtime delivery never
// has to catch up with polling.
var DefaultHub = NewHub()

// PublishMessage pushes a committed message row to the recipient.
func PublishMessage(recipientID string, payload interface{}) {
	DefaultHub.Publish(Event{Type: EventInsert, Kind: KindMessages, UserID: recipientID, Payload: payload})
}

// PublishNotification pushes a committed notification row to its owner.
func PublishNotification(ownerID string, payload interface{}) {
	DefaultHub.Publish(Event{Type: EventInsert, Kind: KindNotifications, UserID: ownerID, Payload: payload})
}
