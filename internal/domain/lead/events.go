package lead

import "sync"

// EventType tags a change-feed notification
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// ChangeEvent is one insert/update/delete notification for the leads table.
// New carries the record after the change, Old the record before it.
type ChangeEvent struct {
	Type EventType `json:"type"`
	New  *Lead     `json:"new,omitempty"`
	Old  *Lead     `json:"old,omitempty"`
}

// ID returns the lead id the event refers to
func (e ChangeEvent) ID() int64 {
	if e.Type == EventDelete && e.Old != nil {
		return e.Old.ID
	}
	if e.New != nil {
		return e.New.ID
	}
	if e.Old != nil {
		return e.Old.ID
	}
	return 0
}

const subscriptionBuffer = 256

// Broker fans change events out to in-process subscribers in publish order.
type Broker struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Subscription is one receiver on the change feed. Events arrive on C.
// Unsubscribe is safe to call from any goroutine and is a no-op after the
// first call.
type Subscription struct {
	C      <-chan ChangeEvent
	ch     chan ChangeEvent
	broker *Broker
	once   sync.Once
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[*Subscription]struct{})}
}

func (b *Broker) Subscribe() *Subscription {
	ch := make(chan ChangeEvent, subscriptionBuffer)
	sub := &Subscription{C: ch, ch: ch, broker: b}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Publish delivers ev to every live subscription. A subscriber that has
// fallen subscriptionBuffer events behind is skipped.
func (b *Broker) Publish(ev ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribers returns the number of live subscriptions
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s)
		s.broker.mu.Unlock()
		close(s.ch)
	})
}
