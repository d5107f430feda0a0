package services

import "sync"

// EventKind tags a change bus event.
type EventKind string

const (
	EventMessage    EventKind = "message"    // a message was appended to a chat
	EventChat       EventKind = "chat"       // a chat or invite status changed
	EventMembership EventKind = "membership" // a user's chat list changed
)

// Event describes one document change. Users lists the user ids whose
// chat lists are affected, so chat-list subscriptions can filter.
type Event struct {
	Kind   EventKind
	ChatID string
	Users  []string
}

// Concerns reports whether the event affects userID's chat list.
func (e Event) Concerns(userID string) bool {
	for _, u := range e.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// ChangeBus fans document-change events out to live subscriptions. It is
// the in-process stand-in for the document store's push channel: services
// publish after every successful write, subscriptions and the socket
// bridge consume.
type ChangeBus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

func NewChangeBus() *ChangeBus {
	return &ChangeBus{subs: make(map[int]chan Event)}
}

// Publish delivers e to every subscriber without blocking: a subscriber
// that cannot keep up loses its oldest undelivered event, which is safe
// because consumers reload full state on every event.
func (b *ChangeBus) Publish(e Event) {
	b.mu.Lock()
	channels := make([]chan Event, 0, len(b.subs))
	for _, ch := range b.subs {
		channels = append(channels, ch)
	}
	b.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- e:
		default:
			// Buffer full: drop the oldest event, then try once more.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e:
			default:
			}
		}
	}
}

// Subscribe registers a new consumer. The returned cancel func is
// idempotent and must be called when the consumer is done.
func (b *ChangeBus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, 16)
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// SubscriberCount reports the number of live registrations.
func (b *ChangeBus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
