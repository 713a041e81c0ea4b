package portal

import "sync"

// Event kinds delivered on the Bus.
const (
	EventNotification = "notification"
	EventAuthChanged  = "auth_changed"
)

// Notification levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notification is a user-visible message.
type Notification struct {
	Level   string
	Message string
}

// Event is a broadcast payload. Payload is a Notification for
// EventNotification and an Identity (possibly zero) for EventAuthChanged.
type Event struct {
	Kind    string
	Payload any
}

// Bus delivers events synchronously to subscribers in registration order.
// It replaces ambient mutable state shared between views: anything that needs
// toast messages or auth-change signals subscribes here.
type Bus struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	fn func(Event)
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers fn and returns an unsubscribe func.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every subscriber before returning.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

// NotificationSink receives user-visible messages.
type NotificationSink interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// BusSink publishes notifications on a Bus.
type BusSink struct{ Bus *Bus }

func (s BusSink) Info(msg string)    { s.publish(LevelInfo, msg) }
func (s BusSink) Success(msg string) { s.publish(LevelSuccess, msg) }
func (s BusSink) Error(msg string)   { s.publish(LevelError, msg) }

func (s BusSink) publish(level, msg string) {
	s.Bus.Publish(Event{Kind: EventNotification, Payload: Notification{Level: level, Message: msg}})
}
