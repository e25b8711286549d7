package ports

import "context"

const (
	// EventMoreInfo is emitted when the user asks for the entity's detail view.
	EventMoreInfo = "card.more_info"
	// EventEntityMissing is emitted when the configured entity is absent from
	// the host's state set.
	EventEntityMissing = "card.entity_missing"
	// EventHostConnected is emitted when the host connection is established.
	EventHostConnected = "host.connected"
	// EventHostDisconnected is emitted when the host connection drops.
	EventHostDisconnected = "host.disconnected"
)

// DomainEvent represents a significant occurrence within the card or its
// host adapter. Events carry structured payloads that subscribers use for
// logging, UI updates, or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Implementations must
// be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Failures should be
// surfaced via returned errors so publishers can log diagnostics and continue
// delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events.
type Subscription interface {
	Unsubscribe()
}

// Event is a plain DomainEvent implementation.
type Event struct {
	Type string
	Data map[string]interface{}
}

// NewEvent constructs an Event with the given payload.
func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{Type: eventType, Data: data}
}

// EventType implements DomainEvent.
func (e Event) EventType() string { return e.Type }

// Payload implements DomainEvent.
func (e Event) Payload() interface{} { return e.Data }
