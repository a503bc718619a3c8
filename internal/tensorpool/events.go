package tensorpool

// Event represents a pool phase transition.
// Minimal and stable: name + optional tensor name and key/values.
type Event struct {
	Name   string
	Tensor string
	Fields map[string]any
}

// Event names published by the Pool.
const (
	EventFinalize   = "finalize"
	EventAllocate   = "allocate"
	EventDeallocate = "deallocate"
	EventBind       = "bind"
)

// EventPublisher receives events from the pool. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
