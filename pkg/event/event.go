// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	WorldCreated         Type = "world_created"
	BallCollision        Type = "ball_collision"
	WallCollision        Type = "wall_collision"
	SubStepLimitExceeded Type = "sub_step_limit_exceeded"
	TimeScaleChanged     Type = "time_scale_changed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies a registered handler for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes a previously registered handler. It reports whether
// the subscription existed.
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, sub := range subs {
		if sub.id == id {
			// copy so a Publish iterating the old slice is unaffected
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			b.handlers[eventType] = append(kept, subs[i+1:]...)
			return true
		}
	}
	return false
}

// HasSubscribers reports whether any handler listens for eventType. The
// stepper uses it to skip building events nobody reads.
func (b *Bus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(event)
	}
}

// CollisionEvent describes one resolved contact. A is a body index; B is a
// body index for BallCollision and a wall index for WallCollision. Time is
// the offset of the contact from the start of the frame; it is negative when
// the world runs backward.
type CollisionEvent struct {
	BaseEvent
	A    int
	B    int
	Time float64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(eventType Type, source interface{}, a, b int, t float64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		A:    a,
		B:    b,
		Time: t,
	}
}

// StepLimitEvent reports a frame that needed more sub-steps than allowed.
type StepLimitEvent struct {
	BaseEvent
	SubSteps  int
	Remaining float64
}

// NewStepLimitEvent creates a new sub-step limit event
func NewStepLimitEvent(source interface{}, subSteps int, remaining float64) *StepLimitEvent {
	return &StepLimitEvent{
		BaseEvent: BaseEvent{
			EventType: SubStepLimitExceeded,
			Source:    source,
		},
		SubSteps:  subSteps,
		Remaining: remaining,
	}
}

// TimeScaleEvent carries a new time scale chosen by the user.
type TimeScaleEvent struct {
	BaseEvent
	Scale float64
}

// NewTimeScaleEvent creates a new time scale event
func NewTimeScaleEvent(source interface{}, scale float64) *TimeScaleEvent {
	return &TimeScaleEvent{
		BaseEvent: BaseEvent{
			EventType: TimeScaleChanged,
			Source:    source,
		},
		Scale: scale,
	}
}
