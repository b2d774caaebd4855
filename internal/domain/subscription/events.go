package subscription

import "time"

// Event types emitted by the subscription use cases. Listeners subscribe
// through the shared event dispatcher; absence of a listener is a no-op.
const (
	EventCreated   = "subscription.created"
	EventUpdated   = "subscription.updated"
	EventDeleted   = "subscription.deleted"
	EventPaused    = "subscription.paused"
	EventResumed   = "subscription.resumed"
	EventCancelled = "subscription.cancelled"
	EventBilled    = "subscription.billed"
)

// Event is the common shape of all subscription domain events. It satisfies
// the shared events.DomainEvent interface.
type Event struct {
	eventType   string
	sid         string
	customerRef string
	status      string
	occurredAt  time.Time
}

func newEvent(eventType string, s *Subscription, occurredAt time.Time) Event {
	return Event{
		eventType:   eventType,
		sid:         s.SID(),
		customerRef: s.CustomerRef(),
		status:      s.Status().String(),
		occurredAt:  occurredAt,
	}
}

func (e Event) GetAggregateID() string    { return e.sid }
func (e Event) GetEventType() string      { return e.eventType }
func (e Event) GetOccurredAt() time.Time  { return e.occurredAt }
func (e Event) GetVersion() int           { return 1 }
func (e Event) SubscriptionSID() string   { return e.sid }
func (e Event) CustomerRef() string       { return e.customerRef }
func (e Event) Status() string            { return e.status }

// CreatedEvent signals that a subscription was created.
type CreatedEvent struct{ Event }

func NewCreatedEvent(s *Subscription, occurredAt time.Time) *CreatedEvent {
	return &CreatedEvent{newEvent(EventCreated, s, occurredAt)}
}

// UpdatedEvent signals that caller-editable fields changed.
type UpdatedEvent struct{ Event }

func NewUpdatedEvent(s *Subscription, occurredAt time.Time) *UpdatedEvent {
	return &UpdatedEvent{newEvent(EventUpdated, s, occurredAt)}
}

// DeletedEvent signals an irreversible delete.
type DeletedEvent struct{ Event }

func NewDeletedEvent(s *Subscription, occurredAt time.Time) *DeletedEvent {
	return &DeletedEvent{newEvent(EventDeleted, s, occurredAt)}
}

// PausedEvent signals an active -> paused transition.
type PausedEvent struct{ Event }

func NewPausedEvent(s *Subscription, occurredAt time.Time) *PausedEvent {
	return &PausedEvent{newEvent(EventPaused, s, occurredAt)}
}

// ResumedEvent signals a paused -> active transition.
type ResumedEvent struct{ Event }

func NewResumedEvent(s *Subscription, occurredAt time.Time) *ResumedEvent {
	return &ResumedEvent{newEvent(EventResumed, s, occurredAt)}
}

// CancelledEvent signals the terminal cancellation.
type CancelledEvent struct {
	Event
	Reason string
}

func NewCancelledEvent(s *Subscription, reason string, occurredAt time.Time) *CancelledEvent {
	return &CancelledEvent{Event: newEvent(EventCancelled, s, occurredAt), Reason: reason}
}

// BilledEvent carries the previous and new next charge dates so observers
// can track schedule advancement without re-reading the store.
type BilledEvent struct {
	Event
	BillingDate            time.Time
	PreviousNextChargeDate *time.Time
	NewNextChargeDate      *time.Time
}

func NewBilledEvent(s *Subscription, billingDate time.Time, previousNext, newNext *time.Time, occurredAt time.Time) *BilledEvent {
	return &BilledEvent{
		Event:                  newEvent(EventBilled, s, occurredAt),
		BillingDate:            billingDate,
		PreviousNextChargeDate: previousNext,
		NewNextChargeDate:      newNext,
	}
}
