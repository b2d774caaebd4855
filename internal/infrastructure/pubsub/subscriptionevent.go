package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

// SubscriptionEventMessage is the wire shape of a subscription event relayed
// over Redis for cross-instance consumers (reporting views, cache refresh).
type SubscriptionEventMessage struct {
	EventType       string `json:"event_type"`
	SubscriptionSID string `json:"subscription_sid"`
	CustomerRef     string `json:"customer_ref"`
	Status          string `json:"status"`
	Timestamp       int64  `json:"timestamp"`
}

// SubscriptionEventHandler is a callback function for handling relayed events
type SubscriptionEventHandler func(ctx context.Context, event SubscriptionEventMessage)

const subscriptionChangeChannel = "subledger:subscription:change"

// RedisSubscriptionEventBus relays subscription domain events over Redis
// Pub/Sub for cross-instance distribution
type RedisSubscriptionEventBus struct {
	client *redis.Client
	logger logger.Interface
}

// NewRedisSubscriptionEventBus creates a new Redis-based subscription event bus
func NewRedisSubscriptionEventBus(client *redis.Client, logger logger.Interface) *RedisSubscriptionEventBus {
	return &RedisSubscriptionEventBus{
		client: client,
		logger: logger,
	}
}

// Publish relays one event message to the shared channel
func (b *RedisSubscriptionEventBus) Publish(ctx context.Context, event SubscriptionEventMessage) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, subscriptionChangeChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish subscription event",
			"subscription_sid", event.SubscriptionSID,
			"event_type", event.EventType,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("subscription event published",
		"subscription_sid", event.SubscriptionSID,
		"event_type", event.EventType,
	)
	return nil
}

// Subscribe subscribes to relayed subscription events and calls the handler for each
func (b *RedisSubscriptionEventBus) Subscribe(ctx context.Context, handler SubscriptionEventHandler) error {
	pubsub := b.client.Subscribe(ctx, subscriptionChangeChannel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	_, err := pubsub.Receive(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to subscription events",
		"channel", subscriptionChangeChannel,
	)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("subscription event subscriber stopped",
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("subscription event channel closed")
				return nil
			}

			var event SubscriptionEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal subscription event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// Handle in a background goroutine to avoid blocking the loop
			go handler(context.Background(), event)
		}
	}
}

// RelayHandler bridges the in-process event dispatcher to the Redis bus. It
// subscribes to every subscription event type and republishes the envelope.
type RelayHandler struct {
	bus    *RedisSubscriptionEventBus
	logger logger.Interface
}

func NewRelayHandler(bus *RedisSubscriptionEventBus, logger logger.Interface) *RelayHandler {
	return &RelayHandler{
		bus:    bus,
		logger: logger,
	}
}

// RelayedEventTypes lists the event types the relay forwards.
func RelayedEventTypes() []string {
	return []string{
		subscription.EventCreated,
		subscription.EventUpdated,
		subscription.EventDeleted,
		subscription.EventPaused,
		subscription.EventResumed,
		subscription.EventCancelled,
		subscription.EventBilled,
	}
}

func (h *RelayHandler) Handle(event events.DomainEvent) error {
	msg := SubscriptionEventMessage{
		EventType:       event.GetEventType(),
		SubscriptionSID: event.GetAggregateID(),
		Timestamp:       event.GetOccurredAt().Unix(),
	}

	if subEvent, ok := event.(interface {
		CustomerRef() string
		Status() string
	}); ok {
		msg.CustomerRef = subEvent.CustomerRef()
		msg.Status = subEvent.Status()
	}

	return h.bus.Publish(context.Background(), msg)
}

func (h *RelayHandler) CanHandle(eventType string) bool {
	for _, t := range RelayedEventTypes() {
		if t == eventType {
			return true
		}
	}
	return false
}
