package usecases

import (
	"context"

	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

// publishEvent dispatches a domain event after the aggregate has been
// persisted. Event delivery is fire-and-forget: a failed publish is logged
// and never fails the operation that already committed.
func publishEvent(log logger.Interface, publisher events.EventPublisher, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(event); err != nil {
		log.Warnw("failed to publish domain event",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	}
}

// loadBySID resolves a subscription by its public sid, translating the
// store outcome into the application error taxonomy.
func loadBySID(ctx context.Context, repo subscription.SubscriptionRepository, log logger.Interface, sid string) (*subscription.Subscription, error) {
	if sid == "" {
		return nil, apperrors.NewValidationError("subscription id is required", "id")
	}

	sub, err := repo.GetBySID(ctx, sid)
	if err != nil {
		log.Errorw("failed to load subscription", "error", err, "sid", sid)
		return nil, apperrors.NewInternalError("failed to load subscription")
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}
	return sub, nil
}
