package usecases

import (
	"context"

	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

type DeleteSubscriptionCommand struct {
	SID string
}

// DeleteSubscriptionUseCase removes a subscription permanently. There is no
// soft-delete state; the record is gone once this succeeds.
type DeleteSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	publisher        events.EventPublisher
	clock            biztime.Clock
	logger           logger.Interface
}

func NewDeleteSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	publisher events.EventPublisher,
	clock biztime.Clock,
	logger logger.Interface,
) *DeleteSubscriptionUseCase {
	return &DeleteSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *DeleteSubscriptionUseCase) Execute(ctx context.Context, cmd DeleteSubscriptionCommand) error {
	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return err
	}

	if err := uc.subscriptionRepo.Delete(ctx, sub.ID()); err != nil {
		uc.logger.Errorw("failed to delete subscription", "error", err, "sid", cmd.SID)
		return apperrors.NewInternalError("failed to delete subscription")
	}

	publishEvent(uc.logger, uc.publisher, subscription.NewDeletedEvent(sub, uc.clock.Now()))

	uc.logger.Infow("subscription deleted", "sid", sub.SID(), "customer_ref", sub.CustomerRef())

	return nil
}
