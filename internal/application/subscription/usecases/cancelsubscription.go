package usecases

import (
	"context"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	SID    string
	Reason string // Optional
}

// CancelSubscriptionUseCase moves a subscription to the terminal cancelled
// status. Auto-renew is switched off and stays off.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	publisher        events.EventPublisher
	clock            biztime.Clock
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	publisher events.EventPublisher,
	clock biztime.Clock,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	if err := sub.Cancel(cmd.Reason, now); err != nil {
		return nil, transitionError(err, "failed to cancel subscription")
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist cancellation", "error", err, "sid", cmd.SID)
		return nil, apperrors.NewInternalError("failed to save subscription")
	}

	publishEvent(uc.logger, uc.publisher, subscription.NewCancelledEvent(sub, cmd.Reason, now))

	uc.logger.Infow("subscription cancelled", "sid", sub.SID(), "reason", cmd.Reason)

	return dto.ToSubscriptionDTO(sub), nil
}
