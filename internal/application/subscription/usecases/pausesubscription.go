package usecases

import (
	"context"
	"errors"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

type PauseSubscriptionCommand struct {
	SID string
}

type PauseSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	publisher        events.EventPublisher
	clock            biztime.Clock
	logger           logger.Interface
}

func NewPauseSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	publisher events.EventPublisher,
	clock biztime.Clock,
	logger logger.Interface,
) *PauseSubscriptionUseCase {
	return &PauseSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *PauseSubscriptionUseCase) Execute(ctx context.Context, cmd PauseSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	if err := sub.Pause(now); err != nil {
		return nil, transitionError(err, "failed to pause subscription")
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist pause", "error", err, "sid", cmd.SID)
		return nil, apperrors.NewInternalError("failed to save subscription")
	}

	publishEvent(uc.logger, uc.publisher, subscription.NewPausedEvent(sub, now))

	uc.logger.Infow("subscription paused", "sid", sub.SID())

	return dto.ToSubscriptionDTO(sub), nil
}

// transitionError maps rejected lifecycle transitions to conflict errors so
// the interface layer renders them as expected-failure results.
func transitionError(err error, message string) error {
	if errors.Is(err, subscription.ErrInvalidStatusTransition) {
		return apperrors.NewConflictError(message, err.Error())
	}
	return apperrors.NewBadRequestError(message, err.Error())
}
