package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

type UpdateSubscriptionCommand struct {
	SID         string
	CustomerRef string
	Plan        string
	Amount      string
	Cadence     string
	Notes       string
	AutoRenew   bool
}

type UpdateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	publisher        events.EventPublisher
	clock            biztime.Clock
	logger           logger.Interface
}

func NewUpdateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	publisher events.EventPublisher,
	clock biztime.Clock,
	logger logger.Interface,
) *UpdateSubscriptionUseCase {
	return &UpdateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *UpdateSubscriptionUseCase) Execute(ctx context.Context, cmd UpdateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if fields := validateSubscriptionInput(cmd.CustomerRef, cmd.Plan, cmd.Amount, cmd.Cadence, false); len(fields) > 0 {
		uc.logger.Warnw("subscription update rejected", "sid", cmd.SID, "fields", fields)
		return nil, apperrors.NewValidationError("subscription validation failed", fields...)
	}

	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}

	amount, _ := decimal.NewFromString(cmd.Amount)
	cadence, _ := vo.ParseCadence(cmd.Cadence)

	now := uc.clock.Now()

	if err := sub.UpdateDetails(cmd.CustomerRef, cmd.Plan, amount, cadence, cmd.Notes, cmd.AutoRenew, now); err != nil {
		uc.logger.Warnw("subscription update refused by aggregate", "error", err, "sid", cmd.SID)
		return nil, apperrors.NewBadRequestError("failed to update subscription", err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist subscription update", "error", err, "sid", cmd.SID)
		return nil, apperrors.NewInternalError("failed to save subscription")
	}

	publishEvent(uc.logger, uc.publisher, subscription.NewUpdatedEvent(sub, now))

	uc.logger.Infow("subscription updated",
		"sid", sub.SID(),
		"cadence", sub.Cadence(),
		"next_charge_date", sub.NextChargeDate(),
	)

	return dto.ToSubscriptionDTO(sub), nil
}
