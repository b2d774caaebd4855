package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	CustomerRef string
	Plan        string
	Amount      string
	Cadence     string // Defaults to monthly when empty
	AnchorDate  time.Time
	Notes       string
	Metadata    map[string]interface{}
}

type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	publisher        events.EventPublisher
	clock            biztime.Clock
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	publisher events.EventPublisher,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	if fields := validateSubscriptionInput(cmd.CustomerRef, cmd.Plan, cmd.Amount, cmd.Cadence, true); len(fields) > 0 {
		uc.logger.Warnw("subscription input rejected", "fields", fields)
		return nil, apperrors.NewValidationError("subscription validation failed", fields...)
	}

	amount, _ := decimal.NewFromString(cmd.Amount)

	cadence := vo.CadenceMonthly
	if cmd.Cadence != "" {
		parsed, err := vo.ParseCadence(cmd.Cadence)
		if err != nil {
			return nil, apperrors.NewValidationError("subscription validation failed", "cadence")
		}
		cadence = parsed
	}

	now := uc.clock.Now()

	sub, err := subscription.NewSubscription(cmd.CustomerRef, cmd.Plan, amount, cadence, cmd.Notes, cmd.AnchorDate, now)
	if err != nil {
		uc.logger.Errorw("failed to create subscription aggregate", "error", err)
		return nil, apperrors.NewBadRequestError("failed to create subscription", err.Error())
	}

	for k, v := range cmd.Metadata {
		sub.Metadata()[k] = v
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist subscription", "error", err, "customer_ref", cmd.CustomerRef)
		return nil, apperrors.NewInternalError("failed to save subscription")
	}

	publishEvent(uc.logger, uc.publisher, subscription.NewCreatedEvent(sub, now))

	uc.logger.Infow("subscription created",
		"sid", sub.SID(),
		"customer_ref", sub.CustomerRef(),
		"plan", sub.Plan(),
		"cadence", sub.Cadence(),
		"next_charge_date", sub.NextChargeDate(),
	)

	return dto.ToSubscriptionDTO(sub), nil
}

// validateSubscriptionInput collects field-level violations so callers get
// the full list in one round trip instead of failing on the first.
func validateSubscriptionInput(customerRef, plan, amount, cadence string, cadenceOptional bool) []string {
	var fields []string

	if customerRef == "" {
		fields = append(fields, "customer_ref")
	}
	if plan == "" {
		fields = append(fields, "plan")
	}

	if amount == "" {
		fields = append(fields, "amount")
	} else if parsed, err := decimal.NewFromString(amount); err != nil || !parsed.IsPositive() {
		fields = append(fields, "amount")
	}

	if cadence == "" {
		if !cadenceOptional {
			fields = append(fields, "cadence")
		}
	} else if _, err := vo.ParseCadence(cadence); err != nil {
		fields = append(fields, "cadence")
	}

	return fields
}
