package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

type ProcessBillingCommand struct {
	SID         string
	BillingDate *time.Time // Defaults to the current time
}

// ProcessBillingUseCase records a confirmed charge against one subscription
// and advances its schedule. It never moves money; the caller confirms the
// payment out of band and reports it here.
type ProcessBillingUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	publisher        events.EventPublisher
	clock            biztime.Clock
	logger           logger.Interface
}

func NewProcessBillingUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	publisher events.EventPublisher,
	clock biztime.Clock,
	logger logger.Interface,
) *ProcessBillingUseCase {
	return &ProcessBillingUseCase{
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *ProcessBillingUseCase) Execute(ctx context.Context, cmd ProcessBillingCommand) (*dto.SubscriptionDTO, error) {
	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}

	billingDate := uc.clock.Now()
	if cmd.BillingDate != nil {
		billingDate = *cmd.BillingDate
	}

	result, err := uc.bill(ctx, sub, billingDate)
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(result), nil
}

// RunSweep bills every subscription due at the current time. Individual
// failures do not abort the sweep; they are collected into the report.
func (uc *ProcessBillingUseCase) RunSweep(ctx context.Context) (*dto.BillingRunReportDTO, error) {
	now := uc.clock.Now()

	due, err := uc.subscriptionRepo.FindDue(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to load due subscriptions", "error", err)
		return nil, apperrors.NewInternalError("failed to load due subscriptions")
	}

	report := &dto.BillingRunReportDTO{
		RunAt:    now,
		DueCount: len(due),
		Billed:   []*dto.SubscriptionDTO{},
		Failed:   []dto.BillingFailureDTO{},
	}

	for _, sub := range due {
		billed, err := uc.bill(ctx, sub, now)
		if err != nil {
			report.Failed = append(report.Failed, dto.BillingFailureDTO{
				SubscriptionID: sub.SID(),
				CustomerRef:    sub.CustomerRef(),
				Reason:         err.Error(),
			})
			continue
		}
		report.Billed = append(report.Billed, dto.ToSubscriptionDTO(billed))
	}

	uc.logger.Infow("billing sweep finished",
		"due", report.DueCount,
		"billed", len(report.Billed),
		"failed", len(report.Failed),
	)

	return report, nil
}

func (uc *ProcessBillingUseCase) bill(ctx context.Context, sub *subscription.Subscription, billingDate time.Time) (*subscription.Subscription, error) {
	previousNext := sub.NextChargeDate()

	if err := sub.MarkBilled(billingDate); err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotBillable) {
			uc.logger.Warnw("refused to bill subscription", "sid", sub.SID(), "status", sub.Status())
			return nil, apperrors.NewConflictError("cannot bill a non-active subscription", err.Error())
		}
		return nil, apperrors.NewBadRequestError("failed to process billing", err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist billing", "error", err, "sid", sub.SID())
		return nil, apperrors.NewInternalError("failed to save subscription")
	}

	publishEvent(uc.logger, uc.publisher, subscription.NewBilledEvent(sub, billingDate, previousNext, sub.NextChargeDate(), uc.clock.Now()))

	uc.logger.Infow("subscription billed",
		"sid", sub.SID(),
		"billing_date", billingDate,
		"next_charge_date", sub.NextChargeDate(),
	)

	return sub, nil
}
