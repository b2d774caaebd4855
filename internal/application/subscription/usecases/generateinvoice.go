package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/id"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

type GenerateInvoiceCommand struct {
	SID         string
	BillingDate *time.Time // Defaults to the current time
}

// GenerateInvoiceUseCase builds a draft invoice for one billing period.
// Nothing is persisted and no billing state changes; the draft is handed
// back for the caller's invoicing system to consume.
type GenerateInvoiceUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewGenerateInvoiceUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *GenerateInvoiceUseCase {
	return &GenerateInvoiceUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *GenerateInvoiceUseCase) Execute(ctx context.Context, cmd GenerateInvoiceCommand) (*dto.InvoiceDraftDTO, error) {
	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}

	if !sub.Status().CanBill() {
		return nil, apperrors.NewConflictError("cannot draft an invoice for a non-active subscription")
	}

	now := uc.clock.Now()
	periodStart := now
	if cmd.BillingDate != nil {
		periodStart = *cmd.BillingDate
	}
	periodEnd := sub.Cadence().NextChargeDate(periodStart)

	draft := &dto.InvoiceDraftDTO{
		InvoiceID:      id.NewInvoiceID(),
		SubscriptionID: sub.SID(),
		CustomerRef:    sub.CustomerRef(),
		Plan:           sub.Plan(),
		Amount:         sub.Amount().StringFixed(2),
		Cadence:        sub.Cadence().String(),
		CadenceLabel:   sub.Cadence().Label(),
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		Description: fmt.Sprintf("%s (%s) %s to %s",
			sub.Plan(),
			sub.Cadence().Label(),
			biztime.FormatDate(periodStart),
			biztime.FormatDate(periodEnd),
		),
		GeneratedAt: now,
	}

	return draft, nil
}
