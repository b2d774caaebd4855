package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

// CalculateMRRUseCase produces the monthly recurring revenue report over all
// active subscriptions. The total is recomputed from the store on every
// call; there is no cached running figure to drift.
type CalculateMRRUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewCalculateMRRUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *CalculateMRRUseCase {
	return &CalculateMRRUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *CalculateMRRUseCase) Execute(ctx context.Context) (*dto.MRRReportDTO, error) {
	active, err := uc.subscriptionRepo.FindActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load active subscriptions", "error", err)
		return nil, apperrors.NewInternalError("failed to load active subscriptions")
	}

	total := subscription.CalculateMRR(active)

	byCadence := make(map[string]decimal.Decimal)
	for _, sub := range active {
		key := sub.Cadence().String()
		byCadence[key] = byCadence[key].Add(sub.MonthlyAmount())
	}

	report := &dto.MRRReportDTO{
		Total:       total.StringFixed(2),
		ActiveCount: len(active),
		ByCadence:   make(map[string]string, len(byCadence)),
		GeneratedAt: uc.clock.Now(),
	}
	for cadence, amount := range byCadence {
		report.ByCadence[cadence] = amount.StringFixed(2)
	}

	return report, nil
}
