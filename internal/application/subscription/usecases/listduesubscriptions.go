package usecases

import (
	"context"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

// ListDueSubscriptionsUseCase backs the due-for-billing report: every
// active subscription whose next charge date has arrived or passed.
type ListDueSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewListDueSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *ListDueSubscriptionsUseCase {
	return &ListDueSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *ListDueSubscriptionsUseCase) Execute(ctx context.Context) ([]*dto.SubscriptionDTO, error) {
	due, err := uc.subscriptionRepo.FindDue(ctx, uc.clock.Now())
	if err != nil {
		uc.logger.Errorw("failed to load due subscriptions", "error", err)
		return nil, apperrors.NewInternalError("failed to load due subscriptions")
	}

	return dto.ToSubscriptionDTOList(due), nil
}
