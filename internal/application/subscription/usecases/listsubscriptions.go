package usecases

import (
	"context"
	"strings"

	"github.com/subledger-inc/subledger/internal/application/subscription/dto"
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	apperrors "github.com/subledger-inc/subledger/internal/shared/errors"
	"github.com/subledger-inc/subledger/internal/shared/logger"
	"github.com/subledger-inc/subledger/internal/shared/query"
)

type ListSubscriptionsCommand struct {
	Status    string
	Cadence   string
	Search    string
	DueOnly   bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type ListSubscriptionsResult struct {
	Subscriptions []*dto.SubscriptionDTO
	Total         int64
	Page          int
	PageSize      int
}

type ListSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewListSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, cmd ListSubscriptionsCommand) (*ListSubscriptionsResult, error) {
	pager := query.PageFilter{Page: cmd.Page, PageSize: cmd.PageSize}
	if pager.Page <= 0 {
		pager.Page = 1
	}
	sorting := query.SortFilter{SortBy: cmd.SortBy, SortOrder: cmd.SortOrder}

	filter := subscription.SubscriptionFilter{
		Search:   strings.TrimSpace(cmd.Search),
		Page:     pager.Page,
		PageSize: pager.Limit(),
		SortBy:   sorting.SortBy,
		SortDesc: sorting.IsDescending(),
	}

	if cmd.Status != "" {
		status, err := vo.ParseStatus(cmd.Status)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid status filter", "status")
		}
		filter.Status = &status
	}

	if cmd.Cadence != "" {
		cadence, err := vo.ParseCadence(cmd.Cadence)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid cadence filter", "cadence")
		}
		filter.Cadence = &cadence
	}

	if cmd.DueOnly {
		now := uc.clock.Now()
		filter.DueAt = &now
	}

	subs, total, err := uc.subscriptionRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, apperrors.NewInternalError("failed to list subscriptions")
	}

	return &ListSubscriptionsResult{
		Subscriptions: dto.ToSubscriptionDTOList(subs),
		Total:         total,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	}, nil
}
