package subscription

import (
	"context"
	"time"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filter SubscriptionFilter) ([]*Subscription, int64, error)
	FindDue(ctx context.Context, now time.Time) ([]*Subscription, error)
	FindActive(ctx context.Context) ([]*Subscription, error)

	CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error)
}

type SubscriptionFilter struct {
	Status   *vo.SubscriptionStatus
	Cadence  *vo.Cadence
	Search   string
	DueAt    *time.Time
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}
