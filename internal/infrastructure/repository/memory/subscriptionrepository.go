// Package memory provides an in-memory SubscriptionRepository. It backs the
// application tests and small single-process deployments that do not want a
// database; filtering and sorting reuse the domain query helpers so both
// stores behave identically.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/subledger-inc/subledger/internal/domain/subscription"
	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
	"github.com/subledger-inc/subledger/internal/shared/query"
)

type SubscriptionRepository struct {
	mu     sync.RWMutex
	byID   map[uint]*subscription.Subscription
	order  []uint
	nextID uint
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{
		byID:   make(map[uint]*subscription.Subscription),
		nextID: 1,
	}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub.ID() == 0 {
		if err := sub.SetID(r.nextID); err != nil {
			return err
		}
	}
	if sub.ID() >= r.nextID {
		r.nextID = sub.ID() + 1
	}

	r.byID[sub.ID()] = sub
	r.order = append(r.order, sub.ID())
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id], nil
}

func (r *SubscriptionRepository) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if sub := r.byID[id]; sub != nil && sub.SID() == sid {
			return sub, nil
		}
	}
	return nil, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[sub.ID()]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	r.byID[sub.ID()] = sub
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *SubscriptionRepository) List(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	r.mu.RLock()
	all := r.snapshot()
	r.mu.RUnlock()

	criteria := subscription.QueryCriteria{
		Status:  filter.Status,
		Cadence: filter.Cadence,
		Search:  filter.Search,
	}
	if filter.DueAt != nil {
		criteria.DueOnly = true
		criteria.Now = *filter.DueAt
	}

	matched := subscription.FilterSubscriptions(all, criteria)
	total := int64(len(matched))

	if filter.SortBy != "" {
		matched = subscription.SortSubscriptions(matched, subscription.SortKey(filter.SortBy), !filter.SortDesc)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		pager := query.PageFilter{Page: filter.Page, PageSize: filter.PageSize}
		start := pager.Offset()
		if start >= len(matched) {
			return []*subscription.Subscription{}, total, nil
		}
		end := start + pager.Limit()
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}

func (r *SubscriptionRepository) FindDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	r.mu.RLock()
	all := r.snapshot()
	r.mu.RUnlock()

	due := subscription.FilterSubscriptions(all, subscription.QueryCriteria{DueOnly: true, Now: now})
	return subscription.SortSubscriptions(due, subscription.SortByNextChargeDate, true), nil
}

func (r *SubscriptionRepository) FindActive(ctx context.Context) ([]*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := vo.StatusActive
	return subscription.FilterSubscriptions(r.snapshot(), subscription.QueryCriteria{Status: &active}), nil
}

func (r *SubscriptionRepository) CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, sub := range r.byID {
		if sub.Status() == status {
			count++
		}
	}
	return count, nil
}

// snapshot returns subscriptions in insertion order. Callers must hold at
// least a read lock.
func (r *SubscriptionRepository) snapshot() []*subscription.Subscription {
	result := make([]*subscription.Subscription, 0, len(r.order))
	for _, id := range r.order {
		if sub := r.byID[id]; sub != nil {
			result = append(result, sub)
		}
	}
	return result
}
