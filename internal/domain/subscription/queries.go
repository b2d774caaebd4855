package subscription

import (
	"sort"
	"strings"
	"time"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
)

// QueryCriteria is a conjunctive in-memory filter over a loaded collection.
// All set fields must match. Search matches customerRef or plan,
// case-insensitively.
type QueryCriteria struct {
	Status  *vo.SubscriptionStatus
	Cadence *vo.Cadence
	Search  string
	DueOnly bool
	Now     time.Time
}

// SortKey selects the comparator for SortSubscriptions.
type SortKey string

const (
	SortByNextChargeDate SortKey = "next_charge_date"
	SortByCustomerRef    SortKey = "customer_ref"
	SortByPlan           SortKey = "plan"
	SortByAmount         SortKey = "amount"
)

// FilterSubscriptions returns the subscriptions matching all criteria,
// preserving the original relative order.
func FilterSubscriptions(subscriptions []*Subscription, criteria QueryCriteria) []*Subscription {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	result := make([]*Subscription, 0, len(subscriptions))
	for _, s := range subscriptions {
		if criteria.Status != nil && s.Status() != *criteria.Status {
			continue
		}
		if criteria.Cadence != nil && s.Cadence() != *criteria.Cadence {
			continue
		}
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		if criteria.DueOnly && !s.IsDue(criteria.Now) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// SortSubscriptions returns a sorted copy. The sort is stable: ties keep
// their original relative order. When sorting by next charge date
// ascending, subscriptions without one sort after all dated ones.
func SortSubscriptions(subscriptions []*Subscription, key SortKey, ascending bool) []*Subscription {
	result := make([]*Subscription, len(subscriptions))
	copy(result, subscriptions)

	less := lessFunc(key)
	if less == nil {
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		if ascending {
			return less(result[i], result[j])
		}
		return less(result[j], result[i])
	})
	return result
}

func lessFunc(key SortKey) func(a, b *Subscription) bool {
	switch key {
	case SortByNextChargeDate:
		return func(a, b *Subscription) bool {
			an, bn := a.NextChargeDate(), b.NextChargeDate()
			if an == nil {
				return false
			}
			if bn == nil {
				return true
			}
			return an.Before(*bn)
		}
	case SortByCustomerRef:
		return func(a, b *Subscription) bool {
			return strings.ToLower(a.CustomerRef()) < strings.ToLower(b.CustomerRef())
		}
	case SortByPlan:
		return func(a, b *Subscription) bool {
			return strings.ToLower(a.Plan()) < strings.ToLower(b.Plan())
		}
	case SortByAmount:
		return func(a, b *Subscription) bool {
			return a.Amount().LessThan(b.Amount())
		}
	default:
		return nil
	}
}

func matchesSearch(s *Subscription, loweredSearch string) bool {
	return strings.Contains(strings.ToLower(s.CustomerRef()), loweredSearch) ||
		strings.Contains(strings.ToLower(s.Plan()), loweredSearch)
}
