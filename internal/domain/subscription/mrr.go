package subscription

import (
	"github.com/shopspring/decimal"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
)

// CalculateMRR sums the monthly-normalized amounts of all active
// subscriptions. Paused and cancelled subscriptions contribute nothing.
// Recomputed on every call; there is no incremental cache.
func CalculateMRR(subscriptions []*Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subscriptions {
		if s.Status() != vo.StatusActive {
			continue
		}
		total = total.Add(s.MonthlyAmount())
	}
	return total
}
