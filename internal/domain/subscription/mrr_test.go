package subscription

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
)

func mrrSubscription(t *testing.T, amount string, cadence vo.Cadence) *Subscription {
	t.Helper()
	sub, err := NewSubscription("cust-mrr", "plan", decimal.RequireFromString(amount), cadence, "", testNow, testNow)
	require.NoError(t, err)
	return sub
}

func TestCalculateMRR_Empty(t *testing.T) {
	assert.True(t, CalculateMRR(nil).IsZero())
	assert.True(t, CalculateMRR([]*Subscription{}).IsZero())
}

func TestCalculateMRR_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		cadence  vo.Cadence
		expected string
	}{
		{"monthly passes through", "100", vo.CadenceMonthly, "100"},
		{"yearly divides by 12", "1200", vo.CadenceYearly, "100"},
		{"quarterly divides by 3", "300", vo.CadenceQuarterly, "100"},
		{"weekly multiplies by 4.33", "10", vo.CadenceWeekly, "43.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := CalculateMRR([]*Subscription{mrrSubscription(t, tt.amount, tt.cadence)})
			assert.True(t, total.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, total)
		})
	}
}

func TestCalculateMRR_SumsAcrossCadences(t *testing.T) {
	subs := []*Subscription{
		mrrSubscription(t, "100", vo.CadenceMonthly),
		mrrSubscription(t, "1200", vo.CadenceYearly),
		mrrSubscription(t, "10", vo.CadenceWeekly),
	}

	total := CalculateMRR(subs)
	assert.True(t, total.Equal(decimal.RequireFromString("243.3")),
		"expected 243.3, got %s", total)
}

func TestCalculateMRR_IgnoresPausedAndCancelled(t *testing.T) {
	active := mrrSubscription(t, "100", vo.CadenceMonthly)

	paused := mrrSubscription(t, "500", vo.CadenceMonthly)
	require.NoError(t, paused.Pause(testNow))

	cancelled := mrrSubscription(t, "900", vo.CadenceMonthly)
	require.NoError(t, cancelled.Cancel("", testNow))

	total := CalculateMRR([]*Subscription{active, paused, cancelled})
	assert.True(t, total.Equal(decimal.NewFromInt(100)),
		"expected 100, got %s", total)
}
