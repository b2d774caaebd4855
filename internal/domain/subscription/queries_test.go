package subscription

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
)

func querySubscription(t *testing.T, customerRef, plan, amount string, cadence vo.Cadence) *Subscription {
	t.Helper()
	sub, err := NewSubscription(customerRef, plan, decimal.RequireFromString(amount), cadence, "", testNow, testNow)
	require.NoError(t, err)
	return sub
}

func sids(subs []*Subscription) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.SID()
	}
	return out
}

func TestFilterSubscriptions_Conjunctive(t *testing.T) {
	acmeMonthly := querySubscription(t, "acme", "pro", "50", vo.CadenceMonthly)
	acmeYearly := querySubscription(t, "acme", "pro", "500", vo.CadenceYearly)
	globexMonthly := querySubscription(t, "globex", "basic", "20", vo.CadenceMonthly)

	subs := []*Subscription{acmeMonthly, acmeYearly, globexMonthly}

	monthly := vo.CadenceMonthly
	result := FilterSubscriptions(subs, QueryCriteria{Search: "acme", Cadence: &monthly})

	require.Len(t, result, 1)
	assert.Same(t, acmeMonthly, result[0])
}

func TestFilterSubscriptions_ByStatus(t *testing.T) {
	active := querySubscription(t, "acme", "pro", "50", vo.CadenceMonthly)
	paused := querySubscription(t, "globex", "pro", "50", vo.CadenceMonthly)
	require.NoError(t, paused.Pause(testNow))

	statusPaused := vo.StatusPaused
	result := FilterSubscriptions([]*Subscription{active, paused}, QueryCriteria{Status: &statusPaused})

	require.Len(t, result, 1)
	assert.Same(t, paused, result[0])
}

func TestFilterSubscriptions_SearchIsCaseInsensitive(t *testing.T) {
	sub := querySubscription(t, "Acme Corp", "Enterprise", "50", vo.CadenceMonthly)

	assert.Len(t, FilterSubscriptions([]*Subscription{sub}, QueryCriteria{Search: "ACME"}), 1)
	assert.Len(t, FilterSubscriptions([]*Subscription{sub}, QueryCriteria{Search: "enterprise"}), 1)
	assert.Len(t, FilterSubscriptions([]*Subscription{sub}, QueryCriteria{Search: "initech"}), 0)
}

func TestFilterSubscriptions_DueOnly(t *testing.T) {
	due := querySubscription(t, "acme", "pro", "50", vo.CadenceMonthly)
	notDue := querySubscription(t, "globex", "pro", "50", vo.CadenceYearly)

	now := due.NextChargeDate().Add(time.Hour)
	result := FilterSubscriptions([]*Subscription{due, notDue}, QueryCriteria{DueOnly: true, Now: now})

	require.Len(t, result, 1)
	assert.Same(t, due, result[0])
}

func TestFilterSubscriptions_PreservesOrder(t *testing.T) {
	a := querySubscription(t, "acme", "pro", "10", vo.CadenceMonthly)
	b := querySubscription(t, "acme", "pro", "20", vo.CadenceMonthly)
	c := querySubscription(t, "acme", "pro", "30", vo.CadenceMonthly)

	result := FilterSubscriptions([]*Subscription{c, a, b}, QueryCriteria{Search: "acme"})
	assert.Equal(t, sids([]*Subscription{c, a, b}), sids(result))
}

func TestSortSubscriptions_ByAmount(t *testing.T) {
	small := querySubscription(t, "a", "p", "10", vo.CadenceMonthly)
	mid := querySubscription(t, "b", "p", "20", vo.CadenceMonthly)
	big := querySubscription(t, "c", "p", "30", vo.CadenceMonthly)

	asc := SortSubscriptions([]*Subscription{big, small, mid}, SortByAmount, true)
	assert.Equal(t, sids([]*Subscription{small, mid, big}), sids(asc))

	desc := SortSubscriptions([]*Subscription{big, small, mid}, SortByAmount, false)
	assert.Equal(t, sids([]*Subscription{big, mid, small}), sids(desc))
}

func TestSortSubscriptions_ByCustomerRefCaseInsensitive(t *testing.T) {
	upper := querySubscription(t, "Beta", "p", "10", vo.CadenceMonthly)
	lower := querySubscription(t, "alpha", "p", "10", vo.CadenceMonthly)

	result := SortSubscriptions([]*Subscription{upper, lower}, SortByCustomerRef, true)
	assert.Equal(t, sids([]*Subscription{lower, upper}), sids(result))
}

func TestSortSubscriptions_IsStable(t *testing.T) {
	first := querySubscription(t, "acme", "p", "10", vo.CadenceMonthly)
	second := querySubscription(t, "acme", "p", "10", vo.CadenceMonthly)
	third := querySubscription(t, "acme", "p", "10", vo.CadenceMonthly)

	result := SortSubscriptions([]*Subscription{first, second, third}, SortByAmount, true)
	assert.Equal(t, sids([]*Subscription{first, second, third}), sids(result))
}

func TestSortSubscriptions_NilNextChargeDatesSortLast(t *testing.T) {
	dated := querySubscription(t, "a", "p", "10", vo.CadenceMonthly)
	undated := querySubscription(t, "b", "p", "10", vo.CadenceMonthly)
	require.NoError(t, undated.Cancel("", testNow))
	// Simulate a subscription with no scheduled charge through reconstruction.
	reconstructed, err := Reconstruct(ReconstructParams{
		ID:          1,
		SID:         undated.SID(),
		CustomerRef: "b",
		Plan:        "p",
		Amount:      decimal.NewFromInt(10),
		Cadence:     vo.CadenceMonthly,
		Status:      vo.StatusCancelled,
		AnchorDate:  testNow,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	})
	require.NoError(t, err)
	require.Nil(t, reconstructed.NextChargeDate())

	result := SortSubscriptions([]*Subscription{reconstructed, dated}, SortByNextChargeDate, true)
	assert.Equal(t, sids([]*Subscription{dated, reconstructed}), sids(result))
}

func TestSortSubscriptions_DoesNotMutateInput(t *testing.T) {
	small := querySubscription(t, "a", "p", "10", vo.CadenceMonthly)
	big := querySubscription(t, "b", "p", "30", vo.CadenceMonthly)

	input := []*Subscription{big, small}
	_ = SortSubscriptions(input, SortByAmount, true)

	assert.Equal(t, sids([]*Subscription{big, small}), sids(input))
}

func TestSortSubscriptions_UnknownKeyReturnsCopy(t *testing.T) {
	a := querySubscription(t, "a", "p", "10", vo.CadenceMonthly)
	b := querySubscription(t, "b", "p", "20", vo.CadenceMonthly)

	result := SortSubscriptions([]*Subscription{b, a}, SortKey("bogus"), true)
	assert.Equal(t, sids([]*Subscription{b, a}), sids(result))
}
