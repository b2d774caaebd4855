package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subledger-inc/subledger/internal/domain/subscription"
	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
)

var repoNow = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func storedSubscription(t *testing.T, repo *SubscriptionRepository, customerRef, plan, amount string, cadence vo.Cadence, anchor time.Time) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(customerRef, plan, decimal.RequireFromString(amount), cadence, "", anchor, repoNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), sub))
	return sub
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	repo := NewSubscriptionRepository()

	first := storedSubscription(t, repo, "a", "p", "10", vo.CadenceMonthly, repoNow)
	second := storedSubscription(t, repo, "b", "p", "10", vo.CadenceMonthly, repoNow)

	assert.Equal(t, uint(1), first.ID())
	assert.Equal(t, uint(2), second.ID())
}

func TestGetBySID(t *testing.T) {
	repo := NewSubscriptionRepository()
	sub := storedSubscription(t, repo, "a", "p", "10", vo.CadenceMonthly, repoNow)

	found, err := repo.GetBySID(context.Background(), sub.SID())
	require.NoError(t, err)
	assert.Same(t, sub, found)

	missing, err := repo.GetBySID(context.Background(), "sub_nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDelete(t *testing.T) {
	repo := NewSubscriptionRepository()
	sub := storedSubscription(t, repo, "a", "p", "10", vo.CadenceMonthly, repoNow)

	require.NoError(t, repo.Delete(context.Background(), sub.ID()))

	found, err := repo.GetByID(context.Background(), sub.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, repo.Delete(context.Background(), sub.ID()), subscription.ErrSubscriptionNotFound)
}

func TestUpdateUnknownSubscription(t *testing.T) {
	repo := NewSubscriptionRepository()
	sub, err := subscription.NewSubscription("a", "p", decimal.NewFromInt(10), vo.CadenceMonthly, "", repoNow, repoNow)
	require.NoError(t, err)
	require.NoError(t, sub.SetID(42))

	assert.ErrorIs(t, repo.Update(context.Background(), sub), subscription.ErrSubscriptionNotFound)
}

func TestList_FilterAndPaginate(t *testing.T) {
	repo := NewSubscriptionRepository()
	for i := 0; i < 5; i++ {
		storedSubscription(t, repo, "acme", "pro", "10", vo.CadenceMonthly, repoNow)
	}
	storedSubscription(t, repo, "globex", "basic", "10", vo.CadenceYearly, repoNow)

	subs, total, err := repo.List(context.Background(), subscription.SubscriptionFilter{
		Search:   "acme",
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), total, "total counts all matches, not the page")
	assert.Len(t, subs, 2)
}

func TestList_SortDescending(t *testing.T) {
	repo := NewSubscriptionRepository()
	small := storedSubscription(t, repo, "a", "p", "10", vo.CadenceMonthly, repoNow)
	big := storedSubscription(t, repo, "b", "p", "30", vo.CadenceMonthly, repoNow)

	subs, _, err := repo.List(context.Background(), subscription.SubscriptionFilter{
		SortBy:   "amount",
		SortDesc: true,
	})
	require.NoError(t, err)

	require.Len(t, subs, 2)
	assert.Equal(t, big.SID(), subs[0].SID())
	assert.Equal(t, small.SID(), subs[1].SID())
}

func TestFindDue_OnlyActiveAndSortedByNextCharge(t *testing.T) {
	repo := NewSubscriptionRepository()

	later := storedSubscription(t, repo, "later", "p", "10", vo.CadenceMonthly, repoNow.AddDate(0, 0, -20))
	earlier := storedSubscription(t, repo, "earlier", "p", "10", vo.CadenceMonthly, repoNow.AddDate(0, 0, -28))
	paused := storedSubscription(t, repo, "paused", "p", "10", vo.CadenceMonthly, repoNow.AddDate(0, 0, -28))
	require.NoError(t, paused.Pause(repoNow))
	storedSubscription(t, repo, "future", "p", "10", vo.CadenceMonthly, repoNow)

	// Mar 15: the Mar 2 and Mar 10 schedules are due, the Apr 1 one is not.
	due, err := repo.FindDue(context.Background(), repoNow.AddDate(0, 0, 14))
	require.NoError(t, err)

	require.Len(t, due, 2)
	assert.Equal(t, earlier.SID(), due[0].SID())
	assert.Equal(t, later.SID(), due[1].SID())
}

func TestFindActiveAndCountByStatus(t *testing.T) {
	repo := NewSubscriptionRepository()

	storedSubscription(t, repo, "a", "p", "10", vo.CadenceMonthly, repoNow)
	storedSubscription(t, repo, "b", "p", "10", vo.CadenceMonthly, repoNow)
	cancelled := storedSubscription(t, repo, "c", "p", "10", vo.CadenceMonthly, repoNow)
	require.NoError(t, cancelled.Cancel("", repoNow))

	active, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)

	activeCount, err := repo.CountByStatus(context.Background(), vo.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(2), activeCount)

	cancelledCount, err := repo.CountByStatus(context.Background(), vo.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelledCount)
}
