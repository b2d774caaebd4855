package subscription

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
)

var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// --- helpers ---

func newTestSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub, err := NewSubscription("cust-001", "pro", decimal.NewFromInt(50), vo.CadenceMonthly, "", testNow, testNow)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

func newPausedSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub := newTestSubscription(t)
	require.NoError(t, sub.Pause(testNow))
	return sub
}

func newCancelledSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub := newTestSubscription(t)
	require.NoError(t, sub.Cancel("", testNow))
	return sub
}

// =====================================================================
// TestNewSubscription_*
// =====================================================================

func TestNewSubscription_Defaults(t *testing.T) {
	sub := newTestSubscription(t)

	assert.NotEmpty(t, sub.SID())
	assert.NotEmpty(t, sub.UUID())
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.True(t, sub.AutoRenew())
	assert.Equal(t, 1, sub.Version())
	assert.Nil(t, sub.LastChargeDate())
	assert.Nil(t, sub.CancelledAt())
	assert.NotNil(t, sub.Metadata())
}

func TestNewSubscription_SeedsNextChargeFromAnchor(t *testing.T) {
	anchor := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	sub, err := NewSubscription("cust-001", "pro", decimal.NewFromInt(50), vo.CadenceMonthly, "", anchor, testNow)
	require.NoError(t, err)

	require.NotNil(t, sub.NextChargeDate())
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), *sub.NextChargeDate())
}

func TestNewSubscription_EmptyCadenceDefaultsToMonthly(t *testing.T) {
	sub, err := NewSubscription("cust-001", "pro", decimal.NewFromInt(50), "", "", testNow, testNow)
	require.NoError(t, err)
	assert.Equal(t, vo.CadenceMonthly, sub.Cadence())
}

func TestNewSubscription_ZeroAnchorDefaultsToNow(t *testing.T) {
	sub, err := NewSubscription("cust-001", "pro", decimal.NewFromInt(50), vo.CadenceMonthly, "", time.Time{}, testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow, sub.AnchorDate())
}

func TestNewSubscription_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		customerRef string
		plan        string
		amount      decimal.Decimal
		cadence     vo.Cadence
	}{
		{"missing customer ref", "", "pro", decimal.NewFromInt(50), vo.CadenceMonthly},
		{"missing plan", "cust-001", "", decimal.NewFromInt(50), vo.CadenceMonthly},
		{"zero amount", "cust-001", "pro", decimal.Zero, vo.CadenceMonthly},
		{"negative amount", "cust-001", "pro", decimal.NewFromInt(-10), vo.CadenceMonthly},
		{"invalid cadence", "cust-001", "pro", decimal.NewFromInt(50), "daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := NewSubscription(tt.customerRef, tt.plan, tt.amount, tt.cadence, "", testNow, testNow)
			assert.Error(t, err)
			assert.Nil(t, sub)
		})
	}
}

// =====================================================================
// TestSubscription_Transitions
// =====================================================================

func TestSubscription_PauseAndResume(t *testing.T) {
	sub := newTestSubscription(t)
	next := *sub.NextChargeDate()

	require.NoError(t, sub.Pause(testNow))
	assert.Equal(t, vo.StatusPaused, sub.Status())
	assert.Equal(t, next, *sub.NextChargeDate(), "pause must not touch the schedule")

	require.NoError(t, sub.Resume(testNow))
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, next, *sub.NextChargeDate())
}

func TestSubscription_Cancel(t *testing.T) {
	sub := newTestSubscription(t)

	err := sub.Cancel("too expensive", testNow)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusCancelled, sub.Status())
	assert.False(t, sub.AutoRenew(), "cancel must disable auto-renew")
	require.NotNil(t, sub.CancelledAt())
	assert.Equal(t, testNow, *sub.CancelledAt())
	require.NotNil(t, sub.CancelReason())
	assert.Equal(t, "too expensive", *sub.CancelReason())
}

func TestSubscription_CancelWithoutReason(t *testing.T) {
	sub := newCancelledSubscription(t)
	assert.Nil(t, sub.CancelReason())
}

func TestSubscription_CancelFromPaused(t *testing.T) {
	sub := newPausedSubscription(t)
	require.NoError(t, sub.Cancel("", testNow))
	assert.Equal(t, vo.StatusCancelled, sub.Status())
}

func TestSubscription_RejectedTransitionsLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name string
		sub  func(t *testing.T) *Subscription
		op   func(s *Subscription) error
	}{
		{"pause a paused subscription", newPausedSubscription, func(s *Subscription) error { return s.Pause(testNow) }},
		{"pause a cancelled subscription", newCancelledSubscription, func(s *Subscription) error { return s.Pause(testNow) }},
		{"resume an active subscription", newTestSubscription, func(s *Subscription) error { return s.Resume(testNow) }},
		{"resume a cancelled subscription", newCancelledSubscription, func(s *Subscription) error { return s.Resume(testNow) }},
		{"cancel a cancelled subscription", newCancelledSubscription, func(s *Subscription) error { return s.Cancel("again", testNow) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub(t)
			statusBefore := sub.Status()
			versionBefore := sub.Version()
			updatedBefore := sub.UpdatedAt()

			err := tt.op(sub)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			assert.Equal(t, statusBefore, sub.Status())
			assert.Equal(t, versionBefore, sub.Version())
			assert.Equal(t, updatedBefore, sub.UpdatedAt())
		})
	}
}

// =====================================================================
// TestSubscription_MarkBilled
// =====================================================================

func TestSubscription_MarkBilled(t *testing.T) {
	sub := newTestSubscription(t)
	billingDate := time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, sub.MarkBilled(billingDate))

	require.NotNil(t, sub.LastChargeDate())
	assert.Equal(t, billingDate, *sub.LastChargeDate())
	require.NotNil(t, sub.NextChargeDate())
	assert.Equal(t, time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC), *sub.NextChargeDate())
}

func TestSubscription_MarkBilledAdvancesFromBillingDateNotSchedule(t *testing.T) {
	sub := newTestSubscription(t)
	// Billed late: the next charge advances from the actual billing date.
	billingDate := time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)

	require.NoError(t, sub.MarkBilled(billingDate))
	assert.Equal(t, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC), *sub.NextChargeDate())
}

func TestSubscription_MarkBilledRejectsNonActive(t *testing.T) {
	for _, sub := range []*Subscription{newPausedSubscription(t), newCancelledSubscription(t)} {
		next := sub.NextChargeDate()
		err := sub.MarkBilled(testNow)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSubscriptionNotBillable)
		assert.Equal(t, next, sub.NextChargeDate())
		assert.Nil(t, sub.LastChargeDate())
	}
}

// =====================================================================
// TestSubscription_IsDue
// =====================================================================

func TestSubscription_IsDue(t *testing.T) {
	sub := newTestSubscription(t)
	next := *sub.NextChargeDate()

	assert.False(t, sub.IsDue(next.Add(-time.Second)), "not due before next charge date")
	assert.True(t, sub.IsDue(next), "due exactly at next charge date")
	assert.True(t, sub.IsDue(next.Add(24*time.Hour)), "due after next charge date")
}

func TestSubscription_IsDueRequiresActive(t *testing.T) {
	paused := newPausedSubscription(t)
	assert.False(t, paused.IsDue(paused.NextChargeDate().Add(time.Hour)))

	cancelled := newCancelledSubscription(t)
	assert.False(t, cancelled.IsDue(cancelled.NextChargeDate().Add(time.Hour)))
}

// =====================================================================
// TestSubscription_UpdateDetails
// =====================================================================

func TestSubscription_UpdateDetails(t *testing.T) {
	sub := newTestSubscription(t)

	err := sub.UpdateDetails("cust-002", "enterprise", decimal.NewFromInt(200), vo.CadenceMonthly, "upgraded", false, testNow.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "cust-002", sub.CustomerRef())
	assert.Equal(t, "enterprise", sub.Plan())
	assert.True(t, sub.Amount().Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "upgraded", sub.Notes())
	assert.False(t, sub.AutoRenew())
}

func TestSubscription_UpdateDetailsCadenceChangeReschedules(t *testing.T) {
	sub := newTestSubscription(t)

	err := sub.UpdateDetails(sub.CustomerRef(), sub.Plan(), sub.Amount(), vo.CadenceYearly, "", true, testNow)
	require.NoError(t, err)

	// Never billed, so the new schedule derives from the anchor date.
	require.NotNil(t, sub.NextChargeDate())
	assert.Equal(t, vo.CadenceYearly.NextChargeDate(sub.AnchorDate()), *sub.NextChargeDate())
}

func TestSubscription_UpdateDetailsCadenceChangeAfterBilling(t *testing.T) {
	sub := newTestSubscription(t)
	billingDate := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sub.MarkBilled(billingDate))

	err := sub.UpdateDetails(sub.CustomerRef(), sub.Plan(), sub.Amount(), vo.CadenceQuarterly, "", true, billingDate)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), *sub.NextChargeDate())
}

func TestSubscription_UpdateDetailsSameCadenceKeepsSchedule(t *testing.T) {
	sub := newTestSubscription(t)
	next := *sub.NextChargeDate()

	err := sub.UpdateDetails(sub.CustomerRef(), sub.Plan(), decimal.NewFromInt(75), vo.CadenceMonthly, "", true, testNow)
	require.NoError(t, err)

	assert.Equal(t, next, *sub.NextChargeDate())
}

func TestSubscription_UpdateDetailsRejectsAutoRenewOnCancelled(t *testing.T) {
	sub := newCancelledSubscription(t)

	err := sub.UpdateDetails(sub.CustomerRef(), sub.Plan(), sub.Amount(), sub.Cadence(), "", true, testNow)
	assert.Error(t, err)
}

// =====================================================================
// TestSubscription_Versioning
// =====================================================================

func TestSubscription_TouchBumpsVersion(t *testing.T) {
	sub := newTestSubscription(t)
	assert.Equal(t, 1, sub.Version())

	require.NoError(t, sub.Pause(testNow))
	assert.Equal(t, 2, sub.Version())

	require.NoError(t, sub.Resume(testNow))
	assert.Equal(t, 3, sub.Version())
}

func TestSubscription_UpdatedAtNeverGoesBackwards(t *testing.T) {
	sub := newTestSubscription(t)
	updated := sub.UpdatedAt()

	require.NoError(t, sub.Pause(testNow.Add(-time.Hour)))

	assert.Equal(t, updated, sub.UpdatedAt())
	assert.Equal(t, 2, sub.Version(), "version still bumps on a backdated mutation")
}

// =====================================================================
// TestReconstruct
// =====================================================================

func TestReconstruct(t *testing.T) {
	next := testNow.AddDate(0, 1, 0)
	sub, err := Reconstruct(ReconstructParams{
		ID:             7,
		SID:            "sub_abc12345",
		UUID:           "00000000-0000-0000-0000-000000000001",
		CustomerRef:    "cust-001",
		Plan:           "pro",
		Amount:         decimal.NewFromInt(50),
		Cadence:        vo.CadenceMonthly,
		AnchorDate:     testNow,
		NextChargeDate: &next,
		Status:         vo.StatusActive,
		AutoRenew:      true,
		Version:        3,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), sub.ID())
	assert.Equal(t, "sub_abc12345", sub.SID())
	assert.Equal(t, 3, sub.Version())
	assert.NotNil(t, sub.Metadata(), "nil metadata is normalized to an empty map")
}

func TestReconstruct_Invalid(t *testing.T) {
	valid := ReconstructParams{
		ID:          7,
		SID:         "sub_abc12345",
		CustomerRef: "cust-001",
		Plan:        "pro",
		Amount:      decimal.NewFromInt(50),
		Cadence:     vo.CadenceMonthly,
		Status:      vo.StatusActive,
	}

	zeroID := valid
	zeroID.ID = 0
	_, err := Reconstruct(zeroID)
	assert.Error(t, err)

	badStatus := valid
	badStatus.Status = "unknown"
	_, err = Reconstruct(badStatus)
	assert.Error(t, err)

	badCadence := valid
	badCadence.Cadence = "daily"
	_, err = Reconstruct(badCadence)
	assert.Error(t, err)
}
