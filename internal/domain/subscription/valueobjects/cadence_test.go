package valueobjects

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCadence(t *testing.T) {
	tests := []struct {
		input    string
		expected Cadence
		wantErr  bool
	}{
		{"weekly", CadenceWeekly, false},
		{"monthly", CadenceMonthly, false},
		{"quarterly", CadenceQuarterly, false},
		{"yearly", CadenceYearly, false},
		{"  Monthly  ", CadenceMonthly, false},
		{"YEARLY", CadenceYearly, false},
		{"", "", true},
		{"daily", "", true},
		{"biweekly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cadence, err := ParseCadence(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cadence)
		})
	}
}

func TestCadence_NextChargeDate_Weekly(t *testing.T) {
	next := CadenceWeekly.NextChargeDate(date(2024, time.March, 1))
	assert.Equal(t, date(2024, time.March, 8), next)
}

func TestCadence_NextChargeDate_MonthlySimple(t *testing.T) {
	next := CadenceMonthly.NextChargeDate(date(2024, time.January, 15))
	assert.Equal(t, date(2024, time.February, 15), next)
}

func TestCadence_NextChargeDate_MonthEndClamping(t *testing.T) {
	tests := []struct {
		name     string
		cadence  Cadence
		from     time.Time
		expected time.Time
	}{
		{"jan 31 clamps to feb 29 in leap year", CadenceMonthly, date(2024, time.January, 31), date(2024, time.February, 29)},
		{"jan 31 clamps to feb 28 otherwise", CadenceMonthly, date(2023, time.January, 31), date(2023, time.February, 28)},
		{"mar 31 clamps to apr 30", CadenceMonthly, date(2024, time.March, 31), date(2024, time.April, 30)},
		{"may 31 clamps to jun 30", CadenceMonthly, date(2024, time.May, 31), date(2024, time.June, 30)},
		{"quarterly nov 30 to feb 28", CadenceQuarterly, date(2023, time.November, 30), date(2024, time.February, 28)},
		{"quarterly jan 31 to apr 30", CadenceQuarterly, date(2024, time.January, 31), date(2024, time.April, 30)},
		{"yearly feb 29 clamps to feb 28", CadenceYearly, date(2024, time.February, 29), date(2025, time.February, 28)},
		{"yearly plain date", CadenceYearly, date(2024, time.June, 15), date(2025, time.June, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cadence.NextChargeDate(tt.from))
		})
	}
}

func TestCadence_NextChargeDate_AlwaysAdvances(t *testing.T) {
	froms := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.December, 31),
	}

	for _, cadence := range []Cadence{CadenceWeekly, CadenceMonthly, CadenceQuarterly, CadenceYearly} {
		for _, from := range froms {
			next := cadence.NextChargeDate(from)
			assert.True(t, next.After(from),
				"%s from %s produced %s, not strictly later", cadence, from, next)
		}
	}
}

func TestCadence_NextChargeDate_PreservesTimeOfDay(t *testing.T) {
	from := time.Date(2024, time.January, 31, 9, 30, 15, 0, time.UTC)
	next := CadenceMonthly.NextChargeDate(from)

	assert.Equal(t, time.Date(2024, time.February, 29, 9, 30, 15, 0, time.UTC), next)
}

func TestCadence_MonthlyAmount(t *testing.T) {
	tests := []struct {
		name     string
		cadence  Cadence
		amount   string
		expected string
	}{
		{"weekly multiplies by 4.33", CadenceWeekly, "10", "43.3"},
		{"weekly fractional", CadenceWeekly, "9.99", "43.2567"},
		{"monthly unchanged", CadenceMonthly, "100", "100"},
		{"quarterly divides by 3", CadenceQuarterly, "300", "100"},
		{"quarterly rounds to 8 places", CadenceQuarterly, "100", "33.33333333"},
		{"yearly divides by 12", CadenceYearly, "1200", "100"},
		{"yearly rounds to 8 places", CadenceYearly, "100", "8.33333333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)

			got := tt.cadence.MonthlyAmount(amount)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCadence_Label(t *testing.T) {
	assert.Equal(t, "Weekly", CadenceWeekly.Label())
	assert.Equal(t, "Monthly", CadenceMonthly.Label())
	assert.Equal(t, "Quarterly", CadenceQuarterly.Label())
	assert.Equal(t, "Yearly", CadenceYearly.Label())
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusPaused))
	assert.True(t, StatusActive.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusPaused.CanTransitionTo(StatusActive))
	assert.True(t, StatusPaused.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusActive.CanTransitionTo(StatusActive))
	assert.False(t, StatusPaused.CanTransitionTo(StatusPaused))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPaused))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCancelled))
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.False(t, StatusPaused.IsTerminal())

	assert.True(t, StatusActive.CanBill())
	assert.False(t, StatusPaused.CanBill())
	assert.False(t, StatusCancelled.CanBill())
}
