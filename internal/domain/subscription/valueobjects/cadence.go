package valueobjects

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cadence is the recurrence interval of a subscription's charge.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
)

var ValidCadences = map[Cadence]bool{
	CadenceWeekly:    true,
	CadenceMonthly:   true,
	CadenceQuarterly: true,
	CadenceYearly:    true,
}

// weeksPerMonth is the average-weeks-per-month approximation used to
// normalize weekly amounts to a monthly equivalent. The exact constant
// matters for numeric compatibility; do not "fix" it to 52/12.
var weeksPerMonth = decimal.NewFromFloat(4.33)

var (
	three  = decimal.NewFromInt(3)
	twelve = decimal.NewFromInt(12)
)

// ParseCadence normalizes and validates a cadence string.
func ParseCadence(value string) (Cadence, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", fmt.Errorf("cadence cannot be empty")
	}

	cadence := Cadence(normalized)
	if !ValidCadences[cadence] {
		return "", fmt.Errorf("invalid cadence: %s", value)
	}

	return cadence, nil
}

func (c Cadence) String() string {
	return string(c)
}

func (c Cadence) IsValid() bool {
	return ValidCadences[c]
}

// Label returns a human-readable label for invoices and reports.
func (c Cadence) Label() string {
	switch c {
	case CadenceWeekly:
		return "Weekly"
	case CadenceMonthly:
		return "Monthly"
	case CadenceQuarterly:
		return "Quarterly"
	case CadenceYearly:
		return "Yearly"
	default:
		return string(c)
	}
}

// NextChargeDate returns the next charge date after from. Month and year
// additions clamp to the last valid day of the target month, so a Jan 31
// anchor bills on Feb 28 (or Feb 29 in leap years) instead of rolling
// into March.
func (c Cadence) NextChargeDate(from time.Time) time.Time {
	switch c {
	case CadenceWeekly:
		return from.AddDate(0, 0, 7)
	case CadenceMonthly:
		return addMonthsClamped(from, 1)
	case CadenceQuarterly:
		return addMonthsClamped(from, 3)
	case CadenceYearly:
		return addMonthsClamped(from, 12)
	default:
		return time.Time{}
	}
}

// MonthlyAmount normalizes a per-cycle amount to its monthly equivalent.
func (c Cadence) MonthlyAmount(amount decimal.Decimal) decimal.Decimal {
	switch c {
	case CadenceWeekly:
		return amount.Mul(weeksPerMonth)
	case CadenceMonthly:
		return amount
	case CadenceQuarterly:
		return amount.DivRound(three, 8)
	case CadenceYearly:
		return amount.DivRound(twelve, 8)
	default:
		return decimal.Zero
	}
}

func (c Cadence) Equals(other Cadence) bool {
	return c == other
}

func (c Cadence) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *Cadence) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	cadence, err := ParseCadence(str)
	if err != nil {
		return err
	}

	*c = cadence
	return nil
}

// addMonthsClamped adds months to t, clamping the day-of-month to the last
// valid day of the target month instead of letting time.AddDate roll over.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	target := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	// Day 0 of the following month is the last day of the target month.
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(target.Year(), target.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}
