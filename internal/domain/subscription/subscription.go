package subscription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
	"github.com/subledger-inc/subledger/internal/shared/id"
)

// Subscription is the recurring-charge aggregate root. All mutations go
// through the methods below; nextChargeDate is only ever derived from the
// cadence calculator, never assigned directly by callers.
type Subscription struct {
	id             uint
	sid            string
	uuid           string
	customerRef    string
	plan           string
	amount         decimal.Decimal
	cadence        vo.Cadence
	anchorDate     time.Time
	lastChargeDate *time.Time
	nextChargeDate *time.Time
	status         vo.SubscriptionStatus
	autoRenew      bool
	notes          string
	cancelledAt    *time.Time
	cancelReason   *string
	metadata       map[string]interface{}
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSubscription creates a new subscription. Defaults: status active,
// autoRenew true, cadence monthly when empty. The first nextChargeDate is
// seeded from the anchor date.
func NewSubscription(customerRef, plan string, amount decimal.Decimal, cadence vo.Cadence, notes string, anchorDate, now time.Time) (*Subscription, error) {
	if customerRef == "" {
		return nil, fmt.Errorf("customer reference is required")
	}
	if plan == "" {
		return nil, fmt.Errorf("plan is required")
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if cadence == "" {
		cadence = vo.CadenceMonthly
	}
	if !cadence.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCadence, cadence)
	}
	if anchorDate.IsZero() {
		anchorDate = now
	}

	next := cadence.NextChargeDate(anchorDate)

	s := &Subscription{
		sid:            id.NewSubscriptionID(),
		uuid:           uuid.NewString(),
		customerRef:    customerRef,
		plan:           plan,
		amount:         amount,
		cadence:        cadence,
		anchorDate:     anchorDate,
		nextChargeDate: &next,
		status:         vo.StatusActive,
		autoRenew:      true,
		notes:          notes,
		metadata:       make(map[string]interface{}),
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}

	return s, nil
}

// ReconstructParams carries all persisted fields for rebuilding an aggregate.
type ReconstructParams struct {
	ID             uint
	SID            string
	UUID           string
	CustomerRef    string
	Plan           string
	Amount         decimal.Decimal
	Cadence        vo.Cadence
	AnchorDate     time.Time
	LastChargeDate *time.Time
	NextChargeDate *time.Time
	Status         vo.SubscriptionStatus
	AutoRenew      bool
	Notes          string
	CancelledAt    *time.Time
	CancelReason   *string
	Metadata       map[string]interface{}
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reconstruct rebuilds a subscription from persistence.
func Reconstruct(p ReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.CustomerRef == "" {
		return nil, fmt.Errorf("customer reference is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if !p.Cadence.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCadence, p.Cadence)
	}

	if p.Metadata == nil {
		p.Metadata = make(map[string]interface{})
	}

	return &Subscription{
		id:             p.ID,
		sid:            p.SID,
		uuid:           p.UUID,
		customerRef:    p.CustomerRef,
		plan:           p.Plan,
		amount:         p.Amount,
		cadence:        p.Cadence,
		anchorDate:     p.AnchorDate,
		lastChargeDate: p.LastChargeDate,
		nextChargeDate: p.NextChargeDate,
		status:         p.Status,
		autoRenew:      p.AutoRenew,
		notes:          p.Notes,
		cancelledAt:    p.CancelledAt,
		cancelReason:   p.CancelReason,
		metadata:       p.Metadata,
		version:        p.Version,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                    { return s.id }
func (s *Subscription) SID() string                 { return s.sid }
func (s *Subscription) UUID() string                { return s.uuid }
func (s *Subscription) CustomerRef() string         { return s.customerRef }
func (s *Subscription) Plan() string                { return s.plan }
func (s *Subscription) Amount() decimal.Decimal     { return s.amount }
func (s *Subscription) Cadence() vo.Cadence         { return s.cadence }
func (s *Subscription) AnchorDate() time.Time       { return s.anchorDate }
func (s *Subscription) LastChargeDate() *time.Time  { return s.lastChargeDate }
func (s *Subscription) NextChargeDate() *time.Time  { return s.nextChargeDate }
func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}
func (s *Subscription) AutoRenew() bool                  { return s.autoRenew }
func (s *Subscription) Notes() string                    { return s.notes }
func (s *Subscription) CancelledAt() *time.Time          { return s.cancelledAt }
func (s *Subscription) CancelReason() *string            { return s.cancelReason }
func (s *Subscription) Metadata() map[string]interface{} { return s.metadata }
func (s *Subscription) Version() int                     { return s.version }
func (s *Subscription) CreatedAt() time.Time             { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time             { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use).
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsDue reports whether the subscription should be billed at now: it must
// be active with a scheduled next charge date that has arrived or passed.
func (s *Subscription) IsDue(now time.Time) bool {
	if s.status != vo.StatusActive {
		return false
	}
	if s.nextChargeDate == nil {
		return false
	}
	return !now.Before(*s.nextChargeDate)
}

// Pause moves an active subscription to paused. Charge dates are untouched.
func (s *Subscription) Pause(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusPaused) {
		return ErrInvalidTransition(s.status.String(), vo.StatusPaused.String())
	}

	s.status = vo.StatusPaused
	s.touch(now)
	return nil
}

// Resume moves a paused subscription back to active. Resuming a cancelled
// subscription is disallowed; cancelled is terminal.
func (s *Subscription) Resume(now time.Time) error {
	if s.status != vo.StatusPaused || !s.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}

	s.status = vo.StatusActive
	s.touch(now)
	return nil
}

// Cancel moves the subscription to the terminal cancelled status and
// unconditionally disables auto-renew. The reason is optional.
func (s *Subscription) Cancel(reason string, now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}

	s.status = vo.StatusCancelled
	s.autoRenew = false
	s.cancelledAt = &now
	if reason != "" {
		s.cancelReason = &reason
	}
	s.touch(now)
	return nil
}

// MarkBilled records a confirmed charge: lastChargeDate becomes the billing
// date and nextChargeDate advances one cadence from it. Only active
// subscriptions can be billed; the engine never moves money itself.
func (s *Subscription) MarkBilled(billingDate time.Time) error {
	if !s.status.CanBill() {
		return fmt.Errorf("%w: status is %s", ErrSubscriptionNotBillable, s.status)
	}

	charged := billingDate
	next := s.cadence.NextChargeDate(billingDate)

	s.lastChargeDate = &charged
	s.nextChargeDate = &next
	s.touch(billingDate)
	return nil
}

// UpdateDetails applies caller-editable fields. A cadence change reschedules
// the next charge from the last charge date, or from the anchor when the
// subscription has never been billed.
func (s *Subscription) UpdateDetails(customerRef, plan string, amount decimal.Decimal, cadence vo.Cadence, notes string, autoRenew bool, now time.Time) error {
	if customerRef == "" {
		return fmt.Errorf("customer reference is required")
	}
	if plan == "" {
		return fmt.Errorf("plan is required")
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !cadence.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidCadence, cadence)
	}
	if s.status == vo.StatusCancelled && autoRenew {
		return fmt.Errorf("cannot re-enable auto-renew on a cancelled subscription")
	}

	rescheduled := cadence != s.cadence

	s.customerRef = customerRef
	s.plan = plan
	s.amount = amount
	s.cadence = cadence
	s.notes = notes
	s.autoRenew = autoRenew

	if rescheduled && s.nextChargeDate != nil {
		from := s.anchorDate
		if s.lastChargeDate != nil {
			from = *s.lastChargeDate
		}
		next := cadence.NextChargeDate(from)
		s.nextChargeDate = &next
	}

	s.touch(now)
	return nil
}

// MonthlyAmount returns the amount normalized to a monthly equivalent.
func (s *Subscription) MonthlyAmount() decimal.Decimal {
	return s.cadence.MonthlyAmount(s.amount)
}

// Validate performs domain-level validation.
func (s *Subscription) Validate() error {
	if s.customerRef == "" {
		return fmt.Errorf("customer reference is required")
	}
	if s.plan == "" {
		return fmt.Errorf("plan is required")
	}
	if !s.amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !s.cadence.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidCadence, s.cadence)
	}
	if !s.status.IsValid() {
		return fmt.Errorf("invalid status: %s", s.status)
	}
	return nil
}

// touch bumps version and advances updatedAt. updatedAt never goes
// backwards, even when the caller passes an earlier timestamp.
func (s *Subscription) touch(now time.Time) {
	if now.After(s.updatedAt) {
		s.updatedAt = now
	}
	s.version++
}
