package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSubscriptionNotBillable = errors.New("cannot bill a non-active subscription")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidCadence          = errors.New("invalid cadence")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
