package valueobjects

import (
	"fmt"
	"strings"
)

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusPaused    SubscriptionStatus = "paused"
	StatusCancelled SubscriptionStatus = "cancelled"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:    true,
	StatusPaused:    true,
	StatusCancelled: true,
}

// statusTransitions is the closed transition table. Cancelled is absorbing.
var statusTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusActive:    {StatusPaused, StatusCancelled},
	StatusPaused:    {StatusActive, StatusCancelled},
	StatusCancelled: {},
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(value string) (SubscriptionStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", fmt.Errorf("status cannot be empty")
	}

	status := SubscriptionStatus(normalized)
	if !ValidStatuses[status] {
		return "", fmt.Errorf("invalid subscription status: %s", value)
	}

	return status, nil
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

// IsTerminal reports whether no transition can ever leave this status.
func (s SubscriptionStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0 && s.IsValid()
}

// CanBill reports whether a subscription in this status may be billed.
func (s SubscriptionStatus) CanBill() bool {
	return s == StatusActive
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	allowed, exists := statusTransitions[s]
	if !exists {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
