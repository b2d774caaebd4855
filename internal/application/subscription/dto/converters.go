package dto

import (
	"github.com/subledger-inc/subledger/internal/domain/subscription"
	"github.com/subledger-inc/subledger/internal/shared/mapper"
)

// ToSubscriptionDTO converts a subscription aggregate to its DTO.
func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	return &SubscriptionDTO{
		ID:             sub.SID(),
		UUID:           sub.UUID(),
		CustomerRef:    sub.CustomerRef(),
		Plan:           sub.Plan(),
		Amount:         sub.Amount().String(),
		Cadence:        sub.Cadence().String(),
		CadenceLabel:   sub.Cadence().Label(),
		AnchorDate:     sub.AnchorDate(),
		LastChargeDate: sub.LastChargeDate(),
		NextChargeDate: sub.NextChargeDate(),
		Status:         sub.Status().String(),
		AutoRenew:      sub.AutoRenew(),
		Notes:          sub.Notes(),
		CancelledAt:    sub.CancelledAt(),
		CancelReason:   sub.CancelReason(),
		Metadata:       sub.Metadata(),
		MonthlyAmount:  sub.MonthlyAmount().StringFixed(2),
		Version:        sub.Version(),
		CreatedAt:      sub.CreatedAt(),
		UpdatedAt:      sub.UpdatedAt(),
	}
}

// ToSubscriptionDTOList converts a slice of aggregates to DTOs.
func ToSubscriptionDTOList(subs []*subscription.Subscription) []*SubscriptionDTO {
	result := mapper.MapSlice(subs, ToSubscriptionDTO)
	if result == nil {
		return []*SubscriptionDTO{}
	}
	return result
}
