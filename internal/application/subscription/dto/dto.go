package dto

import (
	"time"
)

// SubscriptionDTO is the external representation of a subscription. The
// public identifier is the sid; the numeric database ID never leaves the
// application layer.
type SubscriptionDTO struct {
	ID             string                 `json:"id"`
	UUID           string                 `json:"uuid,omitempty"`
	CustomerRef    string                 `json:"customer_ref"`
	Plan           string                 `json:"plan"`
	Amount         string                 `json:"amount"`
	Cadence        string                 `json:"cadence"`
	CadenceLabel   string                 `json:"cadence_label"`
	AnchorDate     time.Time              `json:"anchor_date"`
	LastChargeDate *time.Time             `json:"last_charge_date,omitempty"`
	NextChargeDate *time.Time             `json:"next_charge_date,omitempty"`
	Status         string                 `json:"status"`
	AutoRenew      bool                   `json:"auto_renew"`
	Notes          string                 `json:"notes,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason   *string                `json:"cancel_reason,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	MonthlyAmount  string                 `json:"monthly_amount"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// MRRReportDTO is the monthly recurring revenue report.
type MRRReportDTO struct {
	Total       string            `json:"total"`
	ActiveCount int               `json:"active_count"`
	ByCadence   map[string]string `json:"by_cadence"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// InvoiceDraftDTO is a draft invoice payload for one billing period. Drafts
// are never persisted by the engine; the caller decides what to do with them.
type InvoiceDraftDTO struct {
	InvoiceID      string    `json:"invoice_id"`
	SubscriptionID string    `json:"subscription_id"`
	CustomerRef    string    `json:"customer_ref"`
	Plan           string    `json:"plan"`
	Amount         string    `json:"amount"`
	Cadence        string    `json:"cadence"`
	CadenceLabel   string    `json:"cadence_label"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	Description    string    `json:"description"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// BillingFailureDTO describes one subscription a billing sweep could not
// process.
type BillingFailureDTO struct {
	SubscriptionID string `json:"subscription_id"`
	CustomerRef    string `json:"customer_ref"`
	Reason         string `json:"reason"`
}

// BillingRunReportDTO summarizes one billing sweep.
type BillingRunReportDTO struct {
	RunAt    time.Time           `json:"run_at"`
	DueCount int                 `json:"due_count"`
	Billed   []*SubscriptionDTO  `json:"billed"`
	Failed   []BillingFailureDTO `json:"failed"`
}
