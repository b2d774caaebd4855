package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID             uint            `gorm:"primarykey"`
	SID            string          `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	UUID           string          `gorm:"uniqueIndex;not null;size:36"`
	CustomerRef    string          `gorm:"not null;size:255;index:idx_customer_ref"`
	Plan           string          `gorm:"not null;size:255"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cadence        string          `gorm:"not null;size:20;index:idx_cadence"`
	AnchorDate     time.Time       `gorm:"not null"`
	LastChargeDate *time.Time
	NextChargeDate *time.Time `gorm:"index:idx_next_charge_date"`
	Status         string     `gorm:"not null;size:20;index:idx_status"`
	AutoRenew      bool       `gorm:"not null;default:true"`
	Notes          string     `gorm:"size:2000"`
	CancelledAt    *time.Time
	CancelReason   *string `gorm:"size:500"`
	Metadata       datatypes.JSON
	Version        int `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
