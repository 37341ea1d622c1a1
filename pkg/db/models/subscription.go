package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
)

// Subscription persists a user's paid plan. At most one row per user may be
// active at a time; the partial unique index idx_subscriptions_one_active
// enforces that at the schema level.
type Subscription struct {
	ID            uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PlanType      enums.PlanType           `gorm:"column:plan_type;type:plan_type;not null"`
	BillingCycle  enums.BillingCycle       `gorm:"column:billing_cycle;type:billing_cycle;not null"`
	Status        enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	StartDate     time.Time                `gorm:"column:start_date;not null"`
	EndDate       time.Time                `gorm:"column:end_date;not null"`
	Amount        decimal.Decimal          `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod      `gorm:"column:payment_method;type:payment_method;not null"`
	AutoRenew     bool                     `gorm:"column:auto_renew;not null;default:true"`
	CancelledAt   *time.Time               `gorm:"column:cancelled_at"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
