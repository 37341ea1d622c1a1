package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
)

// SubscriptionPayment is the canonical payment-history record, one row per
// successful charge regardless of funding source. Write-once.
type SubscriptionPayment struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID uuid.UUID           `gorm:"column:subscription_id;type:uuid;not null;index"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Amount         decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	Status         enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'completed'"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}
