package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
)

// BillingPlan captures the catalog entry behind a purchasable tier. The
// pricing pages render straight from these rows.
type BillingPlan struct {
	ID           string             `gorm:"column:id;primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	PlanType     enums.PlanType     `gorm:"column:plan_type;type:plan_type;not null"`
	BillingCycle enums.BillingCycle `gorm:"column:billing_cycle;type:billing_cycle;not null"`
	Status       enums.PlanStatus   `gorm:"column:status;type:plan_status;not null"`
	PriceAmount  decimal.Decimal    `gorm:"column:price_amount;type:numeric(12,2);not null"`
	CurrencyCode string             `gorm:"column:currency_code;not null"`
	Features     pq.StringArray     `gorm:"column:features;type:text[];default:ARRAY[]::text[]"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
