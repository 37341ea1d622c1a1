package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
)

// WalletTransaction records an immutable balance mutation. Amount is signed:
// debits are negative, credits positive. Rows are never updated or deleted.
type WalletTransaction struct {
	ID           uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Type         enums.TransactionType `gorm:"column:type;type:transaction_type;not null"`
	Amount       decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	BalanceAfter decimal.Decimal       `gorm:"column:balance_after;type:numeric(12,2);not null"`
	Description  string                `gorm:"column:description;not null"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}
