package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
)

// Service defines operations that record wallet transactions.
type Service interface {
	Record(ctx context.Context, input RecordTransactionInput) (*models.WalletTransaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error)
}

type service struct {
	repo Repository
}

// RecordTransactionInput captures the immutable data a wallet transaction requires.
// Amount is signed: negative for debits, positive for credits.
type RecordTransactionInput struct {
	UserID       uuid.UUID             `json:"user_id"`
	Type         enums.TransactionType `json:"type"`
	Amount       decimal.Decimal       `json:"amount"`
	BalanceAfter decimal.Decimal       `json:"balance_after"`
	Description  string                `json:"description"`
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordTransactionInput) (*models.WalletTransaction, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid transaction type %q", input.Type)
	}
	if input.Amount.IsZero() {
		return nil, fmt.Errorf("amount must be non-zero")
	}

	txn := &models.WalletTransaction{
		UserID:       input.UserID,
		Type:         input.Type,
		Amount:       input.Amount,
		BalanceAfter: input.BalanceAfter,
		Description:  input.Description,
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}
