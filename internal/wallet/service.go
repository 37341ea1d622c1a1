package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DavidJosephLai/casewhr-backend/internal/ledger"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
	pkgerrors "github.com/DavidJosephLai/casewhr-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes wallet balance reads and credit operations. Debits
// happen inside the owning domain transaction and go through the
// repository directly, not through this service.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	TopUp(ctx context.Context, input TopUpInput) (*models.Wallet, error)
}

type service struct {
	repo   Repository
	ledger ledger.Repository
	tx     txRunner
}

// TopUpInput describes a wallet credit.
type TopUpInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Description string
}

// NewService builds a wallet service with the required dependencies.
func NewService(repo Repository, ledgerRepo ledger.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, ledger: ledgerRepo, tx: tx}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	wallet, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	if wallet == nil {
		// Users without a wallet row read as a zero balance; the row is
		// created on first credit or debit attempt.
		return &models.Wallet{UserID: userID, Balance: decimal.Zero}, nil
	}
	return wallet, nil
}

func (s *service) TopUp(ctx context.Context, input TopUpInput) (*models.Wallet, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "top-up amount must be positive")
	}

	var wallet *models.Wallet
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		current, err := repo.FindByUserForUpdate(ctx, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
		}
		if current == nil {
			current = &models.Wallet{UserID: input.UserID, Balance: decimal.Zero}
			if err := repo.Create(ctx, current); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wallet")
			}
		}

		current.Balance = current.Balance.Add(input.Amount)
		if err := repo.Update(ctx, current); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet")
		}

		description := input.Description
		if description == "" {
			description = "Wallet top-up"
		}
		txn := &models.WalletTransaction{
			UserID:       input.UserID,
			Type:         enums.TransactionTypeWalletTopup,
			Amount:       input.Amount,
			BalanceAfter: current.Balance,
			Description:  description,
		}
		if err := ledgerRepo.Create(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record top-up transaction")
		}

		wallet = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}
