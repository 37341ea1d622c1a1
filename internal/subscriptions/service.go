package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DavidJosephLai/casewhr-backend/internal/ledger"
	"github.com/DavidJosephLai/casewhr-backend/internal/wallet"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
	pkgerrors "github.com/DavidJosephLai/casewhr-backend/pkg/errors"
)

// OneActiveConstraint is the partial unique index that guarantees a user
// holds at most one active subscription.
const OneActiveConstraint = "idx_subscriptions_one_active"

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the subscription lifecycle operations.
type Service interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*models.Subscription, error)
	Current(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Check(ctx context.Context, userID uuid.UUID) (*CheckResult, error)
	Payments(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionPayment, error)
}

type service struct {
	repo    Repository
	wallets wallet.Repository
	ledger  ledger.Repository
	tx      txRunner
}

// SubscribeInput carries the fields required to open a subscription.
type SubscribeInput struct {
	UserID        uuid.UUID
	PlanType      enums.PlanType
	BillingCycle  enums.BillingCycle
	PaymentMethod enums.PaymentMethod
	Amount        decimal.Decimal
}

// CheckResult is the server-to-server entitlement answer.
type CheckResult struct {
	HasSubscription bool
	PlanType        enums.PlanType
	Subscription    *models.Subscription
}

// NewService builds a subscription service with the required dependencies.
func NewService(repo Repository, wallets wallet.Repository, ledgerRepo ledger.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	if wallets == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		wallets: wallets,
		ledger:  ledgerRepo,
		tx:      tx,
	}, nil
}

func (s *service) Subscribe(ctx context.Context, input SubscribeInput) (*models.Subscription, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PlanType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan type")
	}
	if !input.PlanType.IsPaid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan type is not purchasable")
	}
	if !input.BillingCycle.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "billing cycle must be monthly or yearly")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	now := timeNowUTC()

	var created *models.Subscription
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindActiveByUser(ctx, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active subscription")
		}
		if existing != nil {
			if existing.EndDate.After(now) {
				return pkgerrors.New(pkgerrors.CodeConflict, "user already has an active subscription")
			}
			// Overdue rows that no reader has touched yet must not block
			// a new purchase. Materialize the expiry and move on.
			existing.Status = enums.SubscriptionStatusExpired
			if err := repo.Update(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire overdue subscription")
			}
		}

		if input.PaymentMethod == enums.PaymentMethodWallet {
			if err := s.debitWallet(ctx, tx, input, now); err != nil {
				return err
			}
		}

		sub := &models.Subscription{
			UserID:        input.UserID,
			PlanType:      input.PlanType,
			BillingCycle:  input.BillingCycle,
			Status:        enums.SubscriptionStatusActive,
			StartDate:     now,
			EndDate:       endDateFor(now, input.BillingCycle),
			Amount:        input.Amount,
			PaymentMethod: input.PaymentMethod,
			AutoRenew:     true,
		}
		if err := repo.Create(ctx, sub); err != nil {
			if db.IsUniqueViolation(err, OneActiveConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "user already has an active subscription")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}

		payment := &models.SubscriptionPayment{
			SubscriptionID: sub.ID,
			UserID:         input.UserID,
			Amount:         input.Amount,
			PaymentMethod:  input.PaymentMethod,
			Status:         enums.PaymentStatusCompleted,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record subscription payment")
		}

		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// debitWallet takes the subscription fee from the caller's wallet and
// journals the movement. Runs inside the subscribe transaction so a failed
// subscription insert rolls the debit back with it.
func (s *service) debitWallet(ctx context.Context, tx *gorm.DB, input SubscribeInput, now time.Time) error {
	wallets := s.wallets.WithTx(tx)
	ledgerRepo := s.ledger.WithTx(tx)

	w, err := wallets.FindByUserForUpdate(ctx, input.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
	}
	if w == nil || w.Balance.LessThan(input.Amount) {
		return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "insufficient wallet balance")
	}

	w.Balance = w.Balance.Sub(input.Amount)
	if err := wallets.Update(ctx, w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit wallet")
	}

	txn := &models.WalletTransaction{
		UserID:       input.UserID,
		Type:         enums.TransactionTypeSubscriptionPayment,
		Amount:       input.Amount.Neg(),
		BalanceAfter: w.Balance,
		Description:  fmt.Sprintf("Subscription payment: %s (%s)", input.PlanType, input.BillingCycle),
	}
	if err := ledgerRepo.Create(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record wallet transaction")
	}
	return nil
}

func (s *service) Current(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	sub, err := s.repo.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if sub == nil {
		return nil, nil
	}

	if sub.Status == enums.SubscriptionStatusActive && sub.EndDate.Before(timeNowUTC()) {
		sub.Status = enums.SubscriptionStatusExpired
		if err := s.repo.Update(ctx, sub); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire subscription")
		}
	}
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	sub, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active subscription")
	}
	if sub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active subscription")
	}

	now := timeNowUTC()
	sub.Status = enums.SubscriptionStatusCancelled
	sub.AutoRenew = false
	sub.CancelledAt = &now
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel subscription")
	}
	return sub, nil
}

func (s *service) Check(ctx context.Context, userID uuid.UUID) (*CheckResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	sub, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active subscription")
	}

	result := &CheckResult{PlanType: enums.PlanTypeFree, Subscription: sub}
	if sub != nil && sub.EndDate.After(timeNowUTC()) {
		result.HasSubscription = true
		result.PlanType = sub.PlanType
	}
	return result, nil
}

func (s *service) Payments(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionPayment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	payments, err := s.repo.ListPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment history")
	}
	return payments, nil
}

func endDateFor(start time.Time, cycle enums.BillingCycle) time.Time {
	if cycle == enums.BillingCycleMonthly {
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(1, 0, 0)
}
