package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
)

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	subscriptions := `
CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  plan_type TEXT NOT NULL,
  billing_cycle TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  amount TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  auto_renew INTEGER NOT NULL DEFAULT 1,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS subscription_payments (
  id TEXT PRIMARY KEY,
  subscription_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  amount TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'completed',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(subscriptions).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

func newSubscription(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.SubscriptionStatus, start, end time.Time) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		ID:            uuid.New(),
		UserID:        userID,
		PlanType:      enums.PlanTypePro,
		BillingCycle:  enums.BillingCycleMonthly,
		Status:        status,
		StartDate:     start,
		EndDate:       end,
		Amount:        decimal.NewFromInt(300),
		PaymentMethod: enums.PaymentMethodWallet,
		AutoRenew:     status == enums.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestFindLatestByUserPicksMostRecentStart(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	newSubscription(t, db, userID, enums.SubscriptionStatusExpired, now.AddDate(0, -3, 0), now.AddDate(0, -2, 0))
	latest := newSubscription(t, db, userID, enums.SubscriptionStatusCancelled, now.AddDate(0, -1, 0), now.AddDate(0, 0, 10))
	newSubscription(t, db, uuid.New(), enums.SubscriptionStatusActive, now, now.AddDate(0, 1, 0))

	found, err := repo.FindLatestByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, latest.ID, found.ID)
}

func TestFindLatestByUserReturnsNilWhenEmpty(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)

	found, err := repo.FindLatestByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindActiveByUserSkipsInactiveRows(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	newSubscription(t, db, userID, enums.SubscriptionStatusCancelled, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
	active := newSubscription(t, db, userID, enums.SubscriptionStatusActive, now, now.AddDate(0, 1, 0))

	found, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, active.ID, found.ID)

	require.NoError(t, db.Model(active).Update("status", enums.SubscriptionStatusExpired).Error)
	found, err = repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListOverdueActive(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	older := newSubscription(t, db, uuid.New(), enums.SubscriptionStatusActive, now.AddDate(0, -4, 0), now.AddDate(0, -3, 0))
	newer := newSubscription(t, db, uuid.New(), enums.SubscriptionStatusActive, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
	newSubscription(t, db, uuid.New(), enums.SubscriptionStatusActive, now, now.AddDate(0, 1, 0))
	newSubscription(t, db, uuid.New(), enums.SubscriptionStatusExpired, now.AddDate(0, -4, 0), now.AddDate(0, -3, 0))

	overdue, err := repo.ListOverdueActive(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, older.ID, overdue[0].ID)
	assert.Equal(t, newer.ID, overdue[1].ID)

	capped, err := repo.ListOverdueActive(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, older.ID, capped[0].ID)
}

func TestListPaymentsByUserNewestFirst(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	subID := uuid.New()
	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		payment := &models.SubscriptionPayment{
			ID:             uuid.New(),
			SubscriptionID: subID,
			UserID:         userID,
			Amount:         decimal.NewFromInt(int64(100 * (i + 1))),
			PaymentMethod:  enums.PaymentMethodWallet,
			Status:         enums.PaymentStatusCompleted,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(payment).Error)
	}
	other := &models.SubscriptionPayment{
		ID:             uuid.New(),
		SubscriptionID: uuid.New(),
		UserID:         uuid.New(),
		Amount:         decimal.NewFromInt(999),
		PaymentMethod:  enums.PaymentMethodCard,
		Status:         enums.PaymentStatusCompleted,
		CreatedAt:      base,
	}
	require.NoError(t, db.Create(other).Error)

	payments, err := repo.ListPaymentsByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.True(t, payments[0].CreatedAt.After(payments[1].CreatedAt))
	assert.True(t, payments[1].CreatedAt.After(payments[2].CreatedAt))
	for _, p := range payments {
		assert.Equal(t, userID, p.UserID)
	}
}
