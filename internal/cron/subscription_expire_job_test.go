package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DavidJosephLai/casewhr-backend/internal/subscriptions"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
)

type fakeSubscriptionsRepo struct {
	overdue    []models.Subscription
	lastCutoff time.Time
	lastLimit  int
	updated    []uuid.UUID
	listErr    error
	updateErr  error
}

func (f *fakeSubscriptionsRepo) WithTx(tx *gorm.DB) subscriptions.Repository {
	return f
}

func (f *fakeSubscriptionsRepo) Create(ctx context.Context, sub *models.Subscription) error {
	panic("not implemented")
}

func (f *fakeSubscriptionsRepo) Update(ctx context.Context, sub *models.Subscription) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, sub.ID)
	return nil
}

func (f *fakeSubscriptionsRepo) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	panic("not implemented")
}

func (f *fakeSubscriptionsRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	panic("not implemented")
}

func (f *fakeSubscriptionsRepo) ListOverdueActive(ctx context.Context, cutoff time.Time, limit int) ([]models.Subscription, error) {
	f.lastCutoff = cutoff
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.overdue, nil
}

func (f *fakeSubscriptionsRepo) CreatePayment(ctx context.Context, payment *models.SubscriptionPayment) error {
	panic("not implemented")
}

func (f *fakeSubscriptionsRepo) ListPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionPayment, error) {
	panic("not implemented")
}

type expireFakeTxRunner struct{}

func (expireFakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newExpireJob(t *testing.T, repo *fakeSubscriptionsRepo, limit int) *subscriptionExpireJob {
	t.Helper()
	jobIface, err := NewSubscriptionExpireJob(SubscriptionExpireJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		DB:     expireFakeTxRunner{},
		Repo:   repo,
		Limit:  limit,
	})
	if err != nil {
		t.Fatalf("NewSubscriptionExpireJob: %v", err)
	}
	job, ok := jobIface.(*subscriptionExpireJob)
	if !ok {
		t.Fatalf("expected subscriptionExpireJob, got %T", jobIface)
	}
	return job
}

func TestSubscriptionExpireJobMarksOverdueRows(t *testing.T) {
	now := time.Date(2026, 2, 10, 3, 0, 0, 0, time.UTC)
	overdue := []models.Subscription{
		{ID: uuid.New(), Status: enums.SubscriptionStatusActive, EndDate: now.AddDate(0, -1, 0)},
		{ID: uuid.New(), Status: enums.SubscriptionStatusActive, EndDate: now.AddDate(0, 0, -2)},
	}
	repo := &fakeSubscriptionsRepo{overdue: overdue}
	job := newExpireJob(t, repo, 100)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !repo.lastCutoff.Equal(now) {
		t.Fatalf("expected cutoff %s, got %s", now, repo.lastCutoff)
	}
	if repo.lastLimit != 100 {
		t.Fatalf("expected limit 100, got %d", repo.lastLimit)
	}
	if len(repo.updated) != 2 {
		t.Fatalf("expected 2 rows expired, got %d", len(repo.updated))
	}
}

func TestSubscriptionExpireJobNoCandidates(t *testing.T) {
	repo := &fakeSubscriptionsRepo{}
	job := newExpireJob(t, repo, 0)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.lastLimit != defaultExpireSweepLimit {
		t.Fatalf("expected default limit, got %d", repo.lastLimit)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("unexpected updates %v", repo.updated)
	}
}

func TestSubscriptionExpireJobPropagatesListError(t *testing.T) {
	repo := &fakeSubscriptionsRepo{listErr: errors.New("boom")}
	job := newExpireJob(t, repo, 10)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
