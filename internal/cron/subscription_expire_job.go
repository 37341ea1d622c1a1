package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/DavidJosephLai/casewhr-backend/internal/subscriptions"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
)

const defaultExpireSweepLimit = 500

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SubscriptionExpireJobParams configures the expiry sweep cron job.
type SubscriptionExpireJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Repo   subscriptions.Repository
	Limit  int
	Now    func() time.Time
}

// NewSubscriptionExpireJob builds the job that materializes expiry for
// active subscriptions whose end date has passed. Reads already flip
// overdue rows lazily; the sweep covers subscriptions nobody queries.
func NewSubscriptionExpireJob(params SubscriptionExpireJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultExpireSweepLimit
	}
	return &subscriptionExpireJob{
		logg:  params.Logger,
		db:    params.DB,
		repo:  params.Repo,
		now:   now,
		limit: limit,
	}, nil
}

type subscriptionExpireJob struct {
	logg  *logger.Logger
	db    txRunner
	repo  subscriptions.Repository
	now   func() time.Time
	limit int
}

func (j *subscriptionExpireJob) Name() string { return "subscription-expire" }

func (j *subscriptionExpireJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	overdue, err := j.repo.ListOverdueActive(ctx, cutoff, j.limit)
	if err != nil {
		return fmt.Errorf("list overdue subscriptions: %w", err)
	}
	if len(overdue) == 0 {
		j.logg.Info(ctx, "no overdue subscriptions")
		return nil
	}

	var errs error
	expired := 0
	for i := range overdue {
		sub := &overdue[i]
		if err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := j.repo.WithTx(tx)
			sub.Status = enums.SubscriptionStatusExpired
			return repo.Update(ctx, sub)
		}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire subscription %s: %w", sub.ID, err))
			continue
		}
		expired++
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": len(overdue),
		"expired":    expired,
	})
	j.logg.Info(reportCtx, "subscription expiry sweep complete")
	return errs
}
