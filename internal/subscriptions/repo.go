package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
)

// Repository manages persistence for subscriptions and their payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sub *models.Subscription) error
	Update(ctx context.Context, sub *models.Subscription) error
	// FindLatestByUser returns the user's most recent subscription by
	// start_date regardless of status, or nil when none exists.
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	// FindActiveByUser returns the user's active subscription, or nil.
	// The partial unique index guarantees at most one row qualifies.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	// ListOverdueActive returns active subscriptions whose end_date has
	// passed, oldest first, capped at limit.
	ListOverdueActive(ctx context.Context, cutoff time.Time, limit int) ([]models.Subscription, error)
	CreatePayment(ctx context.Context, payment *models.SubscriptionPayment) error
	ListPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionPayment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a subscriptions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repository) Update(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *repository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.SubscriptionStatusActive).
		Order("start_date DESC").
		First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) ListOverdueActive(ctx context.Context, cutoff time.Time, limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", enums.SubscriptionStatusActive, cutoff).
		Order("end_date ASC").
		Limit(limit).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.SubscriptionPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) ListPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]models.SubscriptionPayment, error) {
	var payments []models.SubscriptionPayment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
