package repository

import (
	"context"
	"time"

	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct{}

// Provide returns the GORM-backed subscription repository.
func Provide() subscriptiondomain.Repository {
	return repository{}
}

func (repository) FindDueActive(ctx context.Context, db *gorm.DB, asOf time.Time) ([]subscriptiondomain.Subscription, error) {
	var subscriptions []subscriptiondomain.Subscription
	err := db.WithContext(ctx).
		Where("status = ?", subscriptiondomain.StatusActive).
		Where("next_payment_due IS NOT NULL").
		Where("next_payment_due < ?", startOfNextDay(asOf)).
		Order("id").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (repository) FindGraceExpired(ctx context.Context, db *gorm.DB, now time.Time) ([]subscriptiondomain.Subscription, error) {
	var subscriptions []subscriptiondomain.Subscription
	err := db.WithContext(ctx).
		Where("status = ?", subscriptiondomain.StatusPastDue).
		Where("grace_until IS NOT NULL").
		Where("grace_until < ?", now.UTC()).
		Order("id").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (repository) FindGraceReminderDue(ctx context.Context, db *gorm.DB, now time.Time) ([]subscriptiondomain.Subscription, error) {
	dueDayStart := startOfDay(now).AddDate(0, 0, -2)
	dueDayEnd := dueDayStart.AddDate(0, 0, 1)

	var subscriptions []subscriptiondomain.Subscription
	err := db.WithContext(ctx).
		Where("status = ?", subscriptiondomain.StatusPastDue).
		Where("grace_until IS NOT NULL").
		Where("grace_until > ?", now.UTC()).
		Where("next_payment_due >= ? AND next_payment_due < ?", dueDayStart, dueDayEnd).
		Order("id").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (repository) MarkPastDue(ctx context.Context, db *gorm.DB, id snowflake.ID, graceUntil, now time.Time) (bool, error) {
	result := db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("id = ? AND status = ?", id, subscriptiondomain.StatusActive).
		Updates(map[string]any{
			"status":      subscriptiondomain.StatusPastDue,
			"grace_until": graceUntil.UTC(),
			"updated_at":  now.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repository) MarkPaused(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	result := db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("id = ? AND status = ?", id, subscriptiondomain.StatusPastDue).
		Updates(map[string]any{
			"status":     subscriptiondomain.StatusPaused,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*subscriptiondomain.Subscription, error) {
	var subscription subscriptiondomain.Subscription
	err := db.WithContext(ctx).First(&subscription, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

func (repository) List(ctx context.Context, db *gorm.DB, filter subscriptiondomain.ListFilter) ([]subscriptiondomain.Subscription, error) {
	query := db.WithContext(ctx).Model(&subscriptiondomain.Subscription{})
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var subscriptions []subscriptiondomain.Subscription
	err := query.Order("created_at DESC").Limit(limit).Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfNextDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}
