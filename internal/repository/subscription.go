package repository

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts the edge; duplicates surface as gorm.ErrDuplicatedKey via
// the unique index on (subscriber, channel).
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if IsDuplicate(err) {
			return err
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// Delete removes the edge and reports whether a row was removed.
func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscribed channels: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check subscription status: %w", err)
	}
	return count > 0, nil
}

func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID, offset, limit int) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN subscriptions ON subscriptions.subscriber_id = users.id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return users, nil
}

func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, offset, limit int) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN subscriptions ON subscriptions.channel_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}
	return users, nil
}
