package repository

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}
	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&tweet, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}
	return &tweet, nil
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tweets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	return tweets, nil
}

func (r *TweetRepository) Update(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Save(tweet).Error; err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}
	return nil
}

// DeleteCascade removes the tweet and its likes as one unit.
func (r *TweetRepository) DeleteCascade(ctx context.Context, tweetID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("target_kind = ? AND target_id = ?", models.LikeTargetTweet, tweetID).
			Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete tweet likes: %w", err)
		}
		if err := tx.Delete(&models.Tweet{}, "id = ?", tweetID).Error; err != nil {
			return fmt.Errorf("failed to delete tweet: %w", err)
		}
		return nil
	})
}
