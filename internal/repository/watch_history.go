package repository

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Append records the video in the user's history. ON CONFLICT DO NOTHING
// keeps the sequence append-only and duplicate-free without a read-first
// race.
func (r *WatchHistoryRepository) Append(ctx context.Context, userID, videoID uuid.UUID) error {
	entry := &models.WatchHistoryEntry{
		UserID:  userID,
		VideoID: videoID,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

// ListByUser resolves the history into full videos with owners, preserving
// the stored (insertion) order.
func (r *WatchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Video, error) {
	var entries []*models.WatchHistoryEntry
	if err := r.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", err)
	}

	videos := make([]*models.Video, 0, len(entries))
	for _, entry := range entries {
		video := entry.Video
		videos = append(videos, &video)
	}
	return videos, nil
}
