package repository

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&video, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

// IncrementViews is a blind counter bump; lost updates are acceptable for
// an approximate metric.
func (r *VideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// SearchByText matches published videos whose title or description contains
// the query, case-insensitively. Returns the page plus the total match
// count taken before the offset/limit slice.
func (r *VideoRepository) SearchByText(ctx context.Context, query, order string, offset, limit int) ([]*models.Video, int64, error) {
	pattern := "%" + query + "%"

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("is_published = ?", true).
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []*models.Video
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
		Preload("Owner").
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search videos: %w", err)
	}
	return videos, total, nil
}

// SearchByOwnerUsername matches published videos whose uploader's username
// contains the fragment, case-insensitively.
func (r *VideoRepository) SearchByOwnerUsername(ctx context.Context, username, order string, offset, limit int) ([]*models.Video, int64, error) {
	pattern := "%" + username + "%"

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("videos.is_published = ?", true).
		Where("users.username ILIKE ?", pattern).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []*models.Video
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("videos.is_published = ?", true).
		Where("users.username ILIKE ?", pattern).
		Preload("Owner").
		// The join makes bare column names ambiguous; the sort allow-list
		// only contains video columns.
		Order("videos." + order).
		Offset(offset).
		Limit(limit).
		Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search videos by username: %w", err)
	}
	return videos, total, nil
}

func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Video, error) {
	var videos []*models.Video
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos by owner: %w", err)
	}
	return videos, nil
}

func (r *VideoRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// SumViewsByOwner folds the view counters across all of the owner's videos.
// COALESCE keeps the fold at 0 when the owner has no videos.
func (r *VideoRepository) SumViewsByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum views: %w", err)
	}
	return total, nil
}

func (r *VideoRepository) IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list video IDs: %w", err)
	}
	return ids, nil
}

// DeleteCascade removes the video together with every dependent record as
// one unit: likes on its comments, its comments, likes on the video itself,
// playlist memberships, watch-history entries, then the video row. Any
// failure rolls the whole cascade back.
func (r *VideoRepository) DeleteCascade(ctx context.Context, videoID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).
			Select("id").
			Where("video_id = ?", videoID)

		if err := tx.
			Where("target_kind = ? AND target_id IN (?)", models.LikeTargetComment, commentIDs).
			Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}

		if err := tx.Where("video_id = ?", videoID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		if err := tx.
			Where("target_kind = ? AND target_id = ?", models.LikeTargetVideo, videoID).
			Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete video likes: %w", err)
		}

		if err := tx.Where("video_id = ?", videoID).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return fmt.Errorf("failed to delete playlist memberships: %w", err)
		}

		if err := tx.Where("video_id = ?", videoID).Delete(&models.WatchHistoryEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete watch history entries: %w", err)
		}

		if err := tx.Delete(&models.Video{}, "id = ?", videoID).Error; err != nil {
			return fmt.Errorf("failed to delete video: %w", err)
		}
		return nil
	})
}
