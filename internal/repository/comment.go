package repository

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&comment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListByVideo returns the newest-first comment page plus the total match
// count taken before the slice.
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID uuid.UUID, offset, limit int) ([]*models.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("video_id = ?", videoID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

func (r *CommentRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("video_id = ?", videoID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// CountByVideos folds comment counts over a set of videos at once.
func (r *CommentRepository) CountByVideos(ctx context.Context, videoIDs []uuid.UUID) (int64, error) {
	if len(videoIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("video_id IN ?", videoIDs).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

func (r *CommentRepository) IDsByVideos(ctx context.Context, videoIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("video_id IN ?", videoIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list comment IDs: %w", err)
	}
	return ids, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// DeleteCascade removes the comment and its likes as one unit.
func (r *CommentRepository) DeleteCascade(ctx context.Context, commentID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("target_kind = ? AND target_id = ?", models.LikeTargetComment, commentID).
			Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return nil
	})
}
