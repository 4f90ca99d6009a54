package repository

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like edge. The unique index on (kind, target, user)
// surfaces concurrent duplicates as gorm.ErrDuplicatedKey; callers treat
// that as "already liked", which keeps toggling race-safe.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if IsDuplicate(err) {
			return err
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete removes the like for (kind, target, user) and reports whether a
// row was actually removed, so toggle callers can confirm the unlike.
func (r *LikeRepository) Delete(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ? AND liked_by_id = ?", kind, targetID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) CountByTarget(ctx context.Context, kind models.LikeTarget, targetID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// CountByTargets folds like counts over a set of targets of one kind.
func (r *LikeRepository) CountByTargets(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id IN ?", kind, targetIDs).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// CountsPerTarget returns a per-target like count map for one kind,
// defaulting to 0 for targets with no likes.
func (r *LikeRepository) CountsPerTarget(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TargetID uuid.UUID
		Count    int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("target_id, COUNT(*) as count").
		Where("target_kind = ? AND target_id IN ?", kind, targetIDs).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count likes per target: %w", err)
	}

	for _, row := range rows {
		counts[row.TargetID] = row.Count
	}
	return counts, nil
}

func (r *LikeRepository) IsLiked(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ? AND liked_by_id = ?", kind, targetID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check like status: %w", err)
	}
	return count > 0, nil
}

// LikedTargetsOf filters targetIDs down to those the user has liked.
func (r *LikeRepository) LikedTargetsOf(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return liked, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id IN ? AND liked_by_id = ?", kind, targetIDs, userID).
		Pluck("target_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list liked targets: %w", err)
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// VideoIDsLikedBy returns the IDs of all videos the user has liked,
// newest like first.
func (r *LikeRepository) VideoIDsLikedBy(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND liked_by_id = ?", models.LikeTargetVideo, userID).
		Order("created_at DESC").
		Pluck("target_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}
	return ids, nil
}
