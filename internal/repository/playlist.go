package repository

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&playlist, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return &playlist, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

func (r *PlaylistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return nil
}

// Delete removes the playlist and its membership rows as one unit.
func (r *PlaylistRepository) Delete(ctx context.Context, playlistID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return fmt.Errorf("failed to delete playlist memberships: %w", err)
		}
		if err := tx.Delete(&models.Playlist{}, "id = ?", playlistID).Error; err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}
		return nil
	})
}

// AddVideo inserts the membership edge. A duplicate surfaces as
// gorm.ErrDuplicatedKey via the unique (playlist, video) index.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	entry := &models.PlaylistVideo{
		PlaylistID: playlistID,
		VideoID:    videoID,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if IsDuplicate(err) {
			return err
		}
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}
	return nil
}

// RemoveVideo deletes the membership edge. Removing an absent entry is not
// an error; the set is simply left unchanged.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{}).Error; err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	return nil
}

// ListVideos resolves the playlist's members into full video records with
// owners, in insertion order.
func (r *PlaylistRepository) ListVideos(ctx context.Context, playlistID uuid.UUID) ([]*models.Video, error) {
	var entries []*models.PlaylistVideo
	if err := r.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("playlist_id = ?", playlistID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlist videos: %w", err)
	}

	videos := make([]*models.Video, 0, len(entries))
	for _, entry := range entries {
		video := entry.Video
		videos = append(videos, &video)
	}
	return videos, nil
}
