package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/google/uuid"
)

type PlaylistService struct {
	playlistRepo PlaylistStore
	videoRepo    VideoStore
	userRepo     UserStore
	logger       *logger.Logger
}

func NewPlaylistService(
	playlistRepo PlaylistStore,
	videoRepo VideoStore,
	userRepo UserStore,
	logger *logger.Logger,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

type PlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *PlaylistService) Create(ctx context.Context, ownerID string, req *PlaylistRequest) (*PlaylistView, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", apperrors.ErrInvalidArgument)
	}

	playlist := &models.Playlist{
		OwnerID:     owner,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return s.buildView(ctx, playlist.ID)
}

// Get resolves the playlist and its member videos in insertion order.
func (s *PlaylistService) Get(ctx context.Context, playlistID string) (*PlaylistView, error) {
	id, err := parseID(playlistID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, id)
}

// ListByUser returns a user's playlists, newest first, without member
// expansion.
func (s *PlaylistService) ListByUser(ctx context.Context, userID string) ([]PlaylistView, error) {
	owner, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}

	playlists, err := s.playlistRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	views := make([]PlaylistView, 0, len(playlists))
	for _, p := range playlists {
		views = append(views, PlaylistView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
			Owner:       user.Public(),
			Videos:      []VideoView{},
		})
	}
	return views, nil
}

func (s *PlaylistService) Update(ctx context.Context, playlistID, requesterID string, req *PlaylistRequest) (*PlaylistView, error) {
	playlist, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", apperrors.ErrInvalidArgument)
	}

	playlist.Name = name
	playlist.Description = strings.TrimSpace(req.Description)
	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return s.buildView(ctx, playlist.ID)
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, requesterID string) error {
	playlist, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return err
	}

	if err := s.playlistRepo.Delete(ctx, playlist.ID); err != nil {
		s.logger.WithError(err).Error("Playlist delete failed")
		return fmt.Errorf("failed to delete playlist: %w", apperrors.ErrOperationFailed)
	}
	return nil
}

// AddVideo appends a video to the playlist. A video already present is
// rejected as a duplicate.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, requesterID string) (*PlaylistView, error) {
	playlist, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}

	vid, err := parseID(videoID)
	if err != nil {
		return nil, err
	}
	video, err := s.videoRepo.GetByID(ctx, vid)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}

	if err := s.playlistRepo.AddVideo(ctx, playlist.ID, vid); err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("video already in playlist: %w", apperrors.ErrDuplicateEntry)
		}
		return nil, err
	}
	return s.buildView(ctx, playlist.ID)
}

// RemoveVideo removes the membership edge. The video itself must exist;
// removing one that is merely absent from the playlist leaves the playlist
// unchanged.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID string) (*PlaylistView, error) {
	playlist, err := s.ownedPlaylist(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}

	vid, err := parseID(videoID)
	if err != nil {
		return nil, err
	}
	video, err := s.videoRepo.GetByID(ctx, vid)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}

	if err := s.playlistRepo.RemoveVideo(ctx, playlist.ID, vid); err != nil {
		return nil, err
	}
	return s.buildView(ctx, playlist.ID)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, playlistID, requesterID string) (*models.Playlist, error) {
	id, requester, err := parseIDPair(playlistID, requesterID)
	if err != nil {
		return nil, err
	}

	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("playlist: %w", apperrors.ErrNotFound)
	}
	if !canMutate(requester, playlist.OwnerID) {
		return nil, fmt.Errorf("not the playlist owner: %w", apperrors.ErrForbidden)
	}
	return playlist, nil
}

func (s *PlaylistService) buildView(ctx context.Context, id uuid.UUID) (*PlaylistView, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("playlist: %w", apperrors.ErrNotFound)
	}

	videos, err := s.playlistRepo.ListVideos(ctx, id)
	if err != nil {
		return nil, err
	}

	views := make([]VideoView, 0, len(videos))
	for _, v := range videos {
		views = append(views, NewVideoView(v))
	}

	return &PlaylistView{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
		Owner:       playlist.Owner.Public(),
		Videos:      views,
	}, nil
}
