package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/internal/pagination"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
	"github.com/google/uuid"
)

// videoSortFields is the sort allow-list for the browse/search view.
var videoSortFields = []string{"title", "created_at", "views"}

type VideoService struct {
	videoRepo   VideoStore
	commentRepo CommentStore
	likeRepo    LikeStore
	subRepo     SubscriptionStore
	watchRepo   WatchHistoryStore
	media       MediaStore
	producer    EventPublisher
	logger      *logger.Logger
}

func NewVideoService(
	videoRepo VideoStore,
	commentRepo CommentStore,
	likeRepo LikeStore,
	subRepo SubscriptionStore,
	watchRepo WatchHistoryStore,
	media MediaStore,
	producer EventPublisher,
	logger *logger.Logger,
) *VideoService {
	return &VideoService{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		subRepo:     subRepo,
		watchRepo:   watchRepo,
		media:       media,
		producer:    producer,
		logger:      logger,
	}
}

type PublishVideoRequest struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description" binding:"required"`
	Duration    float64 `form:"duration"`
}

type UpdateVideoRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
}

type ListVideosRequest struct {
	Query    string
	Username string
	Page     int
	Limit    int
	SortBy   string
	SortType string
}

// Publish uploads the media first, then persists and re-fetches the
// canonical record.
func (s *VideoService) Publish(ctx context.Context, ownerID string, req *PublishVideoRequest, videoFile, thumbnail *FileUpload) (*models.Video, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("title and description are required: %w", apperrors.ErrInvalidArgument)
	}
	if videoFile == nil || thumbnail == nil {
		return nil, fmt.Errorf("video file and thumbnail are required: %w", apperrors.ErrInvalidArgument)
	}

	videoURL, err := s.media.Put(ctx, "videos", videoFile.Filename, videoFile.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", apperrors.ErrOperationFailed)
	}
	thumbnailURL, err := s.media.Put(ctx, "thumbnails", thumbnail.Filename, thumbnail.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload thumbnail: %w", apperrors.ErrOperationFailed)
	}

	video := &models.Video{
		OwnerID:     owner,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       title,
		Description: description,
		Duration:    req.Duration,
		IsPublished: true,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}

	created, err := s.videoRepo.GetByID(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created video missing: %w", apperrors.ErrOperationFailed)
	}

	s.publishEvent(ctx, queue.EventVideoPublished, created.OwnerID, queue.VideoEventData{
		VideoID: created.ID.String(),
		OwnerID: created.OwnerID.String(),
		Title:   created.Title,
	})

	s.logger.WithFields(map[string]interface{}{
		"video_id": created.ID,
		"owner_id": created.OwnerID,
	}).Info("Video published")

	return created, nil
}

// GetByID builds the video detail view: the record, owner profile, like and
// comment counts, channel subscriber count and the viewer's flags. As side
// effects it blindly bumps the view counter and, for authenticated viewers,
// appends the video to their watch history when absent.
//
// Unpublished videos are visible only to their owner; everyone else gets
// NotFound rather than Forbidden, so existence is not leaked.
func (s *VideoService) GetByID(ctx context.Context, videoID, viewerID string) (*VideoDetail, error) {
	id, err := parseID(videoID)
	if err != nil {
		return nil, err
	}

	viewer := uuid.Nil
	if v, err := uuid.Parse(viewerID); err == nil {
		viewer = v
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}
	if !video.IsPublished && video.OwnerID != viewer {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}

	if err := s.videoRepo.IncrementViews(ctx, id); err != nil {
		s.logger.WithError(err).Error("Failed to increment view counter")
	}
	video.Views++

	// Independent fan-outs from the same root; each folds to a count or
	// flag on its own joined set.
	likeCount, err := s.likeRepo.CountByTarget(ctx, models.LikeTargetVideo, id)
	if err != nil {
		return nil, err
	}
	commentCount, err := s.commentRepo.CountByVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	subscriberCount, err := s.subRepo.CountSubscribers(ctx, video.OwnerID)
	if err != nil {
		return nil, err
	}

	likedByUser := false
	subscribed := false
	if viewer != uuid.Nil {
		likedByUser, err = s.likeRepo.IsLiked(ctx, models.LikeTargetVideo, id, viewer)
		if err != nil {
			return nil, err
		}
		subscribed, err = s.subRepo.IsSubscribed(ctx, viewer, video.OwnerID)
		if err != nil {
			return nil, err
		}

		if err := s.watchRepo.Append(ctx, viewer, id); err != nil {
			s.logger.WithError(err).Error("Failed to append watch history")
		}
	}

	return &VideoDetail{
		VideoView:       NewVideoView(video),
		LikeCount:       likeCount,
		LikedByUser:     likedByUser,
		CommentCount:    commentCount,
		SubscriberCount: subscriberCount,
		Subscribed:      subscribed,
	}, nil
}

// List searches published videos either by free-text match on title or
// description, or by uploader username. The two filter modes are mutually
// exclusive.
func (s *VideoService) List(ctx context.Context, req *ListVideosRequest) (*VideoPage, error) {
	sortBy := req.SortBy
	sortType := req.SortType
	if sortBy == "" {
		sortBy = "created_at"
	}
	if sortType == "" {
		sortType = pagination.SortDesc
	}

	params, err := pagination.New(req.Page, req.Limit, sortBy, sortType, videoSortFields)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Query)
	username := strings.TrimSpace(req.Username)
	if query == "" && username == "" {
		return nil, fmt.Errorf("query or username is required: %w", apperrors.ErrInvalidArgument)
	}
	if query != "" && username != "" {
		return nil, fmt.Errorf("query and username filters cannot be combined: %w", apperrors.ErrInvalidArgument)
	}

	var (
		videos []*models.Video
		total  int64
	)
	if username != "" {
		videos, total, err = s.videoRepo.SearchByOwnerUsername(ctx, username, params.OrderClause(), params.Offset(), params.Limit)
	} else {
		videos, total, err = s.videoRepo.SearchByText(ctx, query, params.OrderClause(), params.Offset(), params.Limit)
	}
	if err != nil {
		return nil, err
	}

	views := make([]VideoView, 0, len(videos))
	for _, video := range videos {
		views = append(views, NewVideoView(video))
	}

	return &VideoPage{
		Videos:      views,
		TotalVideos: total,
		TotalPages:  pagination.TotalPages(total, params.Limit),
	}, nil
}

// Update applies new metadata and replaces the thumbnail. The new blob is
// uploaded first; the old blob is deleted only after a successful persist,
// and the new blob is deleted as compensation when the persist fails.
func (s *VideoService) Update(ctx context.Context, videoID, requesterID string, req *UpdateVideoRequest, thumbnail *FileUpload) (*models.Video, error) {
	id, err := parseID(videoID)
	if err != nil {
		return nil, err
	}
	requester, err := parseID(requesterID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" || thumbnail == nil {
		return nil, fmt.Errorf("title, description and thumbnail are required: %w", apperrors.ErrInvalidArgument)
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}
	if !canMutate(requester, video.OwnerID) {
		return nil, fmt.Errorf("not the video owner: %w", apperrors.ErrForbidden)
	}

	newThumbnail, err := s.media.Put(ctx, "thumbnails", thumbnail.Filename, thumbnail.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload thumbnail: %w", apperrors.ErrOperationFailed)
	}

	oldThumbnail := video.Thumbnail
	video.Title = title
	video.Description = description
	video.Thumbnail = newThumbnail

	if err := s.videoRepo.Update(ctx, video); err != nil {
		if delErr := s.media.Delete(ctx, newThumbnail); delErr != nil {
			s.logger.WithError(delErr).Error("Failed to delete orphaned thumbnail")
		}
		return nil, fmt.Errorf("failed to update video: %w", apperrors.ErrOperationFailed)
	}

	if err := s.media.Delete(ctx, oldThumbnail); err != nil {
		s.logger.WithError(err).Error("Failed to delete old thumbnail")
	}

	return video, nil
}

// Delete removes the video, its comments, every dependent like, playlist
// membership and watch-history entry in one transaction, then deletes the
// media blobs.
func (s *VideoService) Delete(ctx context.Context, videoID, requesterID string) error {
	id, err := parseID(videoID)
	if err != nil {
		return err
	}
	requester, err := parseID(requesterID)
	if err != nil {
		return err
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if video == nil {
		return fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}
	if !canMutate(requester, video.OwnerID) {
		return fmt.Errorf("not the video owner: %w", apperrors.ErrForbidden)
	}

	if err := s.videoRepo.DeleteCascade(ctx, id); err != nil {
		s.logger.WithError(err).Error("Video cascade delete failed")
		return fmt.Errorf("failed to delete video: %w", apperrors.ErrOperationFailed)
	}

	for _, url := range []string{video.Thumbnail, video.VideoFile} {
		if err := s.media.Delete(ctx, url); err != nil {
			s.logger.WithError(err).Error("Failed to delete video media")
		}
	}

	s.publishEvent(ctx, queue.EventVideoDeleted, video.OwnerID, queue.VideoEventData{
		VideoID: video.ID.String(),
		OwnerID: video.OwnerID.String(),
	})

	s.logger.WithFields(map[string]interface{}{
		"video_id": video.ID,
		"owner_id": video.OwnerID,
	}).Info("Video deleted")

	return nil
}

// TogglePublish flips the visibility gate on the owner's video.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, requesterID string) (*models.Video, error) {
	id, err := parseID(videoID)
	if err != nil {
		return nil, err
	}
	requester, err := parseID(requesterID)
	if err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}
	if !canMutate(requester, video.OwnerID) {
		return nil, fmt.Errorf("not the video owner: %w", apperrors.ErrForbidden)
	}

	video.IsPublished = !video.IsPublished
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) publishEvent(ctx context.Context, eventType queue.EventType, channelID uuid.UUID, data interface{}) {
	event, err := queue.NewEvent(eventType, channelID.String(), data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build event")
		return
	}
	if err := s.producer.Publish(ctx, channelID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish event")
	}
}
