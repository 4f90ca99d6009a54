package services

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
	"github.com/google/uuid"
)

type LikeService struct {
	likeRepo    LikeStore
	videoRepo   VideoStore
	commentRepo CommentStore
	tweetRepo   TweetStore
	producer    EventPublisher
	logger      *logger.Logger
}

func NewLikeService(
	likeRepo LikeStore,
	videoRepo VideoStore,
	commentRepo CommentStore,
	tweetRepo TweetStore,
	producer EventPublisher,
	logger *logger.Logger,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
		producer:    producer,
		logger:      logger,
	}
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Liked bool `json:"liked"`
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, videoID, userID string) (*ToggleResult, error) {
	id, user, err := parseIDPair(videoID, userID)
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

	return s.toggle(ctx, models.LikeTargetVideo, id, user, video.OwnerID)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, commentID, userID string) (*ToggleResult, error) {
	id, user, err := parseIDPair(commentID, userID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, fmt.Errorf("comment: %w", apperrors.ErrNotFound)
	}

	return s.toggle(ctx, models.LikeTargetComment, id, user, comment.OwnerID)
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, tweetID, userID string) (*ToggleResult, error) {
	id, user, err := parseIDPair(tweetID, userID)
	if err != nil {
		return nil, err
	}

	tweet, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tweet == nil {
		return nil, fmt.Errorf("tweet: %w", apperrors.ErrNotFound)
	}

	return s.toggle(ctx, models.LikeTargetTweet, id, user, tweet.OwnerID)
}

// toggle flips the (kind, target, user) like edge. The insert-first order
// makes concurrent toggles converge: a racing duplicate insert falls
// through to the delete branch, and a delete that removed nothing reports
// the edge as already gone.
func (s *LikeService) toggle(ctx context.Context, kind models.LikeTarget, targetID, userID, channelID uuid.UUID) (*ToggleResult, error) {
	liked := true
	err := s.likeRepo.Create(ctx, &models.Like{
		TargetKind: kind,
		TargetID:   targetID,
		LikedByID:  userID,
	})
	if err != nil {
		if !repository.IsDuplicate(err) {
			return nil, err
		}
		// Whether this request removed the row or a racing one beat it to
		// the delete, the edge is gone.
		if _, err := s.likeRepo.Delete(ctx, kind, targetID, userID); err != nil {
			return nil, err
		}
		liked = false
	}

	event, err := queue.NewEvent(queue.EventLikeToggled, channelID.String(), queue.LikeEventData{
		TargetKind: string(kind),
		TargetID:   targetID.String(),
		UserID:     userID.String(),
		Liked:      liked,
	})
	if err == nil {
		if err := s.producer.Publish(ctx, channelID.String(), event); err != nil {
			s.logger.WithError(err).Error("Failed to publish event")
		}
	}

	return &ToggleResult{Liked: liked}, nil
}

// GetLikedVideos resolves the user's liked video IDs, newest like first,
// into full video views. Videos deleted since the like was recorded are
// skipped.
func (s *LikeService) GetLikedVideos(ctx context.Context, userID string) ([]VideoView, error) {
	user, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	ids, err := s.likeRepo.VideoIDsLikedBy(ctx, user)
	if err != nil {
		return nil, err
	}

	views := make([]VideoView, 0, len(ids))
	for _, id := range ids {
		video, err := s.videoRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if video == nil {
			continue
		}
		views = append(views, NewVideoView(video))
	}
	return views, nil
}

func parseIDPair(targetID, userID string) (uuid.UUID, uuid.UUID, error) {
	target, err := parseID(targetID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	user, err := parseID(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return target, user, nil
}
