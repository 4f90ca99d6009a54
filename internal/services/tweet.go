package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/google/uuid"
)

type TweetService struct {
	tweetRepo TweetStore
	userRepo  UserStore
	likeRepo  LikeStore
	logger    *logger.Logger
}

func NewTweetService(
	tweetRepo TweetStore,
	userRepo UserStore,
	likeRepo LikeStore,
	logger *logger.Logger,
) *TweetService {
	return &TweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
		likeRepo:  likeRepo,
		logger:    logger,
	}
}

type TweetRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *TweetService) Create(ctx context.Context, ownerID string, req *TweetRequest) (*TweetView, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperrors.ErrInvalidArgument)
	}

	tweet := &models.Tweet{
		OwnerID: owner,
		Content: content,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}

	created, err := s.tweetRepo.GetByID(ctx, tweet.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created tweet missing: %w", apperrors.ErrOperationFailed)
	}

	view := s.newTweetView(created, 0, owner)
	return &view, nil
}

// ListByUser returns all of a user's tweets, newest first, each with its
// like count.
func (s *TweetService) ListByUser(ctx context.Context, userID, viewerID string) ([]TweetView, error) {
	owner, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	viewer := uuid.Nil
	if v, err := uuid.Parse(viewerID); err == nil {
		viewer = v
	}

	user, err := s.userRepo.GetByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}

	tweets, err := s.tweetRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(tweets))
	for _, t := range tweets {
		ids = append(ids, t.ID)
	}
	counts, err := s.likeRepo.CountsPerTarget(ctx, models.LikeTargetTweet, ids)
	if err != nil {
		return nil, err
	}

	views := make([]TweetView, 0, len(tweets))
	for _, t := range tweets {
		views = append(views, s.newTweetView(t, counts[t.ID], viewer))
	}
	return views, nil
}

func (s *TweetService) Update(ctx context.Context, tweetID, requesterID string, req *TweetRequest) (*TweetView, error) {
	id, requester, err := parseIDPair(tweetID, requesterID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperrors.ErrInvalidArgument)
	}

	tweet, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tweet == nil {
		return nil, fmt.Errorf("tweet: %w", apperrors.ErrNotFound)
	}
	if !canMutate(requester, tweet.OwnerID) {
		return nil, fmt.Errorf("not the tweet owner: %w", apperrors.ErrForbidden)
	}

	tweet.Content = content
	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		return nil, err
	}

	likeCount, err := s.likeRepo.CountByTarget(ctx, models.LikeTargetTweet, id)
	if err != nil {
		return nil, err
	}

	view := s.newTweetView(tweet, likeCount, requester)
	return &view, nil
}

// Delete removes the tweet and its likes. Owner only.
func (s *TweetService) Delete(ctx context.Context, tweetID, requesterID string) error {
	id, requester, err := parseIDPair(tweetID, requesterID)
	if err != nil {
		return err
	}

	tweet, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tweet == nil {
		return fmt.Errorf("tweet: %w", apperrors.ErrNotFound)
	}
	if !canMutate(requester, tweet.OwnerID) {
		return fmt.Errorf("not the tweet owner: %w", apperrors.ErrForbidden)
	}

	if err := s.tweetRepo.DeleteCascade(ctx, id); err != nil {
		s.logger.WithError(err).Error("Tweet cascade delete failed")
		return fmt.Errorf("failed to delete tweet: %w", apperrors.ErrOperationFailed)
	}
	return nil
}

func (s *TweetService) newTweetView(t *models.Tweet, likeCount int64, viewerID uuid.UUID) TweetView {
	return TweetView{
		ID:        t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Owner:     t.Owner.Public(),
		LikeCount: likeCount,
		IsOwner:   viewerID != uuid.Nil && viewerID == t.OwnerID,
	}
}
