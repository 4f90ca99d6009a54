package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/pkg/cache"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/google/uuid"
)

// DashboardService builds the channel owner's aggregates. Stats are served
// from redis when fresh; the worker refreshes the cached entry whenever an
// engagement event lands on the channel.
type DashboardService struct {
	videoRepo   VideoStore
	commentRepo CommentStore
	likeRepo    LikeStore
	subRepo     SubscriptionStore
	cache       *cache.RedisClient
	statsTTL    time.Duration
	logger      *logger.Logger
}

func NewDashboardService(
	videoRepo VideoStore,
	commentRepo CommentStore,
	likeRepo LikeStore,
	subRepo SubscriptionStore,
	cache *cache.RedisClient,
	statsTTL time.Duration,
	logger *logger.Logger,
) *DashboardService {
	return &DashboardService{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		subRepo:     subRepo,
		cache:       cache,
		statsTTL:    statsTTL,
		logger:      logger,
	}
}

func statsCacheKey(channelID uuid.UUID) string {
	return fmt.Sprintf("dashboard:stats:%s", channelID)
}

// GetChannelStats returns the six channel aggregates, preferring the cached
// copy. Cache failures degrade to a direct computation.
func (s *DashboardService) GetChannelStats(ctx context.Context, channelID string) (*ChannelStats, error) {
	channel, err := parseID(channelID)
	if err != nil {
		return nil, err
	}

	var cached ChannelStats
	cacheErr := s.cache.GetJSON(ctx, statsCacheKey(channel), &cached)
	if cacheErr == nil {
		return &cached, nil
	}
	if !cache.IsMiss(cacheErr) {
		s.logger.WithError(cacheErr).Warn("Dashboard stats cache read failed")
	}

	stats, err := s.computeStats(ctx, channel)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, statsCacheKey(channel), stats, s.statsTTL); err != nil {
		s.logger.WithError(err).Warn("Dashboard stats cache write failed")
	}
	return stats, nil
}

// RefreshChannelStats recomputes the aggregates and overwrites the cached
// entry. The stats worker calls this on every engagement event.
func (s *DashboardService) RefreshChannelStats(ctx context.Context, channelID string) error {
	channel, err := parseID(channelID)
	if err != nil {
		return err
	}

	stats, err := s.computeStats(ctx, channel)
	if err != nil {
		return err
	}
	return s.cache.SetJSON(ctx, statsCacheKey(channel), stats, s.statsTTL)
}

// computeStats runs the six independent folds over the owner's content.
// Each defaults to zero on an empty set; an owner with no videos still gets
// a complete, all-zero result.
func (s *DashboardService) computeStats(ctx context.Context, channel uuid.UUID) (*ChannelStats, error) {
	totalVideos, err := s.videoRepo.CountByOwner(ctx, channel)
	if err != nil {
		return nil, err
	}
	totalViews, err := s.videoRepo.SumViewsByOwner(ctx, channel)
	if err != nil {
		return nil, err
	}

	videoIDs, err := s.videoRepo.IDsByOwner(ctx, channel)
	if err != nil {
		return nil, err
	}

	totalComments, err := s.commentRepo.CountByVideos(ctx, videoIDs)
	if err != nil {
		return nil, err
	}
	totalVideoLikes, err := s.likeRepo.CountByTargets(ctx, models.LikeTargetVideo, videoIDs)
	if err != nil {
		return nil, err
	}

	commentIDs, err := s.commentRepo.IDsByVideos(ctx, videoIDs)
	if err != nil {
		return nil, err
	}
	totalCommentLikes, err := s.likeRepo.CountByTargets(ctx, models.LikeTargetComment, commentIDs)
	if err != nil {
		return nil, err
	}

	totalSubscribers, err := s.subRepo.CountSubscribers(ctx, channel)
	if err != nil {
		return nil, err
	}

	return &ChannelStats{
		TotalVideos:       totalVideos,
		TotalViews:        totalViews,
		TotalComments:     totalComments,
		TotalVideoLikes:   totalVideoLikes,
		TotalCommentLikes: totalCommentLikes,
		TotalSubscribers:  totalSubscribers,
	}, nil
}

// GetChannelVideos lists every video the owner has uploaded, published or
// not, each with its like and comment counts.
func (s *DashboardService) GetChannelVideos(ctx context.Context, channelID string) ([]ChannelVideo, error) {
	channel, err := parseID(channelID)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.ListByOwner(ctx, channel)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}

	likeCounts, err := s.likeRepo.CountsPerTarget(ctx, models.LikeTargetVideo, ids)
	if err != nil {
		return nil, err
	}

	result := make([]ChannelVideo, 0, len(videos))
	for _, v := range videos {
		commentCount, err := s.commentRepo.CountByVideo(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ChannelVideo{
			VideoView:    NewVideoView(v),
			LikeCount:    likeCounts[v.ID],
			CommentCount: commentCount,
		})
	}
	return result, nil
}
