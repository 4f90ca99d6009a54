package services

import (
	"context"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
)

// Storage interfaces consumed by the service layer. The gorm repositories in
// internal/repository are the production implementations; tests substitute
// in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
}

type VideoStore interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SearchByText(ctx context.Context, query, order string, offset, limit int) ([]*models.Video, int64, error)
	SearchByOwnerUsername(ctx context.Context, username, order string, offset, limit int) ([]*models.Video, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Video, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	SumViewsByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	DeleteCascade(ctx context.Context, videoID uuid.UUID) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByVideo(ctx context.Context, videoID uuid.UUID, offset, limit int) ([]*models.Comment, int64, error)
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
	CountByVideos(ctx context.Context, videoIDs []uuid.UUID) (int64, error)
	IDsByVideos(ctx context.Context, videoIDs []uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, comment *models.Comment) error
	DeleteCascade(ctx context.Context, commentID uuid.UUID) error
}

type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error)
	CountByTarget(ctx context.Context, kind models.LikeTarget, targetID uuid.UUID) (int64, error)
	CountByTargets(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID) (int64, error)
	CountsPerTarget(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	IsLiked(ctx context.Context, kind models.LikeTarget, targetID, userID uuid.UUID) (bool, error)
	LikedTargetsOf(ctx context.Context, kind models.LikeTarget, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error)
	VideoIDsLikedBy(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type SubscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	ListSubscribers(ctx context.Context, channelID uuid.UUID, offset, limit int) ([]*models.User, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, offset, limit int) ([]*models.User, error)
}

type TweetStore interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tweet, error)
	Update(ctx context.Context, tweet *models.Tweet) error
	DeleteCascade(ctx context.Context, tweetID uuid.UUID) error
}

type PlaylistStore interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, playlistID uuid.UUID) error
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
	ListVideos(ctx context.Context, playlistID uuid.UUID) ([]*models.Video, error)
}

type WatchHistoryStore interface {
	Append(ctx context.Context, userID, videoID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Video, error)
}

// EventPublisher is the outbound event channel; pkg/queue.KafkaProducer is
// the production implementation.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}
