package services

import (
	"time"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
)

// View types returned by the aggregation layer. Each is a denormalized
// fold of one root record plus independent fan-out joins; counts default
// to 0 and flags to false when the joined set is empty.

type VideoView struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	VideoFile   string               `json:"video_file"`
	Thumbnail   string               `json:"thumbnail"`
	Duration    float64              `json:"duration"`
	Views       int64                `json:"views"`
	IsPublished bool                 `json:"is_published"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Owner       models.PublicProfile `json:"owner"`
}

func NewVideoView(v *models.Video) VideoView {
	return VideoView{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		Owner:       v.Owner.Public(),
	}
}

type VideoDetail struct {
	VideoView
	LikeCount       int64 `json:"like_count"`
	LikedByUser     bool  `json:"liked_by_user"`
	CommentCount    int64 `json:"comment_count"`
	SubscriberCount int64 `json:"subscriber_count"`
	Subscribed      bool  `json:"subscribed"`
}

type VideoPage struct {
	Videos      []VideoView `json:"videos"`
	TotalVideos int64       `json:"total_videos"`
	TotalPages  int64       `json:"total_pages"`
}

type CommentView struct {
	ID          uuid.UUID            `json:"id"`
	VideoID     uuid.UUID            `json:"video_id"`
	Content     string               `json:"content"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Owner       models.PublicProfile `json:"owner"`
	LikeCount   int64                `json:"like_count"`
	LikedByUser bool                 `json:"liked_by_user"`
	IsOwner     bool                 `json:"is_owner"`
}

// NewCommentView folds one comment with its like metrics. viewerID is Nil
// for anonymous requests, which leaves both viewer flags false.
func NewCommentView(c *models.Comment, likeCount int64, likedByUser bool, viewerID uuid.UUID) CommentView {
	return CommentView{
		ID:          c.ID,
		VideoID:     c.VideoID,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Owner:       c.Owner.Public(),
		LikeCount:   likeCount,
		LikedByUser: likedByUser,
		IsOwner:     viewerID != uuid.Nil && viewerID == c.OwnerID,
	}
}

type CommentPage struct {
	Comments      []CommentView `json:"comments"`
	TotalComments int64         `json:"total_comments"`
	TotalPages    int64         `json:"total_pages"`
}

type ChannelProfile struct {
	models.PublicProfile
	CoverImage        string `json:"cover_image"`
	SubscriberCount   int64  `json:"subscriber_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	Subscribed        bool   `json:"subscribed"`
}

// ChannelStats carries the dashboard aggregates. Every field is an
// independent fold over the owner's video set; an owner with no videos
// gets explicit zeros, never missing fields.
type ChannelStats struct {
	TotalVideos       int64 `json:"total_videos"`
	TotalViews        int64 `json:"total_views"`
	TotalComments     int64 `json:"total_comments"`
	TotalVideoLikes   int64 `json:"total_video_likes"`
	TotalCommentLikes int64 `json:"total_comment_likes"`
	TotalSubscribers  int64 `json:"total_subscribers"`
}

type ChannelVideo struct {
	VideoView
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

type TweetView struct {
	ID        uuid.UUID            `json:"id"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Owner     models.PublicProfile `json:"owner"`
	LikeCount int64                `json:"like_count"`
	IsOwner   bool                 `json:"is_owner"`
}

type PlaylistView struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Owner       models.PublicProfile `json:"owner"`
	Videos      []VideoView          `json:"videos"`
}
