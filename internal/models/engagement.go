package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VideoID   uuid.UUID `json:"video_id" gorm:"type:uuid;not null;index"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner User  `json:"-" gorm:"foreignKey:OwnerID"`
	Video Video `json:"-" gorm:"foreignKey:VideoID"`
}

type Tweet struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// LikeTarget tags which collection a like points into.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like is a tagged polymorphic edge: exactly one target per row, at most
// one row per (kind, target, user). The unique index is what makes toggle
// operations race-safe under concurrent requests.
type Like struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TargetKind LikeTarget `json:"target_kind" gorm:"type:varchar(16);not null;uniqueIndex:idx_like_target_user"`
	TargetID   uuid.UUID  `json:"target_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_target_user"`
	LikedByID  uuid.UUID  `json:"liked_by_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_target_user"`
	CreatedAt  time.Time  `json:"created_at"`

	LikedBy User `json:"-" gorm:"foreignKey:LikedByID"`
}

// Subscription records that subscriber follows channel. One row per pair,
// enforced by the unique index.
type Subscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SubscriberID uuid.UUID `json:"subscriber_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    uuid.UUID `json:"channel_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	CreatedAt    time.Time `json:"created_at"`

	Subscriber User `json:"-" gorm:"foreignKey:SubscriberID"`
	Channel    User `json:"-" gorm:"foreignKey:ChannelID"`
}

func (Comment) TableName() string {
	return "comments"
}

func (Tweet) TableName() string {
	return "tweets"
}

func (Like) TableName() string {
	return "likes"
}

func (Subscription) TableName() string {
	return "subscriptions"
}
