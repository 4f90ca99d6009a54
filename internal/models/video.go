package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	VideoFile   string    `json:"video_file" gorm:"not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views" gorm:"default:0"`
	IsPublished bool      `json:"is_published" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

type Playlist struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// PlaylistVideo is the membership edge between a playlist and a video.
// The unique index makes adding the same video twice a constraint
// violation rather than a silent duplicate.
type PlaylistVideo struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlaylistID uuid.UUID `json:"playlist_id" gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video"`
	VideoID    uuid.UUID `json:"video_id" gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video"`
	CreatedAt  time.Time `json:"created_at"`

	Video Video `json:"-" gorm:"foreignKey:VideoID"`
}

func (Video) TableName() string {
	return "videos"
}

func (Playlist) TableName() string {
	return "playlists"
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
