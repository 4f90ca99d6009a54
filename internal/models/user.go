package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"not null"`
	FullName     string    `json:"full_name" gorm:"not null"`
	Avatar       string    `json:"avatar" gorm:"not null"`
	CoverImage   string    `json:"cover_image"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile is the projection of a user exposed inside aggregated
// views. Credentials and session state never leave the service layer.
type PublicProfile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Avatar   string    `json:"avatar"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

// WatchHistoryEntry records one video in a user's watch history. The unique
// index keeps the sequence duplicate-free; CreatedAt preserves insertion
// order.
type WatchHistoryEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_watch_user_video"`
	VideoID   uuid.UUID `json:"video_id" gorm:"type:uuid;not null;uniqueIndex:idx_watch_user_video"`
	CreatedAt time.Time `json:"created_at"`

	Video Video `json:"video" gorm:"foreignKey:VideoID"`
}

func (User) TableName() string {
	return "users"
}

func (WatchHistoryEntry) TableName() string {
	return "watch_history_entries"
}
