package services

import (
	"testing"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/google/uuid"
)

func TestNewVideoViewProjectsOwnerPublicFields(t *testing.T) {
	owner := models.User{
		ID:           uuid.New(),
		Username:     "alice",
		FullName:     "Alice Example",
		Avatar:       "https://cdn.example.com/avatars/a.png",
		Email:        "alice@example.com",
		Password:     "hashed",
		RefreshToken: "secret-token",
	}
	video := &models.Video{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Title:     "intro",
		VideoFile: "https://cdn.example.com/videos/v.mp4",
		Thumbnail: "https://cdn.example.com/thumbnails/t.png",
		Views:     7,
		Owner:     owner,
	}

	view := NewVideoView(video)

	if view.ID != video.ID {
		t.Errorf("ID = %v, want %v", view.ID, video.ID)
	}
	if view.Owner.ID != owner.ID || view.Owner.Username != "alice" {
		t.Errorf("owner projection = %+v", view.Owner)
	}
	if view.Views != 7 {
		t.Errorf("Views = %d, want 7", view.Views)
	}
}

func TestNewCommentViewOwnerFlag(t *testing.T) {
	ownerID := uuid.New()
	comment := &models.Comment{
		ID:      uuid.New(),
		VideoID: uuid.New(),
		OwnerID: ownerID,
		Content: "nice",
	}

	asOwner := NewCommentView(comment, 3, true, ownerID)
	if !asOwner.IsOwner {
		t.Error("IsOwner = false for the comment author")
	}
	if asOwner.LikeCount != 3 || !asOwner.LikedByUser {
		t.Errorf("like fold = (%d, %v), want (3, true)", asOwner.LikeCount, asOwner.LikedByUser)
	}

	asStranger := NewCommentView(comment, 3, false, uuid.New())
	if asStranger.IsOwner {
		t.Error("IsOwner = true for a stranger")
	}

	asAnonymous := NewCommentView(comment, 3, false, uuid.Nil)
	if asAnonymous.IsOwner {
		t.Error("IsOwner = true for an anonymous viewer")
	}
}
