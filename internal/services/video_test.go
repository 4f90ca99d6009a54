package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/google/uuid"
)

func newVideoTestService(db *fakeDB) (*VideoService, *fakeMediaStore) {
	media := &fakeMediaStore{}
	svc := NewVideoService(
		&fakeVideoStore{db: db},
		&fakeCommentStore{db: db},
		&fakeLikeStore{db: db},
		&fakeSubscriptionStore{db: db},
		&fakeWatchHistoryStore{db: db},
		media,
		&fakePublisher{},
		testLogger(),
	)
	return svc, media
}

func TestDeleteVideoCascadeLeavesNoOrphans(t *testing.T) {
	db := newFakeDB()
	owner := db.addUser("creator")
	fan := db.addUser("fan")
	video := db.addVideo(owner, "clip")
	comment := db.addComment(video, fan, "great")
	db.addLike(models.LikeTargetVideo, video.ID, fan.ID)
	db.addLike(models.LikeTargetComment, comment.ID, owner.ID)

	// Membership and history edges that the cascade must also remove.
	playlist := &models.Playlist{ID: uuid.New(), OwnerID: fan.ID, Name: "favorites"}
	db.playlists[playlist.ID] = playlist
	db.members[playlist.ID] = append(db.members[playlist.ID], video.ID)
	db.history[fan.ID] = append(db.history[fan.ID], video.ID)

	svc, media := newVideoTestService(db)
	ctx := context.Background()

	if err := svc.Delete(ctx, video.ID.String(), owner.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := db.videos[video.ID]; ok {
		t.Error("video still present after delete")
	}
	if _, ok := db.comments[comment.ID]; ok {
		t.Error("comment still present after video delete")
	}
	if len(db.likes) != 0 {
		t.Errorf("likes remaining after cascade = %d, want 0", len(db.likes))
	}
	for playlistID, videoIDs := range db.members {
		for _, id := range videoIDs {
			if id == video.ID {
				t.Errorf("playlist %s still references deleted video", playlistID)
			}
		}
	}
	for userID, videoIDs := range db.history {
		for _, id := range videoIDs {
			if id == video.ID {
				t.Errorf("watch history of %s still references deleted video", userID)
			}
		}
	}

	deleted := map[string]bool{}
	for _, url := range media.deleted {
		deleted[url] = true
	}
	if !deleted[video.Thumbnail] || !deleted[video.VideoFile] {
		t.Errorf("media deletes = %v, want thumbnail and video file", media.deleted)
	}
}

func TestDeleteVideoNotOwnerForbidden(t *testing.T) {
	db := newFakeDB()
	owner := db.addUser("creator")
	stranger := db.addUser("stranger")
	video := db.addVideo(owner, "clip")

	svc, _ := newVideoTestService(db)

	err := svc.Delete(context.Background(), video.ID.String(), stranger.ID.String())
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("stranger delete error = %v, want ErrForbidden", err)
	}
	if _, ok := db.videos[video.ID]; !ok {
		t.Error("video was removed by a forbidden delete")
	}
}

func TestGetVideoUnpublishedHiddenFromStrangers(t *testing.T) {
	db := newFakeDB()
	owner := db.addUser("creator")
	stranger := db.addUser("stranger")
	video := db.addVideo(owner, "draft")
	db.videos[video.ID].IsPublished = false

	svc, _ := newVideoTestService(db)
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, video.ID.String(), stranger.ID.String()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("stranger GetByID error = %v, want ErrNotFound", err)
	}

	detail, err := svc.GetByID(ctx, video.ID.String(), owner.ID.String())
	if err != nil {
		t.Fatalf("owner GetByID: %v", err)
	}
	if detail.IsPublished {
		t.Error("detail reports published for an unpublished video")
	}
}
