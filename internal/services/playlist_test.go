package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/google/uuid"
)

func newPlaylistTestService(db *fakeDB) *PlaylistService {
	return NewPlaylistService(
		&fakePlaylistStore{db: db},
		&fakeVideoStore{db: db},
		&fakeUserStore{db: db},
		testLogger(),
	)
}

func addPlaylist(db *fakeDB, owner *models.User, name string) *models.Playlist {
	playlist := &models.Playlist{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Name:    name,
		Owner:   *owner,
	}
	db.playlists[playlist.ID] = playlist
	return playlist
}

func TestRemoveVideoRequiresExistingVideo(t *testing.T) {
	db := newFakeDB()
	owner := db.addUser("curator")
	video := db.addVideo(owner, "clip")
	playlist := addPlaylist(db, owner, "favorites")
	db.members[playlist.ID] = append(db.members[playlist.ID], video.ID)

	svc := newPlaylistTestService(db)
	ctx := context.Background()

	_, err := svc.RemoveVideo(ctx, playlist.ID.String(), uuid.NewString(), owner.ID.String())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("RemoveVideo(missing video) error = %v, want ErrNotFound", err)
	}
	if got := len(db.members[playlist.ID]); got != 1 {
		t.Errorf("playlist membership count = %d, want 1 (untouched)", got)
	}
}

func TestRemoveVideoIdempotentForNonMembers(t *testing.T) {
	db := newFakeDB()
	owner := db.addUser("curator")
	member := db.addVideo(owner, "clip")
	outsider := db.addVideo(owner, "other")
	playlist := addPlaylist(db, owner, "favorites")
	db.members[playlist.ID] = append(db.members[playlist.ID], member.ID)

	svc := newPlaylistTestService(db)

	// The video exists but is not in the playlist; removal is a no-op.
	view, err := svc.RemoveVideo(context.Background(), playlist.ID.String(), outsider.ID.String(), owner.ID.String())
	if err != nil {
		t.Fatalf("RemoveVideo(non-member) error = %v, want nil", err)
	}
	if len(view.Videos) != 1 {
		t.Errorf("playlist videos = %d, want 1", len(view.Videos))
	}
}

func TestAddVideoRejectsDuplicates(t *testing.T) {
	db := newFakeDB()
	owner := db.addUser("curator")
	video := db.addVideo(owner, "clip")
	playlist := addPlaylist(db, owner, "favorites")

	svc := newPlaylistTestService(db)
	ctx := context.Background()

	if _, err := svc.AddVideo(ctx, playlist.ID.String(), video.ID.String(), owner.ID.String()); err != nil {
		t.Fatalf("first AddVideo: %v", err)
	}
	if _, err := svc.AddVideo(ctx, playlist.ID.String(), video.ID.String(), owner.ID.String()); !errors.Is(err, apperrors.ErrDuplicateEntry) {
		t.Errorf("second AddVideo error = %v, want ErrDuplicateEntry", err)
	}
}

func TestPlaylistMutationOwnerOnly(t *testing.T) {
	db := newFakeDB()
	owner := db.addUser("curator")
	stranger := db.addUser("stranger")
	video := db.addVideo(owner, "clip")
	playlist := addPlaylist(db, owner, "favorites")
	db.members[playlist.ID] = append(db.members[playlist.ID], video.ID)

	svc := newPlaylistTestService(db)
	ctx := context.Background()

	if _, err := svc.RemoveVideo(ctx, playlist.ID.String(), video.ID.String(), stranger.ID.String()); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("stranger RemoveVideo error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, playlist.ID.String(), stranger.ID.String()); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("stranger Delete error = %v, want ErrForbidden", err)
	}
}
