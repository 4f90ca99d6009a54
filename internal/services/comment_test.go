package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/pkg/apperrors"
)

func newCommentTestService(db *fakeDB) *CommentService {
	return NewCommentService(
		&fakeCommentStore{db: db},
		&fakeVideoStore{db: db},
		&fakeLikeStore{db: db},
		&fakePublisher{},
		testLogger(),
	)
}

func TestDeleteCommentByStrangerForbidden(t *testing.T) {
	db := newFakeDB()
	videoOwner := db.addUser("creator")
	author := db.addUser("author")
	stranger := db.addUser("stranger")
	video := db.addVideo(videoOwner, "clip")
	comment := db.addComment(video, author, "first")

	svc := newCommentTestService(db)
	ctx := context.Background()

	err := svc.Delete(ctx, comment.ID.String(), stranger.ID.String())
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("stranger delete error = %v, want ErrForbidden", err)
	}
	if _, ok := db.comments[comment.ID]; !ok {
		t.Error("comment was removed by a forbidden delete")
	}
}

func TestDeleteCommentByAuthor(t *testing.T) {
	db := newFakeDB()
	videoOwner := db.addUser("creator")
	author := db.addUser("author")
	video := db.addVideo(videoOwner, "clip")
	comment := db.addComment(video, author, "first")
	db.addLike(models.LikeTargetComment, comment.ID, videoOwner.ID)

	svc := newCommentTestService(db)

	if err := svc.Delete(context.Background(), comment.ID.String(), author.ID.String()); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, ok := db.comments[comment.ID]; ok {
		t.Error("comment still present after author delete")
	}
	if got := db.likeCount(models.LikeTargetComment, comment.ID); got != 0 {
		t.Errorf("comment likes remaining = %d, want 0", got)
	}
}

func TestDeleteCommentByVideoOwner(t *testing.T) {
	db := newFakeDB()
	videoOwner := db.addUser("creator")
	author := db.addUser("author")
	video := db.addVideo(videoOwner, "clip")
	comment := db.addComment(video, author, "spam")

	svc := newCommentTestService(db)

	if err := svc.Delete(context.Background(), comment.ID.String(), videoOwner.ID.String()); err != nil {
		t.Fatalf("video owner delete: %v", err)
	}
	if _, ok := db.comments[comment.ID]; ok {
		t.Error("comment still present after video owner delete")
	}
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	db := newFakeDB()
	videoOwner := db.addUser("creator")
	author := db.addUser("author")
	video := db.addVideo(videoOwner, "clip")
	comment := db.addComment(video, author, "first")

	svc := newCommentTestService(db)
	ctx := context.Background()

	// Owning the video does not grant edit rights over its comments.
	_, err := svc.Update(ctx, comment.ID.String(), videoOwner.ID.String(), &CommentRequest{Content: "edited"})
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("video owner update error = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(ctx, comment.ID.String(), author.ID.String(), &CommentRequest{Content: "edited"})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("updated content = %q, want %q", updated.Content, "edited")
	}
}

func TestAddCommentMissingVideo(t *testing.T) {
	db := newFakeDB()
	author := db.addUser("author")

	svc := newCommentTestService(db)

	_, err := svc.Add(context.Background(), "00000000-0000-0000-0000-000000000001", author.ID.String(), &CommentRequest{Content: "hi"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Add on missing video error = %v, want ErrNotFound", err)
	}
}
