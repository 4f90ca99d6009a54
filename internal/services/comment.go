package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cliptube/cliptube/internal/models"
	"github.com/cliptube/cliptube/internal/pagination"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/cliptube/cliptube/pkg/logger"
	"github.com/cliptube/cliptube/pkg/queue"
	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo CommentStore
	videoRepo   VideoStore
	likeRepo    LikeStore
	producer    EventPublisher
	logger      *logger.Logger
}

func NewCommentService(
	commentRepo CommentStore,
	videoRepo VideoStore,
	likeRepo LikeStore,
	producer EventPublisher,
	logger *logger.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		likeRepo:    likeRepo,
		producer:    producer,
		logger:      logger,
	}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Add attaches a new comment to an existing video.
func (s *CommentService) Add(ctx context.Context, videoID, ownerID string, req *CommentRequest) (*CommentView, error) {
	vid, err := parseID(videoID)
	if err != nil {
		return nil, err
	}
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperrors.ErrInvalidArgument)
	}

	video, err := s.videoRepo.GetByID(ctx, vid)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}

	comment := &models.Comment{
		VideoID: vid,
		OwnerID: owner,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created comment missing: %w", apperrors.ErrOperationFailed)
	}

	event, err := queue.NewEvent(queue.EventCommentCreated, video.OwnerID.String(), queue.CommentEventData{
		CommentID: created.ID.String(),
		VideoID:   vid.String(),
		UserID:    owner.String(),
	})
	if err == nil {
		if err := s.producer.Publish(ctx, video.OwnerID.String(), event); err != nil {
			s.logger.WithError(err).Error("Failed to publish event")
		}
	}

	view := NewCommentView(created, 0, false, owner)
	return &view, nil
}

// List returns one newest-first page of a video's comments, each folded
// with its like count and the viewer's flags.
func (s *CommentService) List(ctx context.Context, videoID, viewerID string, page, limit int) (*CommentPage, error) {
	vid, err := parseID(videoID)
	if err != nil {
		return nil, err
	}

	viewer := uuid.Nil
	if v, err := uuid.Parse(viewerID); err == nil {
		viewer = v
	}

	params, err := pagination.New(page, limit, "", "", nil)
	if err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, vid)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video: %w", apperrors.ErrNotFound)
	}

	comments, total, err := s.commentRepo.ListByVideo(ctx, vid, params.Offset(), params.Limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	counts, err := s.likeRepo.CountsPerTarget(ctx, models.LikeTargetComment, ids)
	if err != nil {
		return nil, err
	}
	liked := map[uuid.UUID]bool{}
	if viewer != uuid.Nil {
		liked, err = s.likeRepo.LikedTargetsOf(ctx, models.LikeTargetComment, ids, viewer)
		if err != nil {
			return nil, err
		}
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, NewCommentView(c, counts[c.ID], liked[c.ID], viewer))
	}

	return &CommentPage{
		Comments:      views,
		TotalComments: total,
		TotalPages:    pagination.TotalPages(total, params.Limit),
	}, nil
}

// Update rewrites the comment body. Only the comment's author may edit it.
func (s *CommentService) Update(ctx context.Context, commentID, requesterID string, req *CommentRequest) (*CommentView, error) {
	id, err := parseID(commentID)
	if err != nil {
		return nil, err
	}
	requester, err := parseID(requesterID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperrors.ErrInvalidArgument)
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, fmt.Errorf("comment: %w", apperrors.ErrNotFound)
	}
	if !canMutate(requester, comment.OwnerID) {
		return nil, fmt.Errorf("not the comment owner: %w", apperrors.ErrForbidden)
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	likeCount, err := s.likeRepo.CountByTarget(ctx, models.LikeTargetComment, id)
	if err != nil {
		return nil, err
	}
	likedByUser, err := s.likeRepo.IsLiked(ctx, models.LikeTargetComment, id, requester)
	if err != nil {
		return nil, err
	}

	view := NewCommentView(comment, likeCount, likedByUser, requester)
	return &view, nil
}

// Delete removes the comment and its likes. The comment's author and the
// owner of the video it sits on may both delete it.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID string) error {
	id, err := parseID(commentID)
	if err != nil {
		return err
	}
	requester, err := parseID(requesterID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return fmt.Errorf("comment: %w", apperrors.ErrNotFound)
	}

	video, err := s.videoRepo.GetByID(ctx, comment.VideoID)
	if err != nil {
		return err
	}
	videoOwner := uuid.Nil
	if video != nil {
		videoOwner = video.OwnerID
	}

	if !canDeleteComment(requester, comment.OwnerID, videoOwner) {
		return fmt.Errorf("not allowed to delete this comment: %w", apperrors.ErrForbidden)
	}

	if err := s.commentRepo.DeleteCascade(ctx, id); err != nil {
		s.logger.WithError(err).Error("Comment cascade delete failed")
		return fmt.Errorf("failed to delete comment: %w", apperrors.ErrOperationFailed)
	}

	event, err := queue.NewEvent(queue.EventCommentDeleted, videoOwner.String(), queue.CommentEventData{
		CommentID: id.String(),
		VideoID:   comment.VideoID.String(),
		UserID:    comment.OwnerID.String(),
	})
	if err == nil {
		if err := s.producer.Publish(ctx, videoOwner.String(), event); err != nil {
			s.logger.WithError(err).Error("Failed to publish event")
		}
	}

	return nil
}
