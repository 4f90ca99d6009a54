package handlers

import (
	"fmt"
	"net/http"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Add(c *gin.Context) {
	var req services.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, comment, "comment added successfully")
}

func (h *CommentHandler) List(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := intQuery(c, "limit", 10)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.comments.List(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "comments fetched successfully")
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req services.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), c.Param("commentId"), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, comment, "comment updated successfully")
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), c.Param("commentId"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "comment deleted successfully")
}
