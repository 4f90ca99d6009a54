package handlers

import (
	"net/http"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	result, err := h.likes.ToggleVideoLike(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "video like toggled successfully")
}

func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	result, err := h.likes.ToggleCommentLike(c.Request.Context(), c.Param("commentId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "comment like toggled successfully")
}

func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	result, err := h.likes.ToggleTweetLike(c.Request.Context(), c.Param("tweetId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "tweet like toggled successfully")
}

func (h *LikeHandler) LikedVideos(c *gin.Context) {
	videos, err := h.likes.GetLikedVideos(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "liked videos fetched successfully")
}
