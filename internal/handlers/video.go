package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videos *services.VideoService
}

func NewVideoHandler(videos *services.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// intQuery parses an optional integer query parameter. A missing parameter
// yields the fallback; a malformed one is rejected rather than coerced.
func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, apperrors.ErrInvalidArgument)
	}
	return value, nil
}

func (h *VideoHandler) Publish(c *gin.Context) {
	var req services.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	videoFile, vf, err := formFile(c, "videoFile")
	if err != nil {
		respondError(c, err)
		return
	}
	if vf != nil {
		defer vf.Close()
	}

	thumbnail, tf, err := formFile(c, "thumbnail")
	if err != nil {
		respondError(c, err)
		return
	}
	if tf != nil {
		defer tf.Close()
	}

	video, err := h.videos.Publish(c.Request.Context(), middleware.GetUserID(c), &req, videoFile, thumbnail)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, video, "video published successfully")
}

func (h *VideoHandler) Get(c *gin.Context) {
	detail, err := h.videos.GetByID(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, detail, "video fetched successfully")
}

func (h *VideoHandler) List(c *gin.Context) {
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

	req := services.ListVideosRequest{
		Query:    c.Query("query"),
		Username: c.Query("username"),
		Page:     page,
		Limit:    limit,
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
	}

	result, err := h.videos.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "videos fetched successfully")
}

func (h *VideoHandler) Update(c *gin.Context) {
	var req services.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	thumbnail, tf, err := formFile(c, "thumbnail")
	if err != nil {
		respondError(c, err)
		return
	}
	if tf != nil {
		defer tf.Close()
	}

	video, err := h.videos.Update(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c), &req, thumbnail)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "video updated successfully")
}

func (h *VideoHandler) Delete(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "video deleted successfully")
}

func (h *VideoHandler) TogglePublish(c *gin.Context) {
	video, err := h.videos.TogglePublish(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "publish status toggled successfully")
}
