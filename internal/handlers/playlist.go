package handlers

import (
	"fmt"
	"net/http"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlists *services.PlaylistService
}

func NewPlaylistHandler(playlists *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	var req services.PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	playlist, err := h.playlists.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist, "playlist created successfully")
}

func (h *PlaylistHandler) Get(c *gin.Context) {
	playlist, err := h.playlists.Get(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "playlist fetched successfully")
}

func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	playlists, err := h.playlists.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlists, "playlists fetched successfully")
}

func (h *PlaylistHandler) Update(c *gin.Context) {
	var req services.PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	playlist, err := h.playlists.Update(c.Request.Context(), c.Param("playlistId"), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	if err := h.playlists.Delete(c.Request.Context(), c.Param("playlistId"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	playlist, err := h.playlists.AddVideo(
		c.Request.Context(),
		c.Param("playlistId"),
		c.Param("videoId"),
		middleware.GetUserID(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "video added to playlist successfully")
}

func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	playlist, err := h.playlists.RemoveVideo(
		c.Request.Context(),
		c.Param("playlistId"),
		c.Param("videoId"),
		middleware.GetUserID(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "video removed from playlist successfully")
}
