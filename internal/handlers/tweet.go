package handlers

import (
	"fmt"
	"net/http"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	tweets *services.TweetService
}

func NewTweetHandler(tweets *services.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) Create(c *gin.Context) {
	var req services.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	tweet, err := h.tweets.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "tweet created successfully")
}

func (h *TweetHandler) ListByUser(c *gin.Context) {
	tweets, err := h.tweets.ListByUser(c.Request.Context(), c.Param("userId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweets, "tweets fetched successfully")
}

func (h *TweetHandler) Update(c *gin.Context) {
	var req services.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument))
		return
	}

	tweet, err := h.tweets.Update(c.Request.Context(), c.Param("tweetId"), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "tweet updated successfully")
}

func (h *TweetHandler) Delete(c *gin.Context) {
	if err := h.tweets.Delete(c.Request.Context(), c.Param("tweetId"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "tweet deleted successfully")
}
