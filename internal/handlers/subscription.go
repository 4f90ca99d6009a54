package handlers

import (
	"net/http"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	result, err := h.subscriptions.Toggle(c.Request.Context(), c.Param("channelId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, "subscription toggled successfully")
}

func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := intQuery(c, "limit", 20)
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := h.subscriptions.GetSubscribers(c.Request.Context(), c.Param("channelId"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, users, "subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := intQuery(c, "limit", 20)
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := h.subscriptions.GetSubscribedChannels(c.Request.Context(), c.Param("subscriberId"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, users, "subscribed channels fetched successfully")
}
