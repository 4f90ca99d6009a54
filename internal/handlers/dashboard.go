package handlers

import (
	"net/http"

	"github.com/cliptube/cliptube/internal/middleware"
	"github.com/cliptube/cliptube/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns the authenticated owner's channel aggregates.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.GetChannelStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "channel stats fetched successfully")
}

// Videos lists all of the owner's uploads, published or not.
func (h *DashboardHandler) Videos(c *gin.Context) {
	videos, err := h.dashboard.GetChannelVideos(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "channel videos fetched successfully")
}
