package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/silkshop/backend/internal/application/announcement"
)

// AnnouncementHandler serves the storefront announcement banner feed.
type AnnouncementHandler struct {
	BaseHandler
	service *announcement.Service
}

func NewAnnouncementHandler(service *announcement.Service) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// RegisterRoutes registers announcement routes
func (h *AnnouncementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/store/announcements", h.List)
}

// List returns the currently active announcements. This endpoint is on
// the storefront's critical path and therefore always answers 200 with
// a (possibly empty) list, never an error.
func (h *AnnouncementHandler) List(c *gin.Context) {
	announcements := h.service.Active(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}
