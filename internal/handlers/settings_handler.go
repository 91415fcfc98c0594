package handlers

import (
	"net/http"

	"amplifyd_backend/internal/middleware"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	BaseHandler
	settings services.SettingsService
}

func NewSettingsHandler(base BaseHandler, settings services.SettingsService) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, settings: settings}
}

func (h *SettingsHandler) RegisterRoutes(api *gin.RouterGroup) {
	// The registration form needs the mode before login, so GET is public.
	api.GET("/settings", h.Get)
	api.PUT("/settings", middleware.Auth(), middleware.RequireRoles(models.UserRoleAdmin), h.Update)
}

func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.settings.Get(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.settings.UpdateMode(c.Request.Context(), h.GetDB(c), models.ApplicationMode(req.ApplicationMode))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
