package handlers

import (
	"net/http"

	"amplifyd_backend/internal/middleware"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	BaseHandler
	referrals services.ReferralService
}

func NewReferralHandler(base BaseHandler, referrals services.ReferralService) *ReferralHandler {
	return &ReferralHandler{BaseHandler: base, referrals: referrals}
}

func (h *ReferralHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/referrals", middleware.Auth(), middleware.RequireRoles(models.UserRoleAdmin), h.GenerateCode)
}

func (h *ReferralHandler) GenerateCode(c *gin.Context) {
	resp, err := h.referrals.GenerateCode(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
