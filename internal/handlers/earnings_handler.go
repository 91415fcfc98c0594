package handlers

import (
	"net/http"
	"strconv"

	"amplifyd_backend/internal/middleware"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type EarningsHandler struct {
	BaseHandler
	earnings services.EarningsService
}

func NewEarningsHandler(base BaseHandler, earnings services.EarningsService) *EarningsHandler {
	return &EarningsHandler{BaseHandler: base, earnings: earnings}
}

func (h *EarningsHandler) RegisterRoutes(api *gin.RouterGroup) {
	admin := api.Group("", middleware.Auth(), middleware.RequireRoles(models.UserRoleAdmin))
	admin.POST("/earnings", h.RecordEarning)
	admin.POST("/payouts", h.CreatePayout)
	admin.PATCH("/payouts/:id/status", h.AdvancePayoutStatus)

	// Reviewers read their own ledger.
	me := api.Group("/me", middleware.Auth(), middleware.RequireRoles(models.UserRoleReviewer))
	me.GET("/earnings", h.MyEarnings)
	me.GET("/payouts", h.MyPayouts)

	api.GET("/payouts/:id", middleware.Auth(), h.GetPayout)
}

func (h *EarningsHandler) RecordEarning(c *gin.Context) {
	var req dto.RecordEarningRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.earnings.RecordEarning(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EarningsHandler) MyEarnings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	earnings, err := h.earnings.ListEarnings(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

func (h *EarningsHandler) CreatePayout(c *gin.Context) {
	var req dto.CreatePayoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.earnings.CreatePayout(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EarningsHandler) GetPayout(c *gin.Context) {
	resp, err := h.earnings.GetPayout(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	// Reviewers may only read their own payouts.
	if h.CurrentRole(c) != models.UserRoleAdmin && resp.ReviewerID != h.CurrentUserID(c) {
		h.HandleServiceError(c, apperrors.ErrInsufficientPermissions)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EarningsHandler) MyPayouts(c *gin.Context) {
	resp, err := h.earnings.ListPayouts(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": resp})
}

func (h *EarningsHandler) AdvancePayoutStatus(c *gin.Context) {
	var req dto.AdvancePayoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.earnings.AdvancePayoutStatus(c.Request.Context(), h.GetDB(c), c.Param("id"), models.PayoutStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
