package handlers

import (
	"net/http"
	"strconv"

	"amplifyd_backend/internal/middleware"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewerHandler struct {
	BaseHandler
	reviewers services.ReviewerService
}

func NewReviewerHandler(base BaseHandler, reviewers services.ReviewerService) *ReviewerHandler {
	return &ReviewerHandler{BaseHandler: base, reviewers: reviewers}
}

func (h *ReviewerHandler) RegisterRoutes(api *gin.RouterGroup) {
	grp := api.Group("/reviewers")
	grp.GET("", h.List)
	grp.GET("/:id", h.Get)
	grp.POST("", middleware.Auth(), middleware.RequireRoles(models.UserRoleReviewer), h.CreateProfile)
}

func (h *ReviewerHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.reviewers.ListReviewers(c.Request.Context(), h.GetDB(c), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewers": resp})
}

func (h *ReviewerHandler) Get(c *gin.Context) {
	resp, err := h.reviewers.GetProfile(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewerHandler) CreateProfile(c *gin.Context) {
	var req dto.CreateReviewerProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.reviewers.CreateProfile(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
