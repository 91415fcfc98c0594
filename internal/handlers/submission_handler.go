package handlers

import (
	"net/http"

	"amplifyd_backend/internal/middleware"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	BaseHandler
	submissions services.SubmissionService
	reviews     services.ReviewService
}

func NewSubmissionHandler(base BaseHandler, submissions services.SubmissionService, reviews services.ReviewService) *SubmissionHandler {
	return &SubmissionHandler{BaseHandler: base, submissions: submissions, reviews: reviews}
}

func (h *SubmissionHandler) RegisterRoutes(api *gin.RouterGroup) {
	// Anonymous, token-gated reads.
	api.GET("/track/:token", h.TrackSubmission)
	api.GET("/reviews/:token", h.GetReview)

	// Reviewer queue and review submission.
	reviewer := api.Group("/submissions", middleware.Auth(), middleware.RequireRoles(models.UserRoleReviewer))
	reviewer.GET("/queue", h.Queue)
	reviewer.POST("/:id/review", h.SubmitReview)
}

func (h *SubmissionHandler) TrackSubmission(c *gin.Context) {
	resp, err := h.submissions.GetByTrackingToken(c.Request.Context(), h.GetDB(c), c.Param("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubmissionHandler) GetReview(c *gin.Context) {
	resp, err := h.reviews.GetByAccessToken(c.Request.Context(), h.GetDB(c), c.Param("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubmissionHandler) Queue(c *gin.Context) {
	resp, err := h.submissions.ListPendingForReviewer(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": resp})
}

func (h *SubmissionHandler) SubmitReview(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.reviews.SubmitReview(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
