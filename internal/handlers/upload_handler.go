package handlers

import (
	"net/http"

	"amplifyd_backend/internal/middleware"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	BaseHandler
	uploads services.UploadService
}

func NewUploadHandler(base BaseHandler, uploads services.UploadService) *UploadHandler {
	return &UploadHandler{BaseHandler: base, uploads: uploads}
}

func (h *UploadHandler) RegisterRoutes(api *gin.RouterGroup) {
	// Anonymous artists upload too, so auth is optional here.
	api.POST("/uploads/sign", middleware.OptionalAuth(), h.SignUpload)
}

func (h *UploadHandler) SignUpload(c *gin.Context) {
	var req dto.UploadLocationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.CallerID = h.CurrentUserID(c)

	resp, err := h.uploads.RequestUploadLocation(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
