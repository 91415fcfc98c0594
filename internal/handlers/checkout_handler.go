package handlers

import (
	"net/http"

	"amplifyd_backend/internal/services"
	"amplifyd_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	BaseHandler
	checkout services.CheckoutService
}

func NewCheckoutHandler(base BaseHandler, checkout services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{BaseHandler: base, checkout: checkout}
}

func (h *CheckoutHandler) RegisterRoutes(api *gin.RouterGroup) {
	// Purchase requires no account; the metadata bag carries everything.
	api.POST("/checkout/session", h.CreateSession)
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req dto.CheckoutSessionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.checkout.CreateCheckoutSession(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
