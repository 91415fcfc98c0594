package handlers

import (
	"io"
	"net/http"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/payments"
	"amplifyd_backend/internal/services"
	"amplifyd_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	BaseHandler
	provider payments.CheckoutProvider // nil in demo mode
	webhooks services.WebhookService
}

func NewWebhookHandler(base BaseHandler, provider payments.CheckoutProvider, webhooks services.WebhookService) *WebhookHandler {
	return &WebhookHandler{BaseHandler: base, provider: provider, webhooks: webhooks}
}

func (h *WebhookHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/webhooks/stripe", h.HandleStripeEvent)
}

func (h *WebhookHandler) HandleStripeEvent(c *gin.Context) {
	if h.provider == nil {
		// Demo mode settles payments synchronously; nothing to reconcile.
		c.Status(http.StatusOK)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Could not read webhook body"))
		return
	}

	event, err := h.provider.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "webhook signature rejected", err)
		h.HandleServiceError(c, apperrors.ErrInvalidWebhookSignature)
		return
	}

	// A non-2xx answer makes the processor redeliver, which is exactly
	// what we want when reconciliation fails halfway.
	if err := h.webhooks.HandleEvent(c.Request.Context(), h.GetDB(c), event); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
