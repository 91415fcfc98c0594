package routes

import (
	"net/http"

	"amplifyd_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every handler under /api/v1.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers, localFiles bool) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	h.Auth.RegisterRoutes(api)
	h.Reviewers.RegisterRoutes(api)
	h.Uploads.RegisterRoutes(api)
	h.Checkout.RegisterRoutes(api)
	h.Webhooks.RegisterRoutes(api)
	h.Submissions.RegisterRoutes(api)
	h.Earnings.RegisterRoutes(api)
	h.Referrals.RegisterRoutes(api)
	h.Settings.RegisterRoutes(api)

	// Only the local storage driver routes uploads through the server.
	if localFiles {
		h.Files.RegisterRoutes(api)
	}
}
