package handlers

import (
	"io"
	"net/http"
	"strings"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/storage"
	"amplifyd_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler backs the local storage driver in development: uploads go
// to disk through PUT and files are served back through GET. Cloud
// drivers presign directly against the bucket and never hit these routes.
type FileHandler struct {
	BaseHandler
	store   storage.Storage
	maxSize int64
}

func NewFileHandler(base BaseHandler, store storage.Storage, maxSize int64) *FileHandler {
	return &FileHandler{BaseHandler: base, store: store, maxSize: maxSize}
}

func (h *FileHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.PUT("/files/upload/*path", h.Upload)
	api.GET("/files/*path", h.Serve)
}

func (h *FileHandler) Upload(c *gin.Context) {
	path := cleanFilePath(c.Param("path"))
	if path == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}
	if c.Request.ContentLength > h.maxSize {
		h.HandleServiceError(c, apperrors.NewBadRequestError("File exceeds the maximum upload size"))
		return
	}

	body := io.LimitReader(c.Request.Body, h.maxSize)
	if err := h.store.Save(c.Request.Context(), path, body, c.ContentType()); err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	c.Status(http.StatusCreated)
}

func (h *FileHandler) Serve(c *gin.Context) {
	path := cleanFilePath(c.Param("path"))
	if path == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}

	reader, err := h.store.Get(c.Request.Context(), path)
	if err != nil {
		h.HandleServiceError(c, apperrors.ErrNotFound(err, "files", "File not found"))
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.CtxWithError(c.Request.Context(), "file stream interrupted", err, "path", path)
	}
}

// cleanFilePath strips the leading slash from a wildcard match and
// rejects traversal attempts.
func cleanFilePath(p string) string {
	p = strings.TrimPrefix(p, "/")
	if p == "" || strings.Contains(p, "..") {
		return ""
	}
	return p
}
