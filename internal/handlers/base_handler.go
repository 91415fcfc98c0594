package handlers

import (
	"amplifyd_backend/internal/models"
	"amplifyd_backend/internal/validator"
	"amplifyd_backend/pkg/apperrors"
	"amplifyd_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BaseHandler carries the pieces every handler needs: the validator and
// access to the request-scoped database handle.
type BaseHandler struct {
	Validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) BaseHandler {
	return BaseHandler{Validator: v}
}

// GetDB pulls the *gorm.DB the DB middleware stored on the context.
// Tests swap in a transaction here and roll it back afterwards.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
	if !ok {
		panic("database handle missing from request context")
	}
	return db
}

// BindAndValidateJSON decodes the body into req and runs validation,
// rendering the error response itself. Returns false when the request
// was rejected.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	if err := h.Validator.Validate(req); err != nil {
		if ve, ok := err.(*validator.ValidationError); ok {
			apperrors.HandleError(c, apperrors.ValidationError(ve.Errors))
		} else {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// CurrentUserID returns the authenticated user's id set by the auth
// middleware, or empty for anonymous requests.
func (h *BaseHandler) CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get(string(contextkeys.UserIDKey)); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentRole returns the authenticated user's role, or empty.
func (h *BaseHandler) CurrentRole(c *gin.Context) models.UserRole {
	if v, ok := c.Get(string(contextkeys.RoleKey)); ok {
		if role, ok := v.(models.UserRole); ok {
			return role
		}
	}
	return ""
}

// HandleServiceError renders a service-layer error.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}
