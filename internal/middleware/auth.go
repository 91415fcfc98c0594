package middleware

import (
	"strings"

	"amplifyd_backend/internal/auth"
	"amplifyd_backend/internal/models"
	"amplifyd_backend/pkg/apperrors"
	"amplifyd_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// Auth rejects requests without a valid bearer token and stores the
// caller's identity on the context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}
		c.Set(string(contextkeys.UserIDKey), claims.UserID)
		c.Set(string(contextkeys.RoleKey), claims.Role)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present and
// lets anonymous requests through untouched.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c); ok {
			c.Set(string(contextkeys.UserIDKey), claims.UserID)
			c.Set(string(contextkeys.RoleKey), claims.Role)
		}
		c.Next()
	}
}

// RequireRoles runs after Auth and rejects callers outside the allowed
// roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(string(contextkeys.RoleKey))
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}
		role, _ := v.(models.UserRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
		c.Abort()
	}
}

func parseBearer(c *gin.Context) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}
