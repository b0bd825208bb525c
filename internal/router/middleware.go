package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mimoza-store/storefront-api/pkg/auth"
	"github.com/mimoza-store/storefront-api/pkg/global"
)

const sessionContextKey = "session"

// bearerToken extracts the token from the Authorization header, or "" when
// none is present.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// sessionFromContext returns the session attached by AuthMiddleware, or nil.
func sessionFromContext(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := v.(*auth.Session)
	return session
}

// AuthMiddleware requires a valid session and attaches it to the request
// context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Authorization required", []global.ValidationError{
				{Field: "authorization", Message: "Bearer token is required", Code: "required"},
			}))
			c.Abort()
			return
		}

		session, err := authService.GetSession(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to resolve session", nil))
			c.Abort()
			return
		}
		if session == nil {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid or expired session", []global.ValidationError{
				{Field: "authorization", Message: "Session is invalid or expired", Code: "invalid_session"},
			}))
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// AdminMiddleware requires the attached session to carry the admin role.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionFromContext(c)
		admin, err := authService.CheckAdminRole(c.Request.Context(), session)
		if err != nil || !admin {
			c.JSON(http.StatusForbidden, global.ErrorResponse("Admins only", []global.ValidationError{
				{Field: "authorization", Message: "Admin role is required", Code: "forbidden"},
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}
