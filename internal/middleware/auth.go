package middleware

import (
	"net/http"
	"strings"

	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/jwt"
	"escaperoom/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth verifies the bearer token and stores user_id and role in the context.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := tokens.ValidateToken(tokenStr)
		if tokenStr == "" || err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// Requester returns the identity stored by JWTAuth.
func Requester(c *gin.Context) (domain.Requester, bool) {
	id := c.GetInt64(ctxUserID)
	role := domain.UserRole(c.GetString(ctxRole))
	if id == 0 || !role.Valid() {
		return domain.Requester{}, false
	}
	return domain.Requester{ID: id, Role: role}, true
}

// MustRequester writes 401 and returns false when the request carries no identity.
func MustRequester(c *gin.Context) (domain.Requester, bool) {
	req, ok := Requester(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		c.Abort()
	}
	return req, ok
}
