package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/server/auth"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
)

const (
	claimsKey    = "claims"
	requestIDKey = "request_id"
)

// RequireAuth accepts the session cookie or an "Authorization: Bearer"
// header and stores the claims in the gin context. The account must still
// exist, so a deleted user is logged out on the next request.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(common.SessionCookieName)
		if token == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Please log in"})
			return
		}

		claims, err := s.issuer.Parse(token)
		if err != nil {
			msg := "Invalid session"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "Session expired, please log in again"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": msg})
			return
		}
		if s.accounts.GetUserInfo(claims.Username) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Invalid session"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth. The role is read from the account
// service, not the token, so demotions apply immediately.
func (s *Server) RequireRole(role credentials.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Please log in"})
			return
		}

		info := s.accounts.GetUserInfo(claims.Username)
		if info == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Please log in"})
			return
		}
		if info.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"ok":      false,
				"message": "Only administrators can access this page.",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()

		s.logger.Debug(c.Request.Context(), "http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", id,
			"duration", time.Since(start))
	}
}

func sessionClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
