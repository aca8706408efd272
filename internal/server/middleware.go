package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const contextAccountIDKey = "account_id"

// AuthRequired is the gate in front of every resource route. Token
// extraction order: Authorization bearer header, then the auth cookie. The
// gate runs before any resource lookup, so unauthenticated callers learn
// nothing about what exists.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := s.extractToken(c)
		if !ok {
			AbortWithError(c, ErrMissingToken)
			return
		}

		accountID, err := s.tokenSvc.Verify(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextAccountIDKey, accountID)
		c.Next()
	}
}

func (s *Server) extractToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw, found := strings.CutPrefix(header, "Bearer "); found {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			return raw, true
		}
	}
	return s.sessions.ReadToken(c)
}

func accountIDFromContext(c *gin.Context) (snowflake.ID, bool) {
	value, exists := c.Get(contextAccountIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

// CORSMiddleware admits the single configured cross-origin caller.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowedOrigin != "" && origin == allowedOrigin {
			c.Header("Access-Control-Allow-Origin", allowedOrigin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
