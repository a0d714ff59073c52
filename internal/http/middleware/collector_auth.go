package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/datium-labs/dspm-analyzer/internal/http/response"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

// CollectorAuth validates the shared-secret bearer token collectors send on
// ingest routes. An empty secret disables auth entirely, matching the open
// endpoint of local development setups.
func CollectorAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	mwLog := log.With("middleware", "CollectorAuth")

	if secret == "" {
		mwLog.Warn("COLLECTOR_JWT_SECRET not set, ingest endpoints are unauthenticated")
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		tokenStr := extractBearer(c)
		if tokenStr == "" {
			response.RespondError(c, http.StatusUnauthorized, response.CodeMissingToken, nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			mwLog.Warn("collector token rejected", "error", err)
			response.RespondError(c, http.StatusUnauthorized, response.CodeInvalidToken, nil)
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, _ := claims["sub"].(string); sub != "" {
				c.Set("collector_id", sub)
			}
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
