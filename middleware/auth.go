package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth protects back-office endpoints. Two credentials are accepted: an
// admin/manager bearer token (interactive use), or the x-sync-secret header
// (unattended cron invocation). Neither present or matching rejects the
// request.
func AdminAuth(adminToken, syncSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken != "" {
			auth := c.GetHeader("Authorization")
			if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
				if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) == 1 {
					c.Next()
					return
				}
			}
		}

		if syncSecret != "" {
			if secret := c.GetHeader("x-sync-secret"); secret != "" {
				if subtle.ConstantTimeCompare([]byte(secret), []byte(syncSecret)) == 1 {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
