package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	jwtsvc "leadpanel/internal/pkg/jwt"
	"leadpanel/internal/pkg/response"
)

// Auth is the session boundary: requests without a valid bearer token are
// turned away before reaching any dashboard or lead route. Websocket
// upgrade requests may pass the token as a query parameter since browsers
// cannot set headers on them; ordinary requests must use the header so
// tokens stay out of access logs.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" && websocket.IsWebSocketUpgrade(c.Request) {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
