package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the login endpoint. Logging in while
// already authenticated simply issues a fresh token.
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler, limiter gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", limiter, handler.Login)
	}
}

// RegisterProtectedRoutes registers routes requiring a valid session
func RegisterProtectedRoutes(r *gin.RouterGroup, handler *Handler) {
	users := r.Group("/users")
	{
		users.GET("/me", handler.GetMe)
	}
}
