package routes

import (
	"github.com/gin-gonic/gin"

	"missingpersons-be/middlewares"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, h Handlers) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", middlewares.OptionalAuth(h.JWTSecret), h.Auth.RegisterUser)
		auth.POST("/login", h.Auth.LoginUser)
		auth.GET("/me", h.auth(), h.Auth.GetMe)
		auth.POST("/logout", h.Auth.LogoutUser)
	}
}
