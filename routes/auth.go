package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sipwell/storefront-api/auth"
)

// SetupAuthRoutes registers the public "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/guest", auth.CreateGuestUser(d.DB))
		authGroup.POST("/login", auth.UserLoginHandler(d.DB, d.Verifier, d.Mail))
		authGroup.POST("/staff/login", auth.StaffLoginHandler(d.DB))
	}
}
