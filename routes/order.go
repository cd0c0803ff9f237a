package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/sipwell/storefront-api/controllers/order"
	"github.com/sipwell/storefront-api/middleware"
	"github.com/sipwell/storefront-api/models"
)

// SetupOrderRoutes registers the live order feed shared by the consoles.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireStaffRole(
		string(models.StaffRoleAdmin),
		string(models.StaffRoleDelivery),
		string(models.StaffRoleSuperAdmin)))
	{
		orders.GET("/feed", orderControllers.OrderFeedHandler)
	}
}
