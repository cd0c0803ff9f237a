package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/sipwell/storefront-api/controllers/order"
	"github.com/sipwell/storefront-api/middleware"
	"github.com/sipwell/storefront-api/models"
)

// SetupDeliveryRoutes registers the delivery-agent console endpoints.
// Agents see the active queue and move orders through shipped/delivered;
// they collect cash on delivery, so they can also mark payment.
func SetupDeliveryRoutes(r *gin.Engine, d Deps) {
	delivery := r.Group("/delivery")
	delivery.Use(middleware.RequireStaffRole(string(models.StaffRoleDelivery), string(models.StaffRoleSuperAdmin)))
	{
		delivery.GET("/queue", orderControllers.GetDeliveryQueueHandler(d.DB))
		delivery.GET("/orders/:orderID", orderControllers.GetOrderByIDHandler(d.DB))
		delivery.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.DB))
		delivery.PUT("/orders/:orderID/payment", orderControllers.UpdatePaymentStatusHandler(d.DB))
	}
}
