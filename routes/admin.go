package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/sipwell/storefront-api/controllers/cart"
	orderControllers "github.com/sipwell/storefront-api/controllers/order"
	productcontroller "github.com/sipwell/storefront-api/controllers/product"
	settingsControllers "github.com/sipwell/storefront-api/controllers/settings"
	"github.com/sipwell/storefront-api/middleware"
	"github.com/sipwell/storefront-api/models"
)

// SetupAdminRoutes registers the store-admin console endpoints.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireStaffRole(string(models.StaffRoleAdmin), string(models.StaffRoleSuperAdmin)))
	{
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(d.DB))
		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(d.DB))
		admin.GET("/orders/:orderID", orderControllers.GetOrderByIDHandler(d.DB))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.DB))
		admin.PUT("/orders/:orderID/payment", orderControllers.UpdatePaymentStatusHandler(d.DB))
		admin.DELETE("/orders/:orderID", orderControllers.DeleteOrderHandler(d.DB))

		admin.POST("/products", productcontroller.CreateProduct(d.DB, d.Cache))
		admin.PUT("/products/:id", productcontroller.UpdateProduct(d.DB, d.Cache))
		admin.DELETE("/products/:id", productcontroller.DeleteProduct(d.DB, d.Cache))

		admin.POST("/categories", productcontroller.CreateCategory(d.DB))
		admin.PUT("/categories/:id", productcontroller.UpdateCategory(d.DB))
		admin.DELETE("/categories/:id", productcontroller.DeleteCategory(d.DB))

		admin.GET("/settings/fees", settingsControllers.GetFeeSettings(d.DB, d.Cache))
		admin.PUT("/settings/fees", settingsControllers.UpdateFeeSettings(d.DB, d.Cache))

		admin.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(d.DB))
	}
}
