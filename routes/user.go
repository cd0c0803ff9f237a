package routes

import (
	"github.com/gin-gonic/gin"

	addressControllers "github.com/sipwell/storefront-api/controllers/address"
	boxControllers "github.com/sipwell/storefront-api/controllers/box"
	cartControllers "github.com/sipwell/storefront-api/controllers/cart"
	checkoutControllers "github.com/sipwell/storefront-api/controllers/checkout"
	orderControllers "github.com/sipwell/storefront-api/controllers/order"
	productcontroller "github.com/sipwell/storefront-api/controllers/product"
	userControllers "github.com/sipwell/storefront-api/controllers/user"
	"github.com/sipwell/storefront-api/middleware"
)

// SetupUserRoutes registers the shopper-facing endpoints. Everything here
// requires a valid user or guest token.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	// Catalog browsing is public
	r.GET("/products", productcontroller.GetProducts(d.DB, d.Cache))
	r.GET("/products/:id", productcontroller.GetProductByID(d.DB))
	r.GET("/categories", productcontroller.GetAllCategories(d.DB))
	r.GET("/categories/with-products", productcontroller.GetAllCategoriesWithProducts(d.DB))

	user := r.Group("/user")
	user.Use(middleware.ValidateToken)
	{
		user.GET("", userControllers.GetUser(d.DB))
		user.PUT("", userControllers.UpdateUser(d.DB))

		user.GET("/cart", cartControllers.GetUserCart(d.DB))
		user.POST("/cart", cartControllers.UpdateCartItem(d.DB))
		user.DELETE("/cart", cartControllers.ClearUserCart(d.DB))
		user.DELETE("/cart/:item_id", cartControllers.DeleteCartItem(d.DB))

		user.GET("/box", boxControllers.GetBoxHandler(d.DB))
		user.POST("/box", boxControllers.AddToBoxHandler(d.DB))
		user.PUT("/box/:product_id", boxControllers.UpdateBoxQuantityHandler(d.DB))
		user.DELETE("/box/:product_id", boxControllers.RemoveFromBoxHandler(d.DB))

		user.GET("/addresses", addressControllers.ListAddresses(d.DB))
		user.POST("/addresses", addressControllers.CreateAddress(d.DB))
		user.PUT("/addresses/:id", addressControllers.UpdateAddress(d.DB))
		user.PUT("/addresses/:id/default", addressControllers.SetDefaultAddressHandler(d.DB))
		user.DELETE("/addresses/:id", addressControllers.DeleteAddress(d.DB))
		user.GET("/addresses/autofill", addressControllers.AutofillAddress(d.Geocoder))

		user.POST("/checkout", checkoutControllers.PlaceOrderHandler(d.DB, d.Cache, d.Refs, d.Mail))
		user.GET("/checkout/quote", checkoutControllers.QuoteHandler(d.DB, d.Cache))

		user.GET("/orders", orderControllers.GetUserOrdersHandler(d.DB))
	}
}
