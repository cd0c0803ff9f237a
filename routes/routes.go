package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/auth"
	"github.com/sipwell/storefront-api/cache"
	"github.com/sipwell/storefront-api/geo"
	"github.com/sipwell/storefront-api/mailer"
	"github.com/sipwell/storefront-api/pkg/orderref"
)

// Deps bundles the shared collaborators handed to handlers.
type Deps struct {
	DB       *gorm.DB
	Cache    *cache.Client
	Refs     *orderref.Generator
	Mail     mailer.Mailer
	Verifier auth.Verifier
	Geocoder *geo.Client
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// Shopper routes (JWT-protected, users and guests)
	SetupUserRoutes(r, d)

	// Store-admin console
	SetupAdminRoutes(r, d)

	// Delivery-agent console
	SetupDeliveryRoutes(r, d)

	// Super-admin user management
	SetupSuperAdminRoutes(r, d)

	// Shared order feed + lookup for the consoles
	SetupOrderRoutes(r, d)
}
