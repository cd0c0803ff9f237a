package routes

import (
	"github.com/gin-gonic/gin"

	staffControllers "github.com/sipwell/storefront-api/controllers/staff"
	userControllers "github.com/sipwell/storefront-api/controllers/user"
	"github.com/sipwell/storefront-api/middleware"
	"github.com/sipwell/storefront-api/models"
)

// SetupSuperAdminRoutes registers staff and shopper management.
// Bootstrap is API-key guarded so the first super-admin can be created
// before any staff token exists.
func SetupSuperAdminRoutes(r *gin.Engine, d Deps) {
	r.POST("/superadmin/bootstrap", middleware.ValidateAPIKey, staffControllers.BootstrapSuperAdmin(d.DB))

	super := r.Group("/superadmin")
	super.Use(middleware.RequireStaffRole(string(models.StaffRoleSuperAdmin)))
	{
		super.GET("/staff", staffControllers.ListStaff(d.DB))
		super.POST("/staff", staffControllers.CreateStaff(d.DB))
		super.POST("/staff/approve", staffControllers.ApproveStaff(d.DB))
		super.DELETE("/staff", staffControllers.RemoveStaff(d.DB))

		super.GET("/users", userControllers.GetAllUsers(d.DB))
	}
}
