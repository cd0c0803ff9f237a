package staffControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/auth"
	"github.com/sipwell/storefront-api/models"
)

// POST /superadmin/bootstrap (X-API-KEY guarded)
//
// Creates the first super-admin. Refused once one exists; later accounts
// go through the normal create/approve flow.
func BootstrapSuperAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var count int64
		if err := db.Model(&models.StaffAccount{}).
			Where("role = ?", models.StaffRoleSuperAdmin).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing accounts"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Super-admin already exists"})
			return
		}

		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Name     string `json:"name" binding:"required"`
			Password string `json:"password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		staff := models.StaffAccount{
			Email:        req.Email,
			Name:         req.Name,
			Role:         models.StaffRoleSuperAdmin,
			PasswordHash: hash,
			Approved:     true,
		}
		if err := db.Create(&staff).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create super-admin"})
			return
		}

		c.JSON(http.StatusCreated, staff)
	}
}
