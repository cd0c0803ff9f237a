package staffControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/auth"
	"github.com/sipwell/storefront-api/models"
)

type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin delivery"`
}

// POST /superadmin/staff
//
// Creates a console account in the unapproved state; logins are rejected
// until ApproveStaff flips the flag.
func CreateStaff(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateStaffRequest
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
			Role:         models.StaffRole(req.Role),
			PasswordHash: hash,
		}
		if err := db.Create(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staff account"})
			return
		}

		c.JSON(http.StatusCreated, staff)
	}
}

// GET /superadmin/staff
func ListStaff(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("created_at DESC")
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}
		if c.Query("pending") == "true" {
			query = query.Where("approved = ?", false)
		}

		var staff []models.StaffAccount
		if err := query.Find(&staff).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch staff"})
			return
		}
		c.JSON(http.StatusOK, staff)
	}
}

// POST /superadmin/staff/approve
func ApproveStaff(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var staff models.StaffAccount
		if err := db.Where("email = ?", req.Email).First(&staff).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff account not found"})
			return
		}

		if err := db.Model(&staff).Update("approved", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Staff account approved"})
	}
}

// DELETE /superadmin/staff
func RemoveStaff(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		result := db.Where("email = ? AND role <> ?", req.Email, models.StaffRoleSuperAdmin).
			Delete(&models.StaffAccount{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove account"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff account not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Staff account removed"})
	}
}
