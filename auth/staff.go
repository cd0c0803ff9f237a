package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/models"
)

type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StaffLoginHandler authenticates store admins, delivery agents, and the
// super-admin against bcrypt hashes. Raw passwords are never stored.
func StaffLoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StaffLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		var staff models.StaffAccount
		if err := db.Where("email = ?", req.Email).First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Same response as a wrong password; don't leak which emails exist.
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if !staff.Approved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account awaiting approval"})
			return
		}

		token, err := issueStaffToken(staff.ID, staff.Email, string(staff.Role), 12*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"staff": gin.H{
				"id":    staff.ID,
				"email": staff.Email,
				"name":  staff.Name,
				"role":  staff.Role,
			},
		})
	}
}

// HashPassword wraps bcrypt with the default cost.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
