package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/mailer"
	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/log"
)

type LoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
	GuestID string `json:"guest_id"` // optional: merge this guest's cart on login
}

// UserLoginHandler exchanges a hosted-provider ID token for a session JWT,
// creating the user (and cart) on first login and folding any guest cart in.
func UserLoginHandler(db *gorm.DB, verifier Verifier, mail mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		ident, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			if errors.Is(err, ErrTokenRejected) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
				return
			}
			log.L.Error("identity provider unavailable", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Login temporarily unavailable"})
			return
		}

		var user models.User
		err = db.Preload("Cart.Items").Where("id = ?", ident.UserID).First(&user).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				ID:       ident.UserID,
				Email:    ident.Email,
				Name:     ident.Name,
				Picture:  ident.Picture,
				Provider: "hosted",
				Cart:     models.Cart{UserID: ident.UserID},
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
			mailer.SendAsync(mail, mailer.KindWelcome, user.Email, map[string]any{"Name": user.Name})

		case err == nil:
			db.Model(&user).Updates(models.User{Name: ident.Name, Picture: ident.Picture})

		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if req.GuestID != "" {
			if err := mergeGuestCart(db, req.GuestID, &user); err != nil {
				// Losing a guest cart is annoying but not worth failing the login.
				log.L.Warn("guest cart merge failed",
					zap.String("guest_id", req.GuestID),
					zap.String("user_id", user.ID),
					zap.Error(err))
			}
		}

		token, err := issueToken(user.ID, RoleUser, 7*24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// mergeGuestCart folds the guest's cart lines into the user's cart and
// removes the guest identity. Lines merge by (product, sugar level).
func mergeGuestCart(db *gorm.DB, guestID string, user *models.User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var guestCart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", guestID).First(&guestCart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // nothing to merge
			}
			return err
		}

		var userCart models.Cart
		if err := tx.Where("user_id = ?", user.ID).First(&userCart).Error; err != nil {
			return err
		}

		for _, item := range guestCart.Items {
			var existing models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ? AND sugar_level = ?",
				userCart.CartID, item.ProductID, item.SugarLevel).First(&existing).Error

			if errors.Is(err, gorm.ErrRecordNotFound) {
				item.ID = 0
				item.CartID = userCart.CartID
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}

			existing.Quantity += item.Quantity
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Cart{}, guestCart.CartID).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", guestID).Delete(&models.GuestUser{}).Error
	})
}
