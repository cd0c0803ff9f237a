package addressControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/geo"
	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/log"
)

type AddressInput struct {
	Label      string `json:"label"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

func currentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, _ := userIDVal.(string)
	return userID, userID != ""
}

// SetDefaultAddress clears every other default for the user and flags the
// chosen one, in a single transaction so concurrent edits can't leave two
// defaults behind.
func SetDefaultAddress(db *gorm.DB, userID string, addressID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var addr models.Address
		if err := tx.Where("user_id = ? AND id = ?", userID, addressID).First(&addr).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Address{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&addr).Update("is_default", true).Error
	})
}

// GET /user/addresses
func ListAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).Order("is_default DESC, created_at DESC").
			Find(&addresses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// POST /user/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		addr := models.Address{
			UserID:     userID,
			Label:      input.Label,
			Line1:      input.Line1,
			Line2:      input.Line2,
			City:       input.City,
			State:      input.State,
			PostalCode: input.PostalCode,
			Country:    input.Country,
		}

		if err := db.Create(&addr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
			return
		}

		if input.IsDefault {
			if err := SetDefaultAddress(db, userID, addr.ID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set default address"})
				return
			}
			addr.IsDefault = true
		}

		c.JSON(http.StatusCreated, addr)
	}
}

// PUT /user/addresses/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
			return
		}

		var addr models.Address
		if err := db.Where("user_id = ? AND id = ?", userID, id).First(&addr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load address"})
			return
		}

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		addr.Label = input.Label
		addr.Line1 = input.Line1
		addr.Line2 = input.Line2
		addr.City = input.City
		addr.State = input.State
		addr.PostalCode = input.PostalCode
		addr.Country = input.Country
		if err := db.Save(&addr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
			return
		}

		if input.IsDefault && !addr.IsDefault {
			if err := SetDefaultAddress(db, userID, addr.ID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set default address"})
				return
			}
			addr.IsDefault = true
		}

		c.JSON(http.StatusOK, addr)
	}
}

// PUT /user/addresses/:id/default
func SetDefaultAddressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
			return
		}

		if err := SetDefaultAddress(db, userID, uint(id)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set default address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
	}
}

// DELETE /user/addresses/:id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id := c.Param("id")

		result := db.Where("user_id = ? AND id = ?", userID, id).Delete(&models.Address{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}

// GET /user/addresses/autofill?lat=..&lon=..
//
// Convenience lookup for checkout. A provider failure is non-fatal: the
// client falls back to manual entry.
func AutofillAddress(geocoder *geo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
		if errLat != nil || errLon != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
			return
		}

		result, err := geocoder.ReverseGeocode(c.Request.Context(), lat, lon)
		if err != nil {
			log.L.Warn("reverse geocode failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Address lookup unavailable"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
