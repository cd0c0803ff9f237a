package boxControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/models"
)

type BoxItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// AddToBox adds quantity units of a product to the user's subscription box;
// repeated adds of the same product accumulate (the cart replaces instead,
// because box edits count units toward the cap). The add is rejected as a
// no-op when it would push the box past capacity.
func AddToBox(db *gorm.DB, userID string, input BoxItemInput) (*models.BoxItem, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
		return nil, err
	}

	var result *models.BoxItem
	err := db.Transaction(func(tx *gorm.DB) error {
		box, err := loadOrCreateBox(tx, userID)
		if err != nil {
			return err
		}

		if box.TotalUnits()+input.Quantity > models.BoxCapacity {
			return models.ErrBoxCapacityExceeded
		}

		for i := range box.Items {
			if box.Items[i].ProductID == input.ProductID {
				box.Items[i].Quantity += input.Quantity
				if err := tx.Save(&box.Items[i]).Error; err != nil {
					return err
				}
				result = &box.Items[i]
				return nil
			}
		}

		item := models.BoxItem{
			BoxID:        box.BoxID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			UnitPrice:    product.Price,
			Quantity:     input.Quantity,
			AddedAt:      time.Now(),
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		result = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateBoxQuantity replaces the quantity of one product line. A target
// quantity that would exceed capacity is rejected and prior state kept.
func UpdateBoxQuantity(db *gorm.DB, userID string, productID uint, quantity int) (*models.BoxItem, error) {
	var result *models.BoxItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var box models.SubscriptionBox
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&box).Error; err != nil {
			return err
		}

		if box.UnitsExcluding(productID)+quantity > models.BoxCapacity {
			return models.ErrBoxCapacityExceeded
		}

		for i := range box.Items {
			if box.Items[i].ProductID == productID {
				box.Items[i].Quantity = quantity
				if err := tx.Save(&box.Items[i]).Error; err != nil {
					return err
				}
				result = &box.Items[i]
				return nil
			}
		}
		return gorm.ErrRecordNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func loadOrCreateBox(tx *gorm.DB, userID string) (*models.SubscriptionBox, error) {
	var box models.SubscriptionBox
	err := tx.Preload("Items").Where("user_id = ?", userID).First(&box).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		box = models.SubscriptionBox{UserID: userID}
		if err := tx.Create(&box).Error; err != nil {
			return nil, err
		}
		return &box, nil
	}
	if err != nil {
		return nil, err
	}
	return &box, nil
}

// -------- Handlers --------

// POST /user/box
func AddToBoxHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := boxUserID(c)
		if !ok {
			return
		}

		var input BoxItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddToBox(db, userID, input)
		if err != nil {
			boxError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// PUT /user/box/:product_id
func UpdateBoxQuantityHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := boxUserID(c)
		if !ok {
			return
		}

		var input struct {
			Quantity int `json:"quantity" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		productID, ok := uintParam(c, "product_id")
		if !ok {
			return
		}

		item, err := UpdateBoxQuantity(db, userID, productID, input.Quantity)
		if err != nil {
			boxError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/box/:product_id
func RemoveFromBoxHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := boxUserID(c)
		if !ok {
			return
		}
		productID, ok := uintParam(c, "product_id")
		if !ok {
			return
		}

		var box models.SubscriptionBox
		if err := db.Where("user_id = ?", userID).First(&box).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Box not found"})
			return
		}

		result := db.Where("box_id = ? AND product_id = ?", box.BoxID, productID).Delete(&models.BoxItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Box item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from box"})
	}
}

// GET /user/box
func GetBoxHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := boxUserID(c)
		if !ok {
			return
		}

		var box models.SubscriptionBox
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&box).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"items": []models.BoxItem{}, "units": 0, "capacity": models.BoxCapacity})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch box"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":    box.Items,
			"units":    box.TotalUnits(),
			"capacity": models.BoxCapacity,
			"subtotal": box.Subtotal(),
		})
	}
}

func boxUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, _ := userIDVal.(string)
	return userID, userID != ""
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func boxError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrBoxCapacityExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "Box is full",
			"capacity": models.BoxCapacity,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update box"})
	}
}
