package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/log"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Core Logic --------

// findOrder loads an order by numeric id or by order number.
func findOrder(tx *gorm.DB, order *models.Order, key string) error {
	if _, err := strconv.ParseUint(key, 10, 64); err == nil {
		return tx.First(order, "id = ?", key).Error
	}
	return tx.First(order, "order_number = ?", key).Error
}

// UpdateOrderStatus applies a lifecycle transition as a single atomic
// update keyed by order id. Concurrent console writes are last-writer-wins;
// the transition check runs against the freshly loaded row.
func UpdateOrderStatus(db *gorm.DB, orderID string, next models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findOrder(tx, &order, orderID); err != nil {
			return err
		}

		if err := order.ApplyStatus(next, time.Now()); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     order.Status,
			"updated_at": order.UpdatedAt,
		}
		if order.ShippedAt != nil {
			updates["shipped_at"] = order.ShippedAt
		}
		if order.DeliveredAt != nil {
			updates["delivered_at"] = order.DeliveredAt
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdatePaymentStatus applies a payment transition (e.g. the delivery agent
// marking a COD order paid at drop-off).
func UpdatePaymentStatus(db *gorm.DB, orderID string, next models.PaymentStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findOrder(tx, &order, orderID); err != nil {
			return err
		}

		if err := order.ApplyPaymentStatus(next, time.Now()); err != nil {
			return err
		}

		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"payment_status": order.PaymentStatus,
			"updated_at":     order.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// GET /admin/orders?status=pending
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC")

		if raw := c.Query("status"); raw != "" {
			status, err := models.ParseOrderStatus(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /delivery/orders
//
// The agent console only cares about orders in motion.
func GetDeliveryQueueHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Where("status IN ?", []models.OrderStatus{
				models.OrderStatusConfirmed,
				models.OrderStatusShipped,
			}).
			Order("created_at ASC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userIDVal).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID — accepts a numeric id or an order number.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := findOrder(db.Preload("User").Preload("Items"), &order, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/status (also /delivery)
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		next, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := UpdateOrderStatus(db, orderID, next)
		if err != nil {
			var terr *models.TransitionError
			switch {
			case errors.As(err, &terr):
				c.JSON(http.StatusConflict, gin.H{"error": terr.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				log.L.Error("status update failed", zap.String("order_id", orderID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			}
			return
		}

		Broadcast("status_changed", order.ID)
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/payment-status (also /delivery)
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		next, err := models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := UpdatePaymentStatus(db, orderID, next)
		if err != nil {
			var terr *models.TransitionError
			switch {
			case errors.As(err, &terr):
				c.JSON(http.StatusConflict, gin.H{"error": terr.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				log.L.Error("payment update failed", zap.String("order_id", orderID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			}
			return
		}

		Broadcast("payment_changed", order.ID)
		c.JSON(http.StatusOK, order)
	}
}

// DELETE /admin/orders/:orderID
//
// Items go first, then the header, in one transaction. Irreversible; the
// console asks for confirmation before calling this.
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")

		var order models.Order
		if err := findOrder(db, &order, orderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Order{}, order.ID).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}

		Broadcast("deleted", order.ID)
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
