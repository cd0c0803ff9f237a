package checkoutControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/cache"
	orderControllers "github.com/sipwell/storefront-api/controllers/order"
	settingsControllers "github.com/sipwell/storefront-api/controllers/settings"
	"github.com/sipwell/storefront-api/mailer"
	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/log"
	"github.com/sipwell/storefront-api/pkg/orderref"
	"github.com/sipwell/storefront-api/pricing"
)

const (
	SourceCart = "cart"
	SourceBox  = "box"
)

// ErrUnknownSource rejects a checkout source other than "cart" or "box".
var ErrUnknownSource = errors.New("unknown checkout source")

type CheckoutRequest struct {
	Source        string `json:"source"`     // "cart" (default) or "box"
	AddressID     uint   `json:"address_id"` // 0 means "use the default address"
	DeliveryNotes string `json:"delivery_notes"`
}

// PlaceOrder is the checkout orchestrator: it turns the user's cart (or
// subscription box) into a persisted order with fees applied, atomically.
// The cart is only cleared inside the same transaction that commits the
// order, so a failed checkout never loses the cart.
func PlaceOrder(ctx context.Context, db *gorm.DB, cc *cache.Client, refs *orderref.Generator,
	userID string, req CheckoutRequest) (*models.Order, error) {

	items, subtotal, clear, err := collectItems(db, userID, req.Source)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	shippingAddr, err := resolveAddress(db, userID, req.AddressID)
	if err != nil {
		return nil, err
	}

	cfg := settingsControllers.LoadFeeConfig(ctx, db, cc)
	fees := pricing.ComputeFees(subtotal, cfg)

	order := models.Order{
		OrderNumber:     refs.Next(),
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		ShippingFee:     fees.Shipping,
		PackagingFee:    fees.Packaging,
		TaxAmount:       fees.Tax,
		TotalAmount:     fees.Total,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   "cod",
		ShippingAddress: shippingAddr,
		DeliveryNotes:   req.DeliveryNotes,
	}

	if err := validateOrder(&order); err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := reserveStock(tx, order.Items); err != nil {
			return err
		}
		// Header and items commit together; a failed item insert rolls
		// back the header instead of leaving an orphan.
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return clear(tx)
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// collectItems snapshots the order lines from the chosen source and returns
// a function that empties that source inside the checkout transaction.
func collectItems(db *gorm.DB, userID, source string) ([]models.OrderItem, float64, func(*gorm.DB) error, error) {
	switch source {
	case SourceBox:
		var box models.SubscriptionBox
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&box).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, nil, models.ErrEmptyCart
			}
			return nil, 0, nil, err
		}

		items := make([]models.OrderItem, 0, len(box.Items))
		for _, it := range box.Items {
			items = append(items, models.OrderItem{
				ProductID:    it.ProductID,
				ProductName:  it.ProductName,
				ProductImage: it.ProductImage,
				UnitPrice:    it.UnitPrice,
				Quantity:     it.Quantity,
				Subtotal:     it.UnitPrice * float64(it.Quantity),
			})
		}
		// A subscription box is recurring; checkout does not empty it.
		return items, box.Subtotal(), func(*gorm.DB) error { return nil }, nil

	case SourceCart, "":
		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, nil, models.ErrEmptyCart
			}
			return nil, 0, nil, err
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			items = append(items, models.OrderItem{
				ProductID:    it.ProductID,
				ProductName:  it.ProductName,
				ProductImage: it.ProductImage,
				UnitPrice:    it.UnitPrice,
				Quantity:     it.Quantity,
				SugarLevel:   it.SugarLevel,
				Subtotal:     it.UnitPrice * float64(it.Quantity),
			})
		}
		clear := func(tx *gorm.DB) error {
			return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
		}
		return items, cart.Subtotal(), clear, nil

	default:
		return nil, 0, nil, fmt.Errorf("%w %q", ErrUnknownSource, source)
	}
}

// reserveStock decrements product stock with a guarded update so two
// concurrent checkouts cannot both take the last bottle.
func reserveStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, it := range items {
		result := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
			Update("stock", gorm.Expr("stock - ?", it.Quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: product %d", models.ErrOutOfStock, it.ProductID)
		}
	}
	return nil
}

func resolveAddress(db *gorm.DB, userID string, addressID uint) (string, error) {
	var addr models.Address
	query := db.Where("user_id = ?", userID)
	if addressID != 0 {
		query = query.Where("id = ?", addressID)
	} else {
		query = query.Where("is_default = ?", true)
	}
	if err := query.First(&addr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil // address optional: delivery notes may carry it
		}
		return "", err
	}
	return addr.Oneline(), nil
}

func validateOrder(order *models.Order) error {
	if len(order.Items) == 0 {
		return models.ErrEmptyCart
	}
	for _, it := range order.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("invalid quantity %d for product %d", it.Quantity, it.ProductID)
		}
		if it.Subtotal != it.UnitPrice*float64(it.Quantity) {
			return fmt.Errorf("subtotal mismatch for product %d", it.ProductID)
		}
	}
	return nil
}

// -------- Handlers --------

// POST /user/checkout
func PlaceOrderHandler(db *gorm.DB, cc *cache.Client, refs *orderref.Generator, mail mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, _ := userIDVal.(string)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := PlaceOrder(c.Request.Context(), db, cc, refs, userID, req)
		if err != nil {
			if errors.Is(err, models.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
				return
			}
			if errors.Is(err, ErrUnknownSource) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if errors.Is(err, models.ErrOutOfStock) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			log.L.Error("checkout failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed, please retry"})
			return
		}

		orderControllers.Broadcast("created", order.ID)

		var user models.User
		if db.First(&user, "id = ?", userID).Error == nil {
			mailer.SendAsync(mail, mailer.KindOrderPlaced, user.Email, map[string]any{
				"Name":        user.Name,
				"OrderNumber": order.OrderNumber,
				"Total":       fmt.Sprintf("%.2f", order.TotalAmount),
			})
		}

		c.JSON(http.StatusCreated, order)
	}
}

// GET /user/checkout/quote
//
// Renders the fee breakdown for the current cart without touching anything.
func QuoteHandler(db *gorm.DB, cc *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, _ := userIDVal.(string)

		source := c.DefaultQuery("source", SourceCart)
		items, subtotal, _, err := collectItems(db, userID, source)
		switch {
		case errors.Is(err, models.ErrEmptyCart):
			zeroQuote(c)
			return
		case errors.Is(err, ErrUnknownSource):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute quote"})
			return
		}

		// Nothing to ship yet; fees only exist once a line does.
		if len(items) == 0 {
			zeroQuote(c)
			return
		}

		cfg := settingsControllers.LoadFeeConfig(c.Request.Context(), db, cc)
		fees := pricing.ComputeFees(subtotal, cfg)

		c.JSON(http.StatusOK, gin.H{
			"subtotal":  subtotal,
			"shipping":  fees.Shipping,
			"packaging": fees.Packaging,
			"tax":       fees.Tax,
			"total":     fees.Total,
		})
	}
}

func zeroQuote(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"subtotal":  0.0,
		"shipping":  0.0,
		"packaging": 0.0,
		"tax":       0.0,
		"total":     0.0,
	})
}
