package checkoutControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/orderref"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{},
		&models.SubscriptionBox{}, &models.BoxItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Address{}, &models.AppSetting{},
	))
	seedCatalog(t, db)
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, p := range []models.Product{
		{Name: "Green Detox", Price: 250, Stock: 100},
		{Name: "Berry Mix", Price: 180, Stock: 100},
		{Name: "Ginger Shot", Price: 150, Stock: 100},
	} {
		require.NoError(t, db.Create(&p).Error)
	}
}

func newRefs(t *testing.T) *orderref.Generator {
	t.Helper()
	refs, err := orderref.New(1)
	require.NoError(t, err)
	return refs
}

func seedCart(t *testing.T, db *gorm.DB, userID string, items ...models.CartItem) models.Cart {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: userID, Email: userID + "@example.com"}).Error)
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Create(&cart).Error)
	for i := range items {
		items[i].CartID = cart.CartID
		items[i].AddedAt = time.Now()
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return cart
}

func TestPlaceOrderAppliesDefaultFees(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Green Detox", UnitPrice: 250, Quantity: 4},
	)

	order, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{})
	require.NoError(t, err)

	// Subtotal 1000 crosses the free-shipping threshold.
	assert.Equal(t, 1000.0, order.Subtotal)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 10.0, order.PackagingFee)
	assert.Equal(t, 50.0, order.TaxAmount)
	assert.Equal(t, 1060.0, order.TotalAmount)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "cod", order.PaymentMethod)
}

func TestPlaceOrderChargesShippingBelowThreshold(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Ginger Shot", UnitPrice: 150, Quantity: 2},
	)

	order, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{})
	require.NoError(t, err)

	assert.Equal(t, 300.0, order.Subtotal)
	assert.Equal(t, 50.0, order.ShippingFee)
	assert.Equal(t, 375.0, order.TotalAmount)
}

func TestPlaceOrderGeneratesUniqueOrderNumbers(t *testing.T) {
	db := setupDB(t)
	refs := newRefs(t)
	seen := make(map[string]bool)

	for i := 0; i < 5; i++ {
		userID := "user-" + string(rune('a'+i))
		seedCart(t, db, userID,
			models.CartItem{ProductID: 1, ProductName: "Citrus Blast", UnitPrice: 100, Quantity: 1},
		)
		order, err := PlaceOrder(context.Background(), db, nil, refs, userID, CheckoutRequest{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
		assert.False(t, seen[order.OrderNumber], "order number %s repeated", order.OrderNumber)
		seen[order.OrderNumber] = true
	}
}

func TestPlaceOrderClearsCartAtomically(t *testing.T) {
	db := setupDB(t)
	cart := seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Green Detox", UnitPrice: 250, Quantity: 2},
		models.CartItem{ProductID: 2, ProductName: "Berry Mix", UnitPrice: 180, Quantity: 1},
	)

	order, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&remaining).Error)
	assert.Zero(t, remaining, "cart must be emptied in the checkout transaction")

	// The order lines carry snapshots, not references.
	var persisted models.Order
	require.NoError(t, db.Preload("Items").First(&persisted, order.ID).Error)
	assert.Equal(t, order.Subtotal, persisted.ItemsSubtotal())
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1")

	_, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{})
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderFromBoxKeepsBoxIntact(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.User{ID: "user-1", Email: "user-1@example.com"}).Error)
	box := models.SubscriptionBox{UserID: "user-1"}
	require.NoError(t, db.Create(&box).Error)
	require.NoError(t, db.Create(&models.BoxItem{
		BoxID: box.BoxID, ProductID: 1, ProductName: "Green Detox", UnitPrice: 250, Quantity: 4,
	}).Error)

	order, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{Source: SourceBox})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, order.Subtotal)

	// The box is recurring; its lines survive checkout.
	var remaining int64
	require.NoError(t, db.Model(&models.BoxItem{}).Where("box_id = ?", box.BoxID).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}

func TestPlaceOrderRejectsUnknownSource(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Green Detox", UnitPrice: 250, Quantity: 1},
	)

	_, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{Source: "wishlist"})
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func requestQuote(t *testing.T, db *gorm.DB, userID, query string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/checkout/quote"+query, nil)
	c.Set("user_id", userID)
	QuoteHandler(db, nil)(c)
	return w
}

func TestQuoteEmptyCartIsZero(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1")

	w := requestQuote(t, db, "user-1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var quote map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Zero(t, quote["subtotal"])
	assert.Zero(t, quote["total"], "no fees without anything to ship")
}

func TestQuoteAppliesFeesToCart(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Ginger Shot", UnitPrice: 150, Quantity: 2},
	)

	w := requestQuote(t, db, "user-1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var quote map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 300.0, quote["subtotal"])
	assert.Equal(t, 375.0, quote["total"])
}

func TestQuoteRejectsUnknownSource(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1")

	w := requestQuote(t, db, "user-1", "?source=wishlist")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrderReservesStock(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Green Detox", UnitPrice: 250, Quantity: 4},
	)

	_, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{})
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, db.First(&product, 1).Error)
	assert.Equal(t, 96, product.Stock)
}

func TestPlaceOrderRejectsInsufficientStock(t *testing.T) {
	db := setupDB(t)
	cart := seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Green Detox", UnitPrice: 250, Quantity: 101},
	)

	_, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{})
	assert.ErrorIs(t, err, models.ErrOutOfStock)

	// Rollback: no order, cart intact, stock untouched.
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)

	var product models.Product
	require.NoError(t, db.First(&product, 1).Error)
	assert.Equal(t, 100, product.Stock)
}

func TestPlaceOrderSnapshotsDefaultAddress(t *testing.T) {
	db := setupDB(t)
	seedCart(t, db, "user-1",
		models.CartItem{ProductID: 1, ProductName: "Green Detox", UnitPrice: 250, Quantity: 1},
	)
	require.NoError(t, db.Create(&models.Address{
		UserID: "user-1", Line1: "12 Palm Street", City: "Kochi", PostalCode: "682001", Country: "IN",
		IsDefault: true,
	}).Error)

	order, err := PlaceOrder(context.Background(), db, nil, newRefs(t), "user-1", CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, "12 Palm Street, Kochi, 682001, IN", order.ShippingAddress)
}
