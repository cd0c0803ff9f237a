package orderControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sipwell/storefront-api/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus) models.Order {
	t.Helper()
	require.NoError(t, db.FirstOrCreate(&models.User{ID: "user-1", Email: "user-1@example.com"}).Error)
	order := models.Order{
		OrderNumber:   "ORD-20260829-" + string(status) + "-1",
		UserID:        "user-1",
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
		TotalAmount:   375,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestOrderWalksFullLifecycle(t *testing.T) {
	db := setupDB(t)
	order := seedOrder(t, db, models.OrderStatusPending)

	for _, next := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		updated, err := UpdateOrderStatus(db, order.OrderNumber, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	var persisted models.Order
	require.NoError(t, db.First(&persisted, order.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, persisted.Status)
	assert.NotNil(t, persisted.ShippedAt)
	assert.NotNil(t, persisted.DeliveredAt)
}

func TestOrderStatusCannotSkipSteps(t *testing.T) {
	db := setupDB(t)
	order := seedOrder(t, db, models.OrderStatusPending)

	_, err := UpdateOrderStatus(db, order.OrderNumber, models.OrderStatusShipped)
	var terr *models.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, string(models.OrderStatusPending), terr.From)
	assert.Equal(t, string(models.OrderStatusShipped), terr.To)

	// The rejected write must leave the row untouched.
	var persisted models.Order
	require.NoError(t, db.First(&persisted, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, persisted.Status)
	assert.Nil(t, persisted.ShippedAt)
}

func TestDeliveredOrderIsTerminal(t *testing.T) {
	db := setupDB(t)
	order := seedOrder(t, db, models.OrderStatusDelivered)

	_, err := UpdateOrderStatus(db, order.OrderNumber, models.OrderStatusCancelled)
	var terr *models.TransitionError
	assert.ErrorAs(t, err, &terr)
}

func TestCancelBeforeShipping(t *testing.T) {
	db := setupDB(t)
	order := seedOrder(t, db, models.OrderStatusConfirmed)

	updated, err := UpdateOrderStatus(db, order.OrderNumber, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
}

func TestPaymentMarkedPaidOnDelivery(t *testing.T) {
	db := setupDB(t)
	order := seedOrder(t, db, models.OrderStatusShipped)

	// COD: the agent collects cash and flips payment at the door.
	updated, err := UpdatePaymentStatus(db, order.OrderNumber, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, models.OrderStatusShipped, updated.Status, "payment moves independently of fulfilment")
}

func TestPaidPaymentCannotRevert(t *testing.T) {
	db := setupDB(t)
	order := seedOrder(t, db, models.OrderStatusDelivered)
	_, err := UpdatePaymentStatus(db, order.OrderNumber, models.PaymentStatusPaid)
	require.NoError(t, err)

	_, err = UpdatePaymentStatus(db, order.OrderNumber, models.PaymentStatusPending)
	var terr *models.TransitionError
	assert.ErrorAs(t, err, &terr)
}

func TestUserWithOrdersCannotBeDeleted(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))

	require.NoError(t, db.Create(&models.User{ID: "user-1", Email: "user-1@example.com"}).Error)
	require.NoError(t, db.Create(&models.Order{
		OrderNumber: "ORD-20260829-1", UserID: "user-1",
		Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid,
	}).Error)

	err = db.Delete(&models.User{}, "id = ?", "user-1").Error
	assert.Error(t, err, "order history pins the profile row")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateUnknownOrder(t *testing.T) {
	db := setupDB(t)
	_, err := UpdateOrderStatus(db, "ORD-20260829-nope", models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
