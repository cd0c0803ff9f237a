package boxControllers

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
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.SubscriptionBox{}, &models.BoxItem{},
	))
	return db
}

func seedProducts(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, p := range []models.Product{
		{Name: "Green Detox", Price: 250},
		{Name: "Berry Mix", Price: 180},
		{Name: "Ginger Shot", Price: 90},
	} {
		require.NoError(t, db.Create(&p).Error)
	}
}

func boxUnits(t *testing.T, db *gorm.DB, userID string) int {
	t.Helper()
	var box models.SubscriptionBox
	require.NoError(t, db.Preload("Items").Where("user_id = ?", userID).First(&box).Error)
	return box.TotalUnits()
}

func TestAddToBoxCreatesBoxOnFirstAdd(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db)

	item, err := AddToBox(db, "user-1", BoxItemInput{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "Green Detox", item.ProductName)
	assert.Equal(t, 250.0, item.UnitPrice)
	assert.Equal(t, 3, boxUnits(t, db, "user-1"))
}

func TestAddToBoxMergesSameProduct(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db)

	_, err := AddToBox(db, "user-1", BoxItemInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	item, err := AddToBox(db, "user-1", BoxItemInput{ProductID: 1, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 5, boxUnits(t, db, "user-1"))
}

func TestAddToBoxEnforcesCapacity(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db)

	_, err := AddToBox(db, "user-1", BoxItemInput{ProductID: 1, Quantity: 10})
	require.NoError(t, err)

	// Two more fit exactly.
	_, err = AddToBox(db, "user-1", BoxItemInput{ProductID: 2, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, models.BoxCapacity, boxUnits(t, db, "user-1"))

	// A full box rejects any further add and stays unchanged.
	_, err = AddToBox(db, "user-1", BoxItemInput{ProductID: 3, Quantity: 1})
	assert.ErrorIs(t, err, models.ErrBoxCapacityExceeded)
	assert.Equal(t, models.BoxCapacity, boxUnits(t, db, "user-1"))
}

func TestUpdateBoxQuantityReplacesLine(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db)

	_, err := AddToBox(db, "user-1", BoxItemInput{ProductID: 1, Quantity: 4})
	require.NoError(t, err)
	_, err = AddToBox(db, "user-1", BoxItemInput{ProductID: 2, Quantity: 4})
	require.NoError(t, err)

	item, err := UpdateBoxQuantity(db, "user-1", 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)
	assert.Equal(t, 12, boxUnits(t, db, "user-1"))
}

func TestUpdateBoxQuantityRejectsOverflow(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db)

	_, err := AddToBox(db, "user-1", BoxItemInput{ProductID: 1, Quantity: 4})
	require.NoError(t, err)
	_, err = AddToBox(db, "user-1", BoxItemInput{ProductID: 2, Quantity: 4})
	require.NoError(t, err)

	// 9 + the other line's 4 would be 13.
	_, err = UpdateBoxQuantity(db, "user-1", 1, 9)
	assert.ErrorIs(t, err, models.ErrBoxCapacityExceeded)
	assert.Equal(t, 8, boxUnits(t, db, "user-1"), "rejected update must not change the box")
}

func TestUpdateBoxQuantityUnknownProduct(t *testing.T) {
	db := setupDB(t)
	seedProducts(t, db)

	_, err := AddToBox(db, "user-1", BoxItemInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	_, err = UpdateBoxQuantity(db, "user-1", 99, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
