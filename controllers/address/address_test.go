package addressControllers

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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Address{}))
	return db
}

func seedAddresses(t *testing.T, db *gorm.DB) (home, office models.Address) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: "user-1", Email: "user-1@example.com"}).Error)
	home = models.Address{UserID: "user-1", Label: "home", Line1: "12 Palm Street", City: "Kochi", IsDefault: true}
	office = models.Address{UserID: "user-1", Label: "office", Line1: "4 Marine Drive", City: "Kochi"}
	require.NoError(t, db.Create(&home).Error)
	require.NoError(t, db.Create(&office).Error)
	return home, office
}

func countDefaults(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).Count(&n).Error)
	return n
}

func TestSetDefaultAddressClearsPrevious(t *testing.T) {
	db := setupDB(t)
	home, office := seedAddresses(t, db)

	require.NoError(t, SetDefaultAddress(db, "user-1", office.ID))

	assert.EqualValues(t, 1, countDefaults(t, db, "user-1"))

	var reloaded models.Address
	require.NoError(t, db.First(&reloaded, home.ID).Error)
	assert.False(t, reloaded.IsDefault)
	reloaded = models.Address{} // reset so the stale primary key is not reused as a query condition
	require.NoError(t, db.First(&reloaded, office.ID).Error)
	assert.True(t, reloaded.IsDefault)
}

func TestSetDefaultAddressIsIdempotent(t *testing.T) {
	db := setupDB(t)
	home, _ := seedAddresses(t, db)

	require.NoError(t, SetDefaultAddress(db, "user-1", home.ID))
	require.NoError(t, SetDefaultAddress(db, "user-1", home.ID))

	assert.EqualValues(t, 1, countDefaults(t, db, "user-1"))
}

func TestSetDefaultAddressRejectsForeignAddress(t *testing.T) {
	db := setupDB(t)
	_, office := seedAddresses(t, db)

	err := SetDefaultAddress(db, "user-2", office.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// user-1's defaults are untouched.
	assert.EqualValues(t, 1, countDefaults(t, db, "user-1"))
}
