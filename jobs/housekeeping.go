// Package jobs runs the scheduled background work: nightly cleanup of
// expired guest sessions and the carts they left behind.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/log"
)

// PurgeExpiredGuests removes guest users whose tokens have lapsed,
// along with their carts. Runs inside one transaction so a crash
// mid-purge never strands a cart without its owner.
func PurgeExpiredGuests(db *gorm.DB) (int64, error) {
	var purged int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var expired []models.GuestUser
		if err := tx.Where("expires_at < ?", time.Now()).Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]string, 0, len(expired))
		for _, g := range expired {
			ids = append(ids, g.ID)
		}

		var carts []models.Cart
		if err := tx.Where("user_id IN ?", ids).Find(&carts).Error; err != nil {
			return err
		}
		for _, cart := range carts {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id IN ?", ids).Delete(&models.Cart{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&models.GuestUser{})
		if result.Error != nil {
			return result.Error
		}
		purged = result.RowsAffected
		return nil
	})
	return purged, err
}

// Start schedules the nightly housekeeping run and returns the cron so
// the caller can stop it on shutdown.
func Start(db *gorm.DB) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		purged, err := PurgeExpiredGuests(db)
		if err != nil {
			log.L.Error("guest purge failed", zap.Error(err))
			return
		}
		if purged > 0 {
			log.L.Info("purged expired guests", zap.Int64("count", purged))
		}
	})
	if err != nil {
		log.L.Error("failed to schedule housekeeping", zap.Error(err))
	}
	c.Start()
	return c
}
