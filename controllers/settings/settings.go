package settingsControllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sipwell/storefront-api/cache"
	"github.com/sipwell/storefront-api/models"
	"github.com/sipwell/storefront-api/pkg/log"
	"github.com/sipwell/storefront-api/pricing"
)

const feeCacheKey = "settings:fee_config"

// LoadFeeConfig returns the persisted fee config, falling back to the
// hardcoded default when the row is missing or the store is unreachable.
// Checkout must keep working even if settings can't be read.
func LoadFeeConfig(ctx context.Context, db *gorm.DB, cc *cache.Client) pricing.Config {
	var cached pricing.Config
	if cc.GetJSON(ctx, feeCacheKey, &cached) {
		return cached
	}

	var row models.AppSetting
	if err := db.WithContext(ctx).Where("key = ?", models.FeeSettingKey).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.L.Warn("fee config lookup failed, using defaults", zap.Error(err))
		}
		return pricing.Default()
	}

	cfg := pricing.Config{
		ShippingFee:           row.ShippingFee,
		PackagingFee:          row.PackagingFee,
		TaxPercentage:         row.TaxPercentage,
		FreeShippingThreshold: row.FreeShippingThreshold,
		IsActive:              row.IsActive,
	}
	cc.SetJSON(ctx, feeCacheKey, cfg, 5*time.Minute)
	return cfg
}

// GET /admin/settings/fees
func GetFeeSettings(db *gorm.DB, cc *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := LoadFeeConfig(c.Request.Context(), db, cc)
		c.JSON(http.StatusOK, cfg)
	}
}

type UpdateFeeSettingsRequest struct {
	ShippingFee           *float64 `json:"shipping_fee"`
	PackagingFee          *float64 `json:"packaging_fee"`
	TaxPercentage         *float64 `json:"tax_percentage"`
	FreeShippingThreshold *float64 `json:"free_shipping_threshold"`
	IsActive              *bool    `json:"is_active"`
}

// PUT /admin/settings/fees
//
// Upserts the single fee-config row. Already-placed orders keep their
// snapshotted totals regardless of what changes here.
func UpdateFeeSettings(db *gorm.DB, cc *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateFeeSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		current := LoadFeeConfig(c.Request.Context(), db, cc)
		if req.ShippingFee != nil {
			current.ShippingFee = *req.ShippingFee
		}
		if req.PackagingFee != nil {
			current.PackagingFee = *req.PackagingFee
		}
		if req.TaxPercentage != nil {
			current.TaxPercentage = *req.TaxPercentage
		}
		if req.FreeShippingThreshold != nil {
			current.FreeShippingThreshold = *req.FreeShippingThreshold
		}
		if req.IsActive != nil {
			current.IsActive = *req.IsActive
		}

		if current.ShippingFee < 0 || current.PackagingFee < 0 ||
			current.TaxPercentage < 0 || current.FreeShippingThreshold < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fees cannot be negative"})
			return
		}

		row := models.AppSetting{
			Key:                   models.FeeSettingKey,
			ShippingFee:           current.ShippingFee,
			PackagingFee:          current.PackagingFee,
			TaxPercentage:         current.TaxPercentage,
			FreeShippingThreshold: current.FreeShippingThreshold,
			IsActive:              current.IsActive,
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}

		cc.Invalidate(c.Request.Context(), feeCacheKey)
		c.JSON(http.StatusOK, current)
	}
}
