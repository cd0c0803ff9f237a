package models

import "time"

// FeeSettingKey is the fixed key of the single fee-config row in app_settings.
const FeeSettingKey = "fee_config"

// AppSetting is a key/value row; the fee config lives under FeeSettingKey.
// Changing it never touches already-placed orders: their totals were
// snapshotted at checkout.
type AppSetting struct {
	Key                   string    `gorm:"primaryKey" json:"key"`
	ShippingFee           float64   `json:"shipping_fee"`
	PackagingFee          float64   `json:"packaging_fee"`
	TaxPercentage         float64   `json:"tax_percentage"`
	FreeShippingThreshold float64   `json:"free_shipping_threshold"`
	IsActive              bool      `json:"is_active"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
