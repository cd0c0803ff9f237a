// Package pricing computes checkout fees from the admin-tunable fee config.
// ComputeFees is pure: the same subtotal and config always produce the same
// breakdown, and nothing here touches the database.
package pricing

// Config mirrors the fee-config row in app_settings.
type Config struct {
	ShippingFee           float64 `json:"shipping_fee"`
	PackagingFee          float64 `json:"packaging_fee"`
	TaxPercentage         float64 `json:"tax_percentage"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold"`
	IsActive              bool    `json:"is_active"`
}

// Fees is the breakdown applied on top of a cart subtotal.
type Fees struct {
	Shipping  float64 `json:"shipping"`
	Packaging float64 `json:"packaging"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

// Default is the fallback used when the persisted config cannot be loaded.
// Checkout availability wins over configurability.
func Default() Config {
	return Config{
		ShippingFee:           50,
		PackagingFee:          10,
		TaxPercentage:         5,
		FreeShippingThreshold: 500,
		IsActive:              true,
	}
}

// ComputeFees maps (subtotal, config) to the fee breakdown.
//
// With an inactive config everything is zero and total equals subtotal.
// The free-shipping threshold is inclusive: subtotal == threshold ships free.
// Tax is kept unrounded; rounding happens at display time.
func ComputeFees(subtotal float64, cfg Config) Fees {
	if !cfg.IsActive {
		return Fees{Total: subtotal}
	}

	shipping := cfg.ShippingFee
	if subtotal >= cfg.FreeShippingThreshold {
		shipping = 0
	}

	tax := subtotal * cfg.TaxPercentage / 100

	return Fees{
		Shipping:  shipping,
		Packaging: cfg.PackagingFee,
		Tax:       tax,
		Total:     subtotal + shipping + cfg.PackagingFee + tax,
	}
}
