package models

import "time"

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      string `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// Money fields are snapshotted at checkout and never recomputed,
	// even if products or fee settings change later.
	Subtotal     float64 `json:"subtotal"`
	ShippingFee  float64 `json:"shipping_fee"`
	PackagingFee float64 `json:"packaging_fee"`
	TaxAmount    float64 `json:"tax_amount"`
	TotalAmount  float64 `json:"total_amount"`

	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod string        `gorm:"type:VARCHAR(20);default:'cod'" json:"payment_method"`

	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	DeliveryNotes   string `gorm:"type:text" json:"delivery_notes"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// OrderItem carries product snapshots so later catalog edits never
// retroactively change historical orders.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	SugarLevel   string  `json:"sugar_level"`
	Subtotal     float64 `json:"subtotal"` // quantity * unit_price, fixed at creation
}

// ItemsSubtotal sums the line-item subtotals.
func (o *Order) ItemsSubtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Subtotal
	}
	return sum
}
