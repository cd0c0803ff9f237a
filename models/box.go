package models

import "time"

// BoxCapacity is the maximum total unit count a subscription box holds.
const BoxCapacity = 12

type SubscriptionBox struct {
	BoxID     uint      `gorm:"primaryKey" json:"box_id"`
	UserID    string    `gorm:"uniqueIndex" json:"user_id"` // one box per user
	Items     []BoxItem `gorm:"foreignKey:BoxID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BoxItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BoxID        uint      `gorm:"index:idx_box_product,unique" json:"box_id"`
	ProductID    uint      `gorm:"index:idx_box_product,unique" json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image"`
	UnitPrice    float64   `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}

// TotalUnits counts every unit in the box.
func (b *SubscriptionBox) TotalUnits() int {
	var n int
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}

// UnitsExcluding counts units in the box ignoring one product line, used
// when an update replaces that line's quantity.
func (b *SubscriptionBox) UnitsExcluding(productID uint) int {
	var n int
	for _, it := range b.Items {
		if it.ProductID != productID {
			n += it.Quantity
		}
	}
	return n
}

// Subtotal sums unit price times quantity over the box.
func (b *SubscriptionBox) Subtotal() float64 {
	var sum float64
	for _, it := range b.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}
