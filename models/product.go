package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	RegularPrice float64 `json:"regular_price"`
	Image       string  `json:"image"`
	SizeML      int     `json:"size_ml"`
	// Sugar customization offered for this product (e.g. juices yes, kombucha no).
	Customizable bool       `json:"customizable"`
	Featured     bool       `json:"featured"`
	Categories   []Category `gorm:"many2many:product_categories;" json:"categories"`
	Stock        int        `json:"stock"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Image    string    `json:"image"`
	Products []Product `gorm:"many2many:product_categories" json:"products,omitempty"`
}
