package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Provider  string    `json:"provider"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses"`
	Cart      Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	// Orders are financial history; a profile with orders cannot be removed.
	Orders    []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"orders"`
	CreatedAt time.Time `json:"created_at"`
}

// GuestUser is a short-lived anonymous identity; expired rows are purged
// by the housekeeping job together with their carts.
type GuestUser struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
