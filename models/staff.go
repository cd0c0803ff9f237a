package models

import "time"

type StaffRole string

const (
	StaffRoleAdmin      StaffRole = "admin"      // store console
	StaffRoleDelivery   StaffRole = "delivery"   // delivery-agent console
	StaffRoleSuperAdmin StaffRole = "superadmin" // user management
)

// StaffAccount holds console logins. Passwords are stored as bcrypt hashes.
type StaffAccount struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Name         string    `json:"name"`
	Role         StaffRole `gorm:"type:VARCHAR(20);not null" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}
