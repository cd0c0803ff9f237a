package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleGuest = "guest"
)

func issueToken(subject, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": subject,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func issueStaffToken(staffID uint, email, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"staff_id": staffID,
		"email":    email,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
