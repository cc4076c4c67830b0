package models

import (
	"strings"
	"time"
)

// User represents an account holder. The email address is the only identifier
// ever exposed to clients.
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email_address"`
	Username         string     `gorm:"size:150" json:"username"`
	Password         string     `gorm:"not null" json:"-"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	IsStaff          bool       `gorm:"default:false" json:"is_staff"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	Records          []Record   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Budgets          []Budget   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NormalizeEmail trims surrounding whitespace and lower-cases the domain part,
// leaving the local part untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// DefaultUsername derives a display name from the local part of an email.
func DefaultUsername(email string) string {
	if at := strings.LastIndex(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
