package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleVendor UserRole = "vendor"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleVendor
}

// Account is one row per person, keyed by the identity provider's id.
// Vendor-only columns are nil for plain users.
type Account struct {
	ClerkID      string    `json:"clerk_id" gorm:"column:clerk_id;primaryKey"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Type         UserRole  `json:"type" gorm:"not null;default:'user'"`
	BusinessName *string   `json:"business_name"`
	Phone        *string   `json:"phone"`
	Address      *string   `json:"address"`
	KYCVerified  bool      `json:"kyc_verified" gorm:"column:kyc_verified;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Account) TableName() string { return "users" }

func (a *Account) IsVendor() bool { return a != nil && a.Type == RoleVendor }

// BusinessNameOrEmpty returns the business name, or "" when unset
func (a *Account) BusinessNameOrEmpty() string {
	if a == nil || a.BusinessName == nil {
		return ""
	}
	return *a.BusinessName
}
