package models

import "time"

type Meal struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	VendorID     string    `json:"vendor_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	ImageURL     string    `json:"image_url"`     // storage path, not a link
	BusinessName string    `json:"business_name"` // snapshot of the vendor at creation
	ImageLink    string    `json:"image_link,omitempty" gorm:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
