package models

import "time"

// DeliveryStatus represents all possible states of a delivery
type DeliveryStatus string

const (
	StatusPending        DeliveryStatus = "Pending"
	StatusConfirmed      DeliveryStatus = "Confirmed"
	StatusOutForDelivery DeliveryStatus = "OutForDelivery"
	StatusDelivered      DeliveryStatus = "Delivered"
	StatusCancelled      DeliveryStatus = "Cancelled"
)

// AllStatuses lists every status in lifecycle order
func AllStatuses() []DeliveryStatus {
	return []DeliveryStatus{StatusPending, StatusConfirmed, StatusOutForDelivery, StatusDelivered, StatusCancelled}
}

// Valid reports whether s is a known status
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Delivery is a placed order. Vendor, meal and buyer fields are copied at
// creation and never follow later edits to the meal or the accounts.
type Delivery struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	VendorID        string         `json:"vendor_id" gorm:"not null;index"`
	UserID          string         `json:"user_id" gorm:"not null;index;uniqueIndex:idx_deliveries_user_idem"`
	MealID          uint           `json:"meal_id" gorm:"not null"`
	BuyerName       string         `json:"buyer_name"`
	BuyerEmail      string         `json:"buyer_email"`
	BuyerPhone      string         `json:"buyer_phone"`
	DeliveryAddress string         `json:"delivery_address" gorm:"not null"`
	VendorName      string         `json:"vendor_name"`
	MealName        string         `json:"meal_name"`
	MealPrice       float64        `json:"meal_price"` // snapshot price at time of order
	Status          DeliveryStatus `json:"status" gorm:"not null;default:'Pending'"`
	EstimatedTime   string         `json:"estimated_time"` // display hint only
	IdempotencyKey  string         `json:"idempotency_key" gorm:"not null;uniqueIndex:idx_deliveries_user_idem"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
