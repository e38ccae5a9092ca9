// Package access holds the role rules that decide what an account may do.
// Every function here is pure: callers load the account, access decides.
package access

import (
	"errors"

	"meal-delivery-api/models"
)

// Action is something a caller asks to do
type Action string

const (
	CreateMeal             Action = "create_meal"
	ManageMeal             Action = "manage_meal"
	PlaceOrder             Action = "place_order"
	ViewAsVendorDeliveries Action = "view_as_vendor_deliveries"
	ViewAsBuyerDeliveries  Action = "view_as_buyer_deliveries"
)

var (
	ErrProfileIncomplete = errors.New("please complete your profile")
	ErrVendorCannotOrder = errors.New("vendors cannot place orders")
	ErrForbidden         = errors.New("action not permitted for this account")
)

// Authorize returns nil when acct may perform action. A nil account has no
// stored profile row and is blocked from everything.
// KYC status is not consulted.
func Authorize(acct *models.Account, action Action) error {
	if acct == nil {
		return ErrProfileIncomplete
	}
	switch action {
	case CreateMeal, ManageMeal, ViewAsVendorDeliveries:
		if acct.Type != models.RoleVendor {
			return ErrForbidden
		}
	case PlaceOrder:
		if acct.Type == models.RoleVendor {
			return ErrVendorCannotOrder
		}
		if acct.Type != models.RoleUser {
			return ErrForbidden
		}
	case ViewAsBuyerDeliveries:
		if acct.Type != models.RoleUser {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	return nil
}

// DeliveryScope is the equality filter applied when listing deliveries
type DeliveryScope struct {
	Column string
	ID     string
}

// DeliveryListing picks which side of the deliveries table acct sees:
// vendors see orders placed with them, everyone else sees their purchases.
func DeliveryListing(acct *models.Account) (DeliveryScope, error) {
	if acct == nil {
		return DeliveryScope{}, ErrProfileIncomplete
	}
	if acct.Type == models.RoleVendor {
		return DeliveryScope{Column: "vendor_id", ID: acct.ClerkID}, nil
	}
	return DeliveryScope{Column: "user_id", ID: acct.ClerkID}, nil
}

// CanSeeDelivery reports whether acct is the buyer or the vendor on d
func CanSeeDelivery(acct *models.Account, d *models.Delivery) bool {
	if acct == nil || d == nil {
		return false
	}
	if acct.Type == models.RoleVendor {
		return d.VendorID == acct.ClerkID
	}
	return d.UserID == acct.ClerkID
}

// OwnsMeal reports whether acct is the vendor that listed m
func OwnsMeal(acct *models.Account, m *models.Meal) bool {
	return acct.IsVendor() && m != nil && m.VendorID == acct.ClerkID
}

// KYCPrompt reports whether acct should be nudged to submit verification
func KYCPrompt(acct *models.Account) bool {
	return acct.IsVendor() && !acct.KYCVerified
}
