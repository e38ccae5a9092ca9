package access

import (
	"testing"

	"meal-delivery-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vendor(id string) *models.Account {
	name := "Biz " + id
	return &models.Account{ClerkID: id, Type: models.RoleVendor, BusinessName: &name}
}

func buyer(id string) *models.Account {
	return &models.Account{ClerkID: id, Type: models.RoleUser}
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name   string
		acct   *models.Account
		action Action
		want   error
	}{
		{"vendor creates meal", vendor("v1"), CreateMeal, nil},
		{"user cannot create meal", buyer("u1"), CreateMeal, ErrForbidden},
		{"user places order", buyer("u1"), PlaceOrder, nil},
		{"vendor cannot place order", vendor("v1"), PlaceOrder, ErrVendorCannotOrder},
		{"no profile blocks orders", nil, PlaceOrder, ErrProfileIncomplete},
		{"no profile blocks listing", nil, CreateMeal, ErrProfileIncomplete},
		{"vendor deliveries", vendor("v1"), ViewAsVendorDeliveries, nil},
		{"user cannot view vendor deliveries", buyer("u1"), ViewAsVendorDeliveries, ErrForbidden},
		{"user buyer deliveries", buyer("u1"), ViewAsBuyerDeliveries, nil},
		{"unknown action", buyer("u1"), Action("launch"), ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.acct, tc.action)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestVendorRejectedRegardlessOfKYC(t *testing.T) {
	for _, kyc := range []bool{true, false} {
		v := vendor("v1")
		v.KYCVerified = kyc
		v.FullName = "Someone"
		assert.ErrorIs(t, Authorize(v, PlaceOrder), ErrVendorCannotOrder)
	}
}

func TestUnverifiedVendorStillCreatesMeals(t *testing.T) {
	v := vendor("v1")
	require.False(t, v.KYCVerified)
	assert.NoError(t, Authorize(v, CreateMeal))
	assert.True(t, KYCPrompt(v))

	v.KYCVerified = true
	assert.False(t, KYCPrompt(v))
	assert.False(t, KYCPrompt(buyer("u1")))
}

func TestDeliveryListing(t *testing.T) {
	scope, err := DeliveryListing(vendor("v1"))
	require.NoError(t, err)
	assert.Equal(t, DeliveryScope{Column: "vendor_id", ID: "v1"}, scope)

	scope, err = DeliveryListing(buyer("u1"))
	require.NoError(t, err)
	assert.Equal(t, DeliveryScope{Column: "user_id", ID: "u1"}, scope)

	_, err = DeliveryListing(nil)
	assert.ErrorIs(t, err, ErrProfileIncomplete)
}

func TestCanSeeDelivery(t *testing.T) {
	d := &models.Delivery{VendorID: "v1", UserID: "u1"}
	assert.True(t, CanSeeDelivery(vendor("v1"), d))
	assert.True(t, CanSeeDelivery(buyer("u1"), d))
	assert.False(t, CanSeeDelivery(vendor("v2"), d))
	assert.False(t, CanSeeDelivery(buyer("u2"), d))
	assert.False(t, CanSeeDelivery(nil, d))
}

func TestOwnsMeal(t *testing.T) {
	m := &models.Meal{VendorID: "v1"}
	assert.True(t, OwnsMeal(vendor("v1"), m))
	assert.False(t, OwnsMeal(vendor("v2"), m))
	assert.False(t, OwnsMeal(buyer("v1"), m))
}
