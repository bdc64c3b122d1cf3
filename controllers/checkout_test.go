package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ulavan-storefront/models"
	"ulavan-storefront/ui"
)

func TestReviewWithoutAddressRedirects(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	f.addToCart(t, id, 1)

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	review, err := cc.BeginReview(context.Background())

	require.NoError(t, err)
	assert.Nil(t, review)
	assert.Equal(t, ui.PageAddress, f.rec.LastPage())
	assert.Equal(t, 0, f.backend.OrderCreateCalls())
}

func TestSubmitAddressComposesFullLine(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	form := &models.DraftAddress{
		Street: "12 MG Road",
		City:   "Chennai",
		State:  "TN",
		Zip:    "600001",
		Phone:  "9876543210",
	}
	require.NoError(t, cc.SubmitAddress(context.Background(), form, false))

	draft := f.store.DraftAddress()
	require.NotNil(t, draft)
	assert.Equal(t, "12 MG Road, Chennai, TN - 600001", draft.FullLine())
	assert.Equal(t, ui.PageReview, f.rec.LastPage())
	// Save was unchecked: the profile endpoint must not have been touched.
	assert.Equal(t, 0, f.backend.ProfileUpdateCalls())
}

func TestSubmitAddressEmptyFormRejected(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	err := cc.SubmitAddress(context.Background(), &models.DraftAddress{Phone: "9876543210"}, false)

	require.Error(t, err)
	assert.Nil(t, f.store.DraftAddress())
	assert.Empty(t, f.rec.Navigations)
}

func TestSubmitAddressSavesToProfileOnlyWhenChanged(t *testing.T) {
	f := newFixture(t)
	user := f.login(t, "Asha Raman", "asha@example.com", "buyer")
	user.Address = "12 MG Road, Chennai, TN - 600001"
	user.Phone = "9876543210"
	f.store.SaveUser(user)
	f.backend.SetUserAddress("asha@example.com", user.Address, user.Phone)

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	unchanged := &models.DraftAddress{
		Street: "12 MG Road", City: "Chennai", State: "TN", Zip: "600001", Phone: "9876543210",
	}
	require.NoError(t, cc.SubmitAddress(context.Background(), unchanged, true))
	assert.Equal(t, 0, f.backend.ProfileUpdateCalls())

	changed := &models.DraftAddress{
		Street: "4 Beach Road", City: "Pondicherry", Zip: "605001", Phone: "9876543210",
	}
	require.NoError(t, cc.SubmitAddress(context.Background(), changed, true))
	assert.Equal(t, 1, f.backend.ProfileUpdateCalls())
}

func TestUseSavedAddress(t *testing.T) {
	f := newFixture(t)
	user := f.login(t, "Asha Raman", "asha@example.com", "buyer")
	user.Address = "12 MG Road, Chennai"
	user.Phone = "9876543210"

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	require.NoError(t, cc.UseSavedAddress(user))

	draft := f.store.DraftAddress()
	require.NotNil(t, draft)
	assert.Equal(t, "Asha", draft.FirstName)
	assert.Equal(t, "Raman", draft.LastName)
	assert.Equal(t, "12 MG Road, Chennai", draft.Street)
	assert.Equal(t, ui.PageReview, f.rec.LastPage())

	// No stored address: nothing to ship to.
	assert.Error(t, cc.UseSavedAddress(&models.User{Username: "New User"}))
}

func TestBeginReviewRendersFreshCart(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	f.addToCart(t, id, 2)
	f.store.SaveDraftAddress(&models.DraftAddress{Street: "12 MG Road", City: "Chennai", Zip: "600001"})

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	review, err := cc.BeginReview(context.Background())

	require.NoError(t, err)
	require.NotNil(t, review)
	assert.True(t, review.CanPlaceOrder)
	assert.Equal(t, 240.0, review.Cart.TotalAmount)
	assert.Equal(t, "12 MG Road, Chennai - 600001", review.AddressLine)
}

func TestPlaceOrderOnceAndClearsDraft(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	f.addToCart(t, id, 2)
	f.store.SaveDraftAddress(&models.DraftAddress{Street: "12 MG Road", City: "Chennai", Zip: "600001"})

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	orderID, err := cc.PlaceOrder(context.Background())

	require.NoError(t, err)
	assert.NotZero(t, orderID)
	assert.Equal(t, 1, f.backend.OrderCreateCalls())
	assert.Nil(t, f.store.DraftAddress())
	assert.True(t, cc.Placing())
	require.NotEmpty(t, f.rec.Navigations)
	last := f.rec.Navigations[len(f.rec.Navigations)-1]
	assert.Equal(t, ui.PageConfirmation, last.Page)

	// A second click on the same control must not reach the server.
	_, err = cc.PlaceOrder(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, f.backend.OrderCreateCalls())

	// Stock was decremented server-side.
	p, ok := f.backend.Product(id)
	require.True(t, ok)
	assert.Equal(t, 8, p.StockQuantity)
}

func TestPlaceOrderFailureReenablesControl(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	f.addToCart(t, id, 2)
	f.store.SaveDraftAddress(&models.DraftAddress{Street: "12 MG Road", City: "Chennai", Zip: "600001"})
	f.backend.FailNextOrder()

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	_, err := cc.PlaceOrder(context.Background())

	require.Error(t, err)
	assert.False(t, cc.Placing())
	// The draft survives a failed placement so the user can retry.
	assert.NotNil(t, f.store.DraftAddress())

	orderID, err := cc.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, orderID)
	assert.Equal(t, 2, f.backend.OrderCreateCalls())
	assert.Nil(t, f.store.DraftAddress())
}

func TestPlaceOrderWithoutDraftRedirects(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")

	cc := NewCheckoutController(f.client, f.store, f.rec, f.out)
	_, err := cc.PlaceOrder(context.Background())

	require.Error(t, err)
	assert.Equal(t, ui.PageAddress, f.rec.LastPage())
	assert.Equal(t, 0, f.backend.OrderCreateCalls())
}
