package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ulavan-storefront/ui"
)

func TestCartLoadShowsServerTotals(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	tomatoes := f.seedProduct(t, "Tomato Seeds", 120, 10)
	f.addToCart(t, tomatoes, 3)

	cc := NewCartController(f.client, f.rec, f.out)
	require.NoError(t, cc.Load(context.Background()))

	assert.Equal(t, CartLoaded, cc.State())
	server := f.serverCart(t)
	assert.Equal(t, server.TotalAmount, cc.Cart().TotalAmount)
	assert.Equal(t, server.TotalItems, cc.BadgeCount())
	assert.Contains(t, f.out.String(), "Tomato Seeds")
	assert.Contains(t, f.out.String(), "₹360.00")
}

func TestCartSetQuantityReloadsFromServer(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	item := f.addToCart(t, id, 2)

	cc := NewCartController(f.client, f.rec, f.out)
	require.NoError(t, cc.Load(context.Background()))
	require.NoError(t, cc.SetQuantity(context.Background(), item, 5))

	server := f.serverCart(t)
	assert.Equal(t, 5, server.TotalItems)
	assert.Equal(t, server.TotalAmount, cc.Cart().TotalAmount)
	assert.Equal(t, 5, cc.BadgeCount())
}

func TestCartQuantityBelowOneIsConfirmedRemoval(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	item := f.addToCart(t, id, 2)

	cc := NewCartController(f.client, f.rec, f.out)
	require.NoError(t, cc.Load(context.Background()))

	// Declined: the server cart must be untouched, in particular no update
	// with the invalid quantity may have been sent.
	f.rec.ConfirmAnswer = false
	require.NoError(t, cc.SetQuantity(context.Background(), item, 0))
	assert.Len(t, f.rec.Confirms, 1)
	assert.Equal(t, 2, f.serverCart(t).TotalItems)

	// Accepted: the line goes away.
	f.rec.ConfirmAnswer = true
	require.NoError(t, cc.SetQuantity(context.Background(), item, 0))
	server := f.serverCart(t)
	assert.True(t, server.IsEmpty())
	assert.Equal(t, 0, cc.BadgeCount())
}

func TestCartSetQuantityClampsToStock(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 4)
	item := f.addToCart(t, id, 2)

	cc := NewCartController(f.client, f.rec, f.out)
	require.NoError(t, cc.Load(context.Background()))
	require.NoError(t, cc.SetQuantity(context.Background(), item, 99))

	assert.Equal(t, 4, f.serverCart(t).TotalItems)
	require.NotEmpty(t, f.rec.Notices)
	assert.Equal(t, ui.Warning, f.rec.Notices[0].Kind)
}

func TestCartFailedMutationResyncs(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	f.addToCart(t, id, 2)

	cc := NewCartController(f.client, f.rec, f.out)
	require.NoError(t, cc.Load(context.Background()))

	// Updating a line that does not exist fails server-side; the controller
	// must reload so the display still matches the server.
	err := cc.SetQuantity(context.Background(), 9999, 3)
	require.Error(t, err)
	assert.Equal(t, CartLoaded, cc.State())
	assert.Equal(t, 2, cc.BadgeCount())
}

func TestCartRemoveUpdatesBadge(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	tomatoes := f.seedProduct(t, "Tomato Seeds", 120, 10)
	melons := f.seedProduct(t, "Watermelon Seeds", 80, 10)
	item := f.addToCart(t, tomatoes, 2)
	f.addToCart(t, melons, 1)

	cc := NewCartController(f.client, f.rec, f.out)
	require.NoError(t, cc.Load(context.Background()))
	assert.Equal(t, 3, cc.BadgeCount())

	f.rec.ConfirmAnswer = true
	require.NoError(t, cc.Remove(context.Background(), item))
	assert.Equal(t, 1, cc.BadgeCount())
}

func TestCartProceedToCheckout(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")

	cc := NewCartController(f.client, f.rec, f.out)
	require.NoError(t, cc.Load(context.Background()))

	// Empty cart: no checkout affordance.
	cc.ProceedToCheckout()
	assert.Empty(t, f.rec.Navigations)

	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	f.addToCart(t, id, 1)
	require.NoError(t, cc.Load(context.Background()))
	cc.ProceedToCheckout()
	assert.Equal(t, ui.PageAddress, f.rec.LastPage())
}

func TestComputeSummary(t *testing.T) {
	s := ComputeSummary(360)
	assert.Equal(t, 360.0, s.Subtotal)
	assert.Equal(t, 50.0, s.Shipping)
	assert.Equal(t, 18.0, s.Tax)
	assert.Equal(t, 428.0, s.Total)

	// Fractional subtotals must not accumulate float drift.
	s = ComputeSummary(99.99)
	assert.Equal(t, 5.0, s.Tax)
	assert.Equal(t, 154.99, s.Total)
}
