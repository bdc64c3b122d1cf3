package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ulavan-storefront/models"
	"ulavan-storefront/routes"
)

// placeOrder runs the whole buyer flow against the backend and returns the
// created order id.
func placeOrder(t *testing.T, f *fixture, productID, quantity int) int {
	t.Helper()
	f.addToCart(t, productID, quantity)
	var created models.Order
	require.NoError(t, f.client.Post(context.Background(), routes.Orders, struct{}{}, true, &created))
	return created.ID
}

func TestMyOrders(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)

	oc := NewOrderController(f.client, f.rec, f.out)

	orders, err := oc.MyOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Contains(t, f.out.String(), "no orders yet")

	orderID := placeOrder(t, f, id, 2)
	orders, err = oc.MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
	assert.Equal(t, models.StatusPending, orders[0].Status)
}

func TestTrackTimeline(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	id := f.seedProduct(t, "Tomato Seeds", 120, 10)
	orderID := placeOrder(t, f, id, 1)

	oc := NewOrderController(f.client, f.rec, f.out)
	order, err := oc.Track(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Contains(t, f.out.String(), "[ ] Order Confirmed")

	// Another user's order is invisible.
	f.login(t, "Mani Kumar", "mani@example.com", "buyer")
	_, err = oc.Track(context.Background(), orderID)
	assert.Error(t, err)
}

func TestTrackCancelledOrder(t *testing.T) {
	f := newFixture(t)
	seller := f.login(t, "Velan Farms", "velan@example.com", "seller")
	id := f.backend.SeedProduct(models.Product{
		Name: "Tomato Seeds", Price: 120, StockQuantity: 10, SellerID: seller.ID,
	})
	orderID := placeOrder(t, f, id, 1)

	oc := NewOrderController(f.client, f.rec, f.out)
	require.NoError(t, oc.UpdateStatus(context.Background(), orderID, models.StatusCancelled))

	_, err := oc.Track(context.Background(), orderID)
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "ORDER CANCELLED")
}

func TestSellerOrderFlow(t *testing.T) {
	f := newFixture(t)
	seller := f.login(t, "Velan Farms", "velan@example.com", "seller")
	id := f.backend.SeedProduct(models.Product{
		Name: "Tomato Seeds", Price: 120, StockQuantity: 10, SellerID: seller.ID,
	})

	// A buyer purchases the seller's product.
	f.login(t, "Asha Raman", "asha@example.com", "buyer")
	orderID := placeOrder(t, f, id, 2)

	// Back as the seller.
	f.store.SaveToken(f.backend.IssueToken("velan@example.com"))
	f.store.SaveUser(seller)

	oc := NewOrderController(f.client, f.rec, f.out)
	orders, err := oc.SellerOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)

	require.NoError(t, oc.UpdateStatus(context.Background(), orderID, models.StatusShipped))

	var order models.Order
	require.NoError(t, f.client.Get(context.Background(), routes.Order(orderID), true, &order))
	assert.Equal(t, models.StatusShipped, order.Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := newFixture(t)
	f.login(t, "Velan Farms", "velan@example.com", "seller")

	oc := NewOrderController(f.client, f.rec, f.out)
	assert.Error(t, oc.UpdateStatus(context.Background(), 1, "teleported"))
}

func TestTimelineStep(t *testing.T) {
	assert.Equal(t, 0, TimelineStep(models.StatusPending))
	assert.Equal(t, 1, TimelineStep(models.StatusConfirmed))
	assert.Equal(t, 3, TimelineStep(models.StatusShipped))
	assert.Equal(t, 5, TimelineStep(models.StatusDeliveryZone))
	assert.Equal(t, 6, TimelineStep(models.StatusDelivered))
	assert.Equal(t, 6, TimelineStep(models.StatusCompleted))
	assert.Equal(t, 6, TimelineStep("Completed"))
	assert.Equal(t, 0, TimelineStep("something else"))
}
