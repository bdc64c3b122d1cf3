package controllers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ulavan-storefront/api"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
	"ulavan-storefront/ui"
	"ulavan-storefront/utils"
)

// trackingSteps is the delivery timeline in display order.
var trackingSteps = []string{
	"Order Confirmed",
	"Processing",
	"Shipped",
	"Near By",
	"Delivery Zone",
	"Delivered",
}

// sellerStatuses are the values a seller may set on an order.
var sellerStatuses = map[string]bool{
	models.StatusConfirmed:    true,
	models.StatusProcessing:   true,
	models.StatusShipped:      true,
	models.StatusNearBy:       true,
	models.StatusDeliveryZone: true,
	models.StatusDelivered:    true,
	models.StatusCompleted:    true,
	models.StatusCancelled:    true,
}

// OrderController handles the buyer's order history and tracking page plus
// the seller's order management.
type OrderController struct {
	API *api.Client
	UI  ui.UI
	Out io.Writer
}

// NewOrderController creates an OrderController rendering to out.
func NewOrderController(client *api.Client, u ui.UI, out io.Writer) *OrderController {
	return &OrderController{API: client, UI: u, Out: out}
}

// MyOrders lists the buyer's orders.
func (oc *OrderController) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := oc.API.Get(ctx, routes.MyOrders, true, &orders); err != nil {
		oc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}

	if len(orders) == 0 {
		fmt.Fprintln(oc.Out, "You have no orders yet.")
		return orders, nil
	}
	for _, o := range orders {
		fmt.Fprintf(oc.Out, "Order #%d  %s  %s  %s\n",
			o.ID, utils.FormatPrice(o.TotalAmount), o.Status, utils.FormatDate(o.CreatedAt))
	}
	return orders, nil
}

// Track fetches one order and renders the tracking timeline. A cancelled
// order gets a terminal notice instead of a timeline.
func (oc *OrderController) Track(ctx context.Context, orderID int) (*models.Order, error) {
	var order models.Order
	if err := oc.API.Get(ctx, routes.Order(orderID), true, &order); err != nil {
		fmt.Fprintln(oc.Out, "Failed to load order tracking info. Please try again later.")
		return nil, err
	}

	fmt.Fprintf(oc.Out, "Order #%d  %s  placed %s\n", order.ID, utils.FormatPrice(order.TotalAmount), utils.FormatDate(order.CreatedAt))
	for _, item := range order.Items {
		fmt.Fprintf(oc.Out, "  %s x%d\n", item.ProductName, item.Quantity)
	}

	if strings.EqualFold(order.Status, models.StatusCancelled) {
		fmt.Fprintln(oc.Out, "ORDER CANCELLED. For refund queries please contact support.")
		return &order, nil
	}

	current := TimelineStep(order.Status)
	for i, step := range trackingSteps {
		marker := "[ ]"
		switch {
		case i+1 < current:
			marker = "[x]"
		case i+1 == current:
			marker = "[>]"
		}
		fmt.Fprintf(oc.Out, "%s %s\n", marker, step)
	}
	return &order, nil
}

// SellerOrders lists orders containing the seller's products.
func (oc *OrderController) SellerOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := oc.API.Get(ctx, routes.SellerOrders, true, &orders); err != nil {
		oc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	for _, o := range orders {
		fmt.Fprintf(oc.Out, "Order #%d  %s  %s\n", o.ID, utils.FormatPrice(o.TotalAmount), o.Status)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new delivery status.
func (oc *OrderController) UpdateStatus(ctx context.Context, orderID int, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !sellerStatuses[status] {
		oc.UI.Notify(ui.Warning, fmt.Sprintf("unknown order status %q", status))
		return fmt.Errorf("invalid order status %q", status)
	}

	err := oc.API.Put(ctx, routes.OrderStatus(orderID), models.OrderStatusUpdate{Status: status}, true, nil)
	if err != nil {
		oc.UI.Notify(ui.Error, api.Message(err))
		return err
	}
	oc.UI.Notify(ui.Success, "order status updated")
	return nil
}

// TimelineStep maps an order status onto the 1-based tracking step; 0 means
// nothing has started yet (pending).
func TimelineStep(status string) int {
	switch strings.ToLower(status) {
	case models.StatusConfirmed:
		return 1
	case models.StatusProcessing:
		return 2
	case models.StatusShipped:
		return 3
	case models.StatusNearBy:
		return 4
	case models.StatusDeliveryZone:
		return 5
	case models.StatusCompleted, models.StatusDelivered:
		return 6
	default:
		return 0
	}
}
