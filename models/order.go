package models

import "time"

// Order statuses as the backend reports them. Tracking maps them onto the
// delivery timeline in the order shown here; "completed" and "delivered" are
// synonyms in legacy data.
const (
	StatusPending      = "pending"
	StatusConfirmed    = "confirmed"
	StatusProcessing   = "processing"
	StatusShipped      = "shipped"
	StatusNearBy       = "near by"
	StatusDeliveryZone = "delivery zone"
	StatusDelivered    = "delivered"
	StatusCompleted    = "completed"
	StatusCancelled    = "cancelled"
)

// OrderItem represents one line of a placed order.
type OrderItem struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Order represents a placed order. The client only ever reads orders; the
// creation payload is empty and the server derives contents from the cart.
type Order struct {
	ID          int         `json:"id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	Address     string      `json:"address,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderStatusUpdate is the payload for PUT /orders/{id}/status.
type OrderStatusUpdate struct {
	Status string `json:"status"`
}
