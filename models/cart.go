package models

// CartItem represents one line of the server-side cart as the backend
// reports it. Subtotal and stock are server-computed; the client never
// derives its own line totals.
type CartItem struct {
	CartID       int     `json:"cart_id"`
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	ProductImage string  `json:"product_image,omitempty"`
	ProductStock int     `json:"product_stock"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

// Cart represents the authenticated user's cart. The cart is owned by the
// server and re-fetched after every mutation; TotalAmount and TotalItems are
// the authoritative figures shown to the user.
type Cart struct {
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	TotalItems  int        `json:"total_items"`
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// AddToCartRequest is the payload for POST /cart.
type AddToCartRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// UpdateCartRequest is the payload for PUT /cart/{id}.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}
