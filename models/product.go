package models

// Product represents a marketplace listing.
type Product struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	CategoryID    int      `json:"category_id,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Images        []string `json:"images,omitempty"`
	SellerID      int      `json:"seller_id,omitempty"`
}

// InStock reports whether the product can currently be added to a cart.
func (p *Product) InStock() bool {
	return p != nil && p.StockQuantity > 0
}

// ProductFilter holds the query parameters accepted by the listing endpoint.
// Zero values are omitted from the request.
type ProductFilter struct {
	Search     string
	CategoryID int
	MinPrice   float64
	MaxPrice   float64
	Limit      int
}

// ProductInput is the payload for seller product create/update calls.
type ProductInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	CategoryID    int      `json:"category_id,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// Category represents a product category.
type Category struct {
	CategoryID int    `json:"category_id"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
}

// UploadResult is the response of the image upload endpoint.
type UploadResult struct {
	URL string `json:"url"`
}
