// routes/routes.go
package routes

import "fmt"

// Backend endpoint paths consumed by the client. The base URL comes from
// configuration; everything here is relative to it.
const (
	Signup = "/users/signup"
	Login  = "/users/login"
	Me     = "/users/me"

	Products   = "/products"
	MyProducts = "/products/my-products"

	Cart = "/cart"

	Orders       = "/orders"
	MyOrders     = "/orders/my-orders"
	SellerOrders = "/orders/seller/orders"

	Categories = "/categories"

	Reports       = "/reports"
	MyReports     = "/reports/my-reports"
	SellerReports = "/reports/seller"

	UploadImage = "/upload/image"
)

// Product returns the detail endpoint for a single product.
func Product(id int) string { return fmt.Sprintf("%s/%d", Products, id) }

// CartItem returns the mutation endpoint for a single cart line.
func CartItem(cartID int) string { return fmt.Sprintf("%s/%d", Cart, cartID) }

// Order returns the detail endpoint for a single order.
func Order(id int) string { return fmt.Sprintf("%s/%d", Orders, id) }

// OrderStatus returns the status-update endpoint for a single order.
func OrderStatus(id int) string { return fmt.Sprintf("%s/%d/status", Orders, id) }
