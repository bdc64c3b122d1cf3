package controllers

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"ulavan-storefront/api"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
	"ulavan-storefront/ui"
	"ulavan-storefront/utils"
)

// Display-only charges recomputed from the server subtotal. They are never
// sent to the server; the order total is the backend's business.
const (
	ShippingFlat = 50.0
	TaxRate      = 0.05
)

// CartState tracks where the cart page is in its load/mutate cycle.
type CartState int

const (
	CartIdle CartState = iota
	CartLoading
	CartLoaded
	CartLoadFailed
	CartMutating
)

// CartController drives the cart page: it fetches the server-side cart,
// renders it, and funnels every mutation through a mutate-then-reload loop
// so the displayed totals always come from the server.
type CartController struct {
	API *api.Client
	UI  ui.UI
	Out io.Writer

	state CartState
	cart  *models.Cart
}

// NewCartController creates a CartController rendering to out.
func NewCartController(client *api.Client, u ui.UI, out io.Writer) *CartController {
	return &CartController{API: client, UI: u, Out: out, state: CartIdle}
}

// State returns the controller's current lifecycle state.
func (cc *CartController) State() CartState { return cc.state }

// Cart returns the last successfully loaded cart, or nil.
func (cc *CartController) Cart() *models.Cart { return cc.cart }

// BadgeCount returns the header badge value: the server-reported total item
// quantity, zero when nothing is loaded.
func (cc *CartController) BadgeCount() int {
	if cc.cart == nil {
		return 0
	}
	return cc.cart.TotalItems
}

// Load fetches the cart and re-renders the page from scratch.
func (cc *CartController) Load(ctx context.Context) error {
	cc.state = CartLoading

	var cart models.Cart
	if err := cc.API.Get(ctx, routes.Cart, true, &cart); err != nil {
		cc.state = CartLoadFailed
		cc.cart = nil
		fmt.Fprintln(cc.Out, "Failed to load cart. Re-run to retry.")
		return err
	}

	cc.cart = &cart
	cc.state = CartLoaded
	cc.render()
	return nil
}

// SetQuantity changes one line's quantity and reloads. A target below 1 is a
// removal request, which needs confirmation and never reaches the update
// endpoint. Quantities above the product's stock are clamped first; the
// server stays authoritative if it still rejects the value.
func (cc *CartController) SetQuantity(ctx context.Context, cartItemID, quantity int) error {
	if quantity < 1 {
		return cc.Remove(ctx, cartItemID)
	}

	if item := cc.item(cartItemID); item != nil && item.ProductStock > 0 && quantity > item.ProductStock {
		cc.UI.Notify(ui.Warning, fmt.Sprintf("only %d items available in stock", item.ProductStock))
		quantity = item.ProductStock
	}

	cc.state = CartMutating
	err := cc.API.Put(ctx, routes.CartItem(cartItemID), models.UpdateCartRequest{Quantity: quantity}, true, nil)
	if err != nil {
		cc.UI.Notify(ui.Error, api.Message(err))
		// Reload regardless: the local view must resynchronize with
		// whatever the server actually holds.
		cc.Load(ctx)
		return err
	}

	if err := cc.Load(ctx); err != nil {
		return err
	}
	cc.UI.Notify(ui.Success, "cart updated")
	return nil
}

// Remove deletes one line after explicit confirmation, then reloads.
func (cc *CartController) Remove(ctx context.Context, cartItemID int) error {
	if !cc.UI.Confirm("Remove this item from your cart?") {
		return nil
	}

	cc.state = CartMutating
	err := cc.API.Delete(ctx, routes.CartItem(cartItemID), true, nil)
	if err != nil {
		cc.UI.Notify(ui.Error, api.Message(err))
		cc.Load(ctx)
		return err
	}
	return cc.Load(ctx)
}

// ProceedToCheckout moves to the address stage; an empty cart has no
// checkout affordance.
func (cc *CartController) ProceedToCheckout() {
	if cc.cart.IsEmpty() {
		cc.UI.Notify(ui.Warning, "your cart is empty")
		return
	}
	cc.UI.Navigate(ui.PageAddress)
}

func (cc *CartController) item(cartItemID int) *models.CartItem {
	if cc.cart == nil {
		return nil
	}
	for i := range cc.cart.Items {
		if cc.cart.Items[i].CartID == cartItemID {
			return &cc.cart.Items[i]
		}
	}
	return nil
}

func (cc *CartController) render() {
	if cc.cart.IsEmpty() {
		fmt.Fprintln(cc.Out, "Your cart is empty. Add some products to get started!")
		return
	}

	for _, item := range cc.cart.Items {
		fmt.Fprintf(cc.Out, "[#%d] %s  %s x %d = %s\n",
			item.CartID, item.ProductName, utils.FormatPrice(item.ProductPrice), item.Quantity, utils.FormatPrice(item.Subtotal))
	}

	s := ComputeSummary(cc.cart.TotalAmount)
	fmt.Fprintf(cc.Out, "Subtotal: %s\n", utils.FormatPrice(s.Subtotal))
	fmt.Fprintf(cc.Out, "Shipping: %s\n", utils.FormatPrice(s.Shipping))
	fmt.Fprintf(cc.Out, "Tax (5%%): %s\n", utils.FormatPrice(s.Tax))
	fmt.Fprintf(cc.Out, "Total: %s\n", utils.FormatPrice(s.Total))
	fmt.Fprintf(cc.Out, "Cart [%d]\n", cc.BadgeCount())
}

// Summary is the order summary box: display-only figures derived from the
// server-reported subtotal.
type Summary struct {
	Subtotal float64
	Shipping float64
	Tax      float64
	Total    float64
}

// ComputeSummary derives shipping, tax and grand total from the subtotal as
// pure functions: a flat shipping fee and a fixed-rate tax.
func ComputeSummary(subtotal float64) Summary {
	sub := decimal.NewFromFloat(subtotal)
	shipping := decimal.NewFromFloat(ShippingFlat)
	tax := sub.Mul(decimal.NewFromFloat(TaxRate)).Round(2)
	total := sub.Add(shipping).Add(tax)

	return Summary{
		Subtotal: sub.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}
