package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"ulavan-storefront/api"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
	"ulavan-storefront/session"
	"ulavan-storefront/ui"
	"ulavan-storefront/utils"
)

// CheckoutController chains the three checkout stages. The stages are
// independent page loads; the draft address in the session store is the only
// thing carried between them.
type CheckoutController struct {
	API     *api.Client
	Session session.Store
	UI      ui.UI
	Out     io.Writer

	placing bool
}

// NewCheckoutController creates a CheckoutController rendering to out.
func NewCheckoutController(client *api.Client, store session.Store, u ui.UI, out io.Writer) *CheckoutController {
	return &CheckoutController{API: client, Session: store, UI: u, Out: out}
}

// BeginAddress opens the address stage: it refreshes the profile so the
// saved-address shortcut and form prefill work from current data, falling
// back to the cached snapshot when the fetch fails.
func (cc *CheckoutController) BeginAddress(ctx context.Context) (*models.User, error) {
	var fresh models.User
	if err := cc.API.Get(ctx, routes.Me, true, &fresh); err != nil {
		if api.IsSessionExpired(err) || api.IsAuthRequired(err) {
			return nil, err
		}
		log.Printf("could not refresh profile, using cached: %v", err)
		return cc.Session.User(), nil
	}
	cc.Session.SaveUser(&fresh)
	return &fresh, nil
}

// UseSavedAddress writes a draft derived from the profile's stored address
// and jumps straight to the review stage.
func (cc *CheckoutController) UseSavedAddress(user *models.User) error {
	if user == nil || strings.TrimSpace(user.Address) == "" {
		return fmt.Errorf("no saved address on profile")
	}

	first, last := splitName(user.Username)
	draft := &models.DraftAddress{
		FirstName: first,
		LastName:  last,
		Street:    user.Address,
		Phone:     user.Phone,
	}
	if err := cc.Session.SaveDraftAddress(draft); err != nil {
		return err
	}
	cc.UI.Navigate(ui.PageReview)
	return nil
}

// SubmitAddress validates the form, stashes the draft for the review stage
// and optionally persists it to the profile. The profile update is only
// issued when the composed address or phone actually differs from what the
// profile already holds.
func (cc *CheckoutController) SubmitAddress(ctx context.Context, form *models.DraftAddress, saveToProfile bool) error {
	line := form.FullLine()
	if line == "" {
		cc.UI.Notify(ui.Warning, "please enter a shipping address")
		return fmt.Errorf("shipping address is empty")
	}
	if form.Phone != "" && !utils.ValidatePhone(form.Phone) {
		cc.UI.Notify(ui.Warning, "please enter a valid 10-digit phone number")
		return fmt.Errorf("invalid phone number")
	}

	if err := cc.Session.SaveDraftAddress(form); err != nil {
		return err
	}

	if saveToProfile {
		user := cc.Session.User()
		if user == nil || line != user.Address || form.Phone != user.Phone {
			update := models.ProfileUpdate{Address: line, Phone: form.Phone}
			var updated models.User
			if err := cc.API.Put(ctx, routes.Me, update, true, &updated); err != nil {
				// The draft is already in place; a failed profile write
				// must not stall the checkout.
				log.Printf("failed to save address to profile: %v", err)
				cc.UI.Notify(ui.Warning, "could not save address to your profile")
			} else {
				cc.Session.SaveUser(&updated)
			}
		}
	}

	cc.UI.Navigate(ui.PageReview)
	return nil
}

// Review is what the review stage renders: the captured address and a fresh
// cart snapshot.
type Review struct {
	Address       *models.DraftAddress
	AddressLine   string
	Cart          *models.Cart
	CanPlaceOrder bool
}

// BeginReview opens the review stage. Without a draft address it redirects
// back to the address stage and returns nil; it never assumes an address
// exists and never places an order. The cart is fetched fresh here rather
// than trusted from any earlier page.
func (cc *CheckoutController) BeginReview(ctx context.Context) (*Review, error) {
	draft := cc.Session.DraftAddress()
	if draft == nil {
		cc.UI.Notify(ui.Warning, "please enter your shipping address first")
		cc.UI.Navigate(ui.PageAddress)
		return nil, nil
	}

	var cart models.Cart
	if err := cc.API.Get(ctx, routes.Cart, true, &cart); err != nil {
		fmt.Fprintln(cc.Out, "Failed to load order summary.")
		return nil, err
	}

	review := &Review{
		Address:       draft,
		AddressLine:   draft.FullLine(),
		Cart:          &cart,
		CanPlaceOrder: !cart.IsEmpty(),
	}
	cc.renderReview(review)
	return review, nil
}

// PlaceOrder performs the final placement on explicit user action. The
// control is disabled the moment it is invoked and re-enabled only on
// failure, so one click issues at most one creation call. The server derives
// the order from the live cart; the payload is empty.
func (cc *CheckoutController) PlaceOrder(ctx context.Context) (int, error) {
	if cc.placing {
		return 0, fmt.Errorf("order placement already submitted")
	}
	if cc.Session.DraftAddress() == nil {
		cc.UI.Navigate(ui.PageAddress)
		return 0, fmt.Errorf("no shipping address captured")
	}
	cc.placing = true

	var created struct {
		ID int `json:"id"`
	}
	if err := cc.API.Post(ctx, routes.Orders, struct{}{}, true, &created); err != nil {
		cc.placing = false
		cc.UI.Notify(ui.Error, api.Message(err))
		return 0, err
	}

	cc.Session.ClearDraftAddress()
	cc.UI.Notify(ui.Success, "order placed successfully")
	cc.UI.Navigate(ui.PageConfirmation, strconv.Itoa(created.ID))
	return created.ID, nil
}

// Placing reports whether the placement control is currently disabled.
func (cc *CheckoutController) Placing() bool { return cc.placing }

func (cc *CheckoutController) renderReview(r *Review) {
	fmt.Fprintln(cc.Out, "Deliver to:")
	if name := r.Address.FullName(); name != "" {
		fmt.Fprintf(cc.Out, "  %s\n", name)
	}
	fmt.Fprintf(cc.Out, "  %s\n", r.AddressLine)
	if r.Address.Phone != "" {
		fmt.Fprintf(cc.Out, "  Phone: %s\n", r.Address.Phone)
	}

	if r.Cart.IsEmpty() {
		fmt.Fprintln(cc.Out, "Your cart is empty.")
		return
	}
	for _, item := range r.Cart.Items {
		fmt.Fprintf(cc.Out, "%s x%d  %s\n", item.ProductName, item.Quantity, utils.FormatPrice(item.Subtotal))
	}
	fmt.Fprintf(cc.Out, "Total: %s\n", utils.FormatPrice(r.Cart.TotalAmount))
}

// splitName divides a display name into first and last parts the way the
// legacy address form prefilled them.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
