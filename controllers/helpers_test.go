package controllers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"ulavan-storefront/api"
	"ulavan-storefront/apitest"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
	"ulavan-storefront/session"
	"ulavan-storefront/ui"
)

// fixture wires a controller test against the in-memory backend: real HTTP,
// memory session, recording UI.
type fixture struct {
	backend *apitest.Server
	client  *api.Client
	store   *session.MemoryStore
	rec     *ui.Recorder
	out     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := apitest.NewServer()
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	return &fixture{
		backend: backend,
		client:  api.NewClient(srv.URL, store),
		store:   store,
		rec:     &ui.Recorder{},
		out:     &bytes.Buffer{},
	}
}

func (f *fixture) login(t *testing.T, username, email, role string) *models.User {
	t.Helper()
	id := f.backend.SeedUser(username, email, "password1", role)
	f.store.SaveToken(f.backend.IssueToken(email))
	user := &models.User{ID: id, Username: username, Email: email, Role: role}
	f.store.SaveUser(user)
	return user
}

func (f *fixture) seedProduct(t *testing.T, name string, price float64, stock int) int {
	t.Helper()
	return f.backend.SeedProduct(models.Product{Name: name, Price: price, StockQuantity: stock})
}

// addToCart puts a line in the server-side cart and returns its cart item id.
func (f *fixture) addToCart(t *testing.T, productID, quantity int) int {
	t.Helper()
	var cart models.Cart
	err := f.client.Post(context.Background(), routes.Cart,
		models.AddToCartRequest{ProductID: productID, Quantity: quantity}, true, &cart)
	require.NoError(t, err)
	for _, item := range cart.Items {
		if item.ProductID == productID {
			return item.CartID
		}
	}
	t.Fatalf("product %d not found in cart after add", productID)
	return 0
}

// serverCart reads the cart straight from the backend, bypassing controllers.
func (f *fixture) serverCart(t *testing.T) models.Cart {
	t.Helper()
	var cart models.Cart
	require.NoError(t, f.client.Get(context.Background(), routes.Cart, true, &cart))
	return cart
}
