package api

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ulavan-storefront/apitest"
	"ulavan-storefront/models"
	"ulavan-storefront/session"
)

func newTestClient(t *testing.T) (*apitest.Server, *Client, *session.MemoryStore) {
	t.Helper()
	backend := apitest.NewServer()
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	return backend, NewClient(srv.URL, store), store
}

func TestAuthRequiredFailsFastWithoutToken(t *testing.T) {
	// Unroutable base URL: if the client attempted a request, the error
	// would be a network failure, not an auth failure.
	client := NewClient("http://127.0.0.1:1", session.NewMemoryStore())

	err := client.Get(context.Background(), "/users/me", true, nil)
	require.Error(t, err)
	assert.True(t, IsAuthRequired(err))
}

func TestUnauthorizedWipesSessionAndFiresHook(t *testing.T) {
	backend, client, store := newTestClient(t)
	backend.SeedUser("Asha Raman", "asha@example.com", "password1", "buyer")
	store.SaveToken(backend.IssueToken("asha@example.com"))
	store.SaveUser(&models.User{Email: "asha@example.com", Role: "buyer"})

	hookFired := false
	client.OnSessionExpired = func() { hookFired = true }
	backend.RevokeTokens()

	err := client.Get(context.Background(), "/users/me", true, nil)
	require.Error(t, err)
	assert.True(t, IsSessionExpired(err))
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
	assert.True(t, hookFired)
}

func TestRejectedCredentialsAreNotSessionExpiry(t *testing.T) {
	backend, client, store := newTestClient(t)
	backend.SeedUser("Asha Raman", "asha@example.com", "password1", "buyer")

	// An existing session must survive a failed re-login attempt.
	store.SaveToken(backend.IssueToken("asha@example.com"))
	hookFired := false
	client.OnSessionExpired = func() { hookFired = true }

	values := url.Values{}
	values.Set("username", "asha@example.com")
	values.Set("password", "wrong-password")
	err := client.PostLoginForm(context.Background(), "/users/login", values, nil)

	require.Error(t, err)
	assert.False(t, IsSessionExpired(err))
	assert.Equal(t, KindValidation, ErrorKind(err))
	assert.Equal(t, "invalid email or password", Message(err))
	assert.False(t, hookFired)
	assert.NotEmpty(t, store.Token())
}

func TestStatusClassification(t *testing.T) {
	backend, client, store := newTestClient(t)
	ctx := context.Background()

	err := client.Get(ctx, "/products/9999", false, nil)
	assert.True(t, IsNotFound(err))

	// 400 carries the server's detail message through.
	backend.SeedUser("Asha Raman", "asha@example.com", "password1", "buyer")
	err = client.Post(ctx, "/users/signup", models.SignupRequest{
		Username: "Asha", Email: "asha@example.com", Password: "password1",
	}, false, nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, ErrorKind(err))
	assert.Contains(t, Message(err), "already exists")

	// 403 on a seller endpoint with a buyer token.
	store.SaveToken(backend.IssueToken("asha@example.com"))
	err = client.Get(ctx, "/products/my-products", true, nil)
	assert.Equal(t, KindForbidden, ErrorKind(err))
}

func TestNetworkErrorIsClassified(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", session.NewMemoryStore())

	err := client.Get(context.Background(), "/products", false, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, "unable to connect to server", Message(err))
}

func TestNoContentResponse(t *testing.T) {
	backend, client, store := newTestClient(t)
	backend.SeedUser("Asha Raman", "asha@example.com", "password1", "buyer")
	store.SaveToken(backend.IssueToken("asha@example.com"))
	productID := backend.SeedProduct(models.Product{Name: "Tomato Seeds", Price: 120, StockQuantity: 5})

	ctx := context.Background()
	var cart models.Cart
	require.NoError(t, client.Post(ctx, "/cart", models.AddToCartRequest{ProductID: productID, Quantity: 1}, true, &cart))
	require.Len(t, cart.Items, 1)

	// DELETE answers 204; the call must succeed with no body to decode.
	require.NoError(t, client.Delete(ctx, "/cart/"+strconv.Itoa(cart.Items[0].CartID), true, nil))
}

func TestResolveToleratesSlashes(t *testing.T) {
	_, client, _ := newTestClient(t)
	client.BaseURL = strings.TrimRight(client.BaseURL, "/") + "/"

	var products []models.Product
	require.NoError(t, client.Get(context.Background(), "products", false, &products))
}

func TestUploadMultipart(t *testing.T) {
	backend, client, store := newTestClient(t)
	backend.SeedUser("Velan Farms", "velan@example.com", "password1", "seller")
	store.SaveToken(backend.IssueToken("velan@example.com"))

	var result models.UploadResult
	err := client.Upload(context.Background(), "/upload/image", "file", "tomato.jpg",
		strings.NewReader("fake image bytes"), nil, &result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(result.URL, ".jpg"))
}
