package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ulavan-storefront/models"
	"ulavan-storefront/session"
	"ulavan-storefront/ui"
)

func TestRequireAuthenticated(t *testing.T) {
	store := session.NewMemoryStore()
	g := New(store)

	d := g.RequireAuthenticated()
	assert.False(t, d.Allowed)
	assert.Equal(t, ui.PageLogin, d.RedirectTo)

	store.SaveToken("token-abc")
	assert.True(t, g.RequireAuthenticated().Allowed)
}

func TestRequireRole(t *testing.T) {
	store := session.NewMemoryStore()
	g := New(store)

	// Anonymous goes to login regardless of role.
	d := g.RequireRole(models.RoleSeller)
	assert.False(t, d.Allowed)
	assert.Equal(t, ui.PageLogin, d.RedirectTo)

	// Wrong role goes home with a notice; the session stays intact.
	store.SaveToken("token-abc")
	store.SaveUser(&models.User{Role: models.RoleBuyer})
	d = g.RequireRole(models.RoleSeller)
	assert.False(t, d.Allowed)
	assert.Equal(t, ui.PageHome, d.RedirectTo)
	assert.NotEmpty(t, d.Notice)
	assert.Equal(t, "token-abc", store.Token())
	assert.NotNil(t, store.User())

	store.SaveUser(&models.User{Role: models.RoleSeller})
	assert.True(t, g.RequireRole(models.RoleSeller).Allowed)
}

func TestRequireRoleLegacyCustomerIsBuyer(t *testing.T) {
	store := session.NewMemoryStore()
	store.SaveToken("token-abc")
	store.SaveUser(&models.User{Role: models.RoleLegacyCustomer})

	assert.True(t, New(store).RequireRole(models.RoleBuyer).Allowed)
}

func TestEnforce(t *testing.T) {
	rec := &ui.Recorder{}

	assert.True(t, Enforce(Decision{Allowed: true}, rec))
	assert.Empty(t, rec.Navigations)

	ok := Enforce(Decision{RedirectTo: ui.PageLogin, Notice: "please login to continue"}, rec)
	assert.False(t, ok)
	assert.Equal(t, ui.PageLogin, rec.LastPage())
	assert.Len(t, rec.Notices, 1)
	assert.Equal(t, ui.Warning, rec.Notices[0].Kind)
}
