package controllers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"ulavan-storefront/api"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
	"ulavan-storefront/session"
	"ulavan-storefront/ui"
	"ulavan-storefront/utils"
)

// UserController handles login, signup, logout and the profile page.
type UserController struct {
	API     *api.Client
	Session session.Store
	UI      ui.UI
	Out     io.Writer
}

// NewUserController creates a UserController rendering to out.
func NewUserController(client *api.Client, store session.Store, u ui.UI, out io.Writer) *UserController {
	return &UserController{API: client, Session: store, UI: u, Out: out}
}

// Login authenticates with the backend's form-encoded password flow and
// stores the returned token and profile snapshot.
func (uc *UserController) Login(ctx context.Context, email, password string) error {
	if !utils.ValidateEmail(email) {
		uc.UI.Notify(ui.Warning, "please enter a valid email address")
		return fmt.Errorf("invalid email")
	}
	if len(password) < 6 {
		uc.UI.Notify(ui.Warning, "password must be at least 6 characters")
		return fmt.Errorf("password too short")
	}

	values := url.Values{}
	values.Set("username", email) // the password flow names the field "username"
	values.Set("password", password)

	var resp models.LoginResponse
	if err := uc.API.PostLoginForm(ctx, routes.Login, values, &resp); err != nil {
		uc.UI.Notify(ui.Error, api.Message(err))
		return err
	}

	if err := uc.Session.SaveToken(resp.AccessToken); err != nil {
		return err
	}
	if resp.User != nil {
		if err := uc.Session.SaveUser(resp.User); err != nil {
			return err
		}
	}

	uc.UI.Notify(ui.Success, "login successful, welcome back!")
	if resp.User.IsSeller() {
		uc.UI.Navigate(ui.PageDashboard)
	} else {
		uc.UI.Navigate(ui.PageHome)
	}
	return nil
}

// Signup registers a new account and sends the user to the login page.
func (uc *UserController) Signup(ctx context.Context, req models.SignupRequest) error {
	if len(strings.TrimSpace(req.Username)) < 2 {
		uc.UI.Notify(ui.Warning, "please enter your name (minimum 2 characters)")
		return fmt.Errorf("username too short")
	}
	if !utils.ValidateEmail(req.Email) {
		uc.UI.Notify(ui.Warning, "please enter a valid email address")
		return fmt.Errorf("invalid email")
	}
	if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
		uc.UI.Notify(ui.Warning, "please enter a valid 10-digit phone number")
		return fmt.Errorf("invalid phone number")
	}
	if len(req.Password) < 6 {
		uc.UI.Notify(ui.Warning, "password must be at least 6 characters")
		return fmt.Errorf("password too short")
	}
	if req.Role == "" {
		req.Role = models.RoleBuyer
	}

	if err := uc.API.Post(ctx, routes.Signup, req, false, nil); err != nil {
		uc.UI.Notify(ui.Error, api.Message(err))
		return err
	}

	uc.UI.Notify(ui.Success, "account created successfully, please login")
	uc.UI.Navigate(ui.PageLogin)
	return nil
}

// Logout clears the whole session after confirmation.
func (uc *UserController) Logout() {
	if !uc.UI.Confirm("Are you sure you want to logout?") {
		return
	}
	session.Clear(uc.Session)
	uc.UI.Notify(ui.Info, "logged out successfully")
	uc.UI.Navigate(ui.PageLogin)
}

// Profile fetches and renders the current profile, refreshing the cached
// snapshot.
func (uc *UserController) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := uc.API.Get(ctx, routes.Me, true, &user); err != nil {
		uc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	uc.Session.SaveUser(&user)
	uc.renderProfile(&user)
	return &user, nil
}

// UpdateProfile applies profile edits and stores the updated snapshot.
func (uc *UserController) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	if update.Phone != "" && !utils.ValidatePhone(update.Phone) {
		uc.UI.Notify(ui.Warning, "please enter a valid 10-digit phone number")
		return nil, fmt.Errorf("invalid phone number")
	}

	var user models.User
	if err := uc.API.Put(ctx, routes.Me, update, true, &user); err != nil {
		uc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	uc.Session.SaveUser(&user)
	uc.UI.Notify(ui.Success, "profile updated")
	return &user, nil
}

func (uc *UserController) renderProfile(user *models.User) {
	fmt.Fprintf(uc.Out, "Name: %s\n", user.Username)
	fmt.Fprintf(uc.Out, "Email: %s\n", user.Email)
	if user.Phone != "" {
		fmt.Fprintf(uc.Out, "Phone: %s\n", user.Phone)
	}
	if user.Address != "" {
		fmt.Fprintf(uc.Out, "Address: %s\n", user.Address)
	}
	fmt.Fprintf(uc.Out, "Role: %s\n", user.Role)
}
