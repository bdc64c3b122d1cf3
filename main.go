package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"ulavan-storefront/api"
	"ulavan-storefront/controllers"
	"ulavan-storefront/gate"
	"ulavan-storefront/models"
	"ulavan-storefront/session"
	"ulavan-storefront/ui"
)

const (
	defaultAPIURL  = "http://127.0.0.1:8000"
	requestTimeout = 30 * time.Second
)

// app bundles the wired client, session and page controllers for dispatch.
type app struct {
	session  session.Store
	gate     *gate.Gate
	ui       *ui.Terminal
	users    *controllers.UserController
	products *controllers.ProductController
	cart     *controllers.CartController
	checkout *controllers.CheckoutController
	orders   *controllers.OrderController
	cats     *controllers.CategoryController
	reports  *controllers.ReportController
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	baseURL := os.Getenv("ULAVAN_API_URL")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	sessionPath := os.Getenv("ULAVAN_SESSION_FILE")
	if sessionPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal("cannot locate home directory:", err)
		}
		sessionPath = filepath.Join(home, ".ulavan", "session.json")
	}

	store, err := session.NewFileStore(sessionPath)
	if err != nil {
		log.Fatal("cannot open session file:", err)
	}

	term := ui.NewTerminal(os.Stdin, os.Stdout)
	client := api.NewClient(baseURL, store)
	client.OnSessionExpired = func() {
		term.Navigate(ui.PageLogin)
	}

	a := &app{
		session:  store,
		gate:     gate.New(store),
		ui:       term,
		users:    controllers.NewUserController(client, store, term, os.Stdout),
		products: controllers.NewProductController(client, term, os.Stdout),
		cart:     controllers.NewCartController(client, term, os.Stdout),
		checkout: controllers.NewCheckoutController(client, store, term, os.Stdout),
		orders:   controllers.NewOrderController(client, term, os.Stdout),
		cats:     controllers.NewCategoryController(client),
		reports:  controllers.NewReportController(client, term, os.Stdout),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(args)
		return a.users.Login(ctx, *email, *password)

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "account email")
		phone := fs.String("phone", "", "10-digit phone number")
		password := fs.String("password", "", "account password")
		role := fs.String("role", models.RoleBuyer, "account role (buyer or seller)")
		fs.Parse(args)
		return a.users.Signup(ctx, models.SignupRequest{
			Username: *name,
			Email:    *email,
			Phone:    *phone,
			Password: *password,
			Role:     *role,
		})

	case "logout":
		a.assumeYes(args)
		a.users.Logout()
		return nil

	case "profile":
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		_, err := a.users.Profile(ctx)
		return err

	case "update-profile":
		fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
		name := fs.String("name", "", "new display name")
		phone := fs.String("phone", "", "new phone number")
		address := fs.String("address", "", "new address line")
		fs.Parse(args)
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		_, err := a.users.UpdateProfile(ctx, models.ProfileUpdate{
			Username: *name,
			Phone:    *phone,
			Address:  *address,
		})
		return err

	case "products":
		fs := flag.NewFlagSet("products", flag.ExitOnError)
		search := fs.String("search", "", "search term")
		category := fs.Int("category", 0, "category id filter")
		minPrice := fs.Float64("min-price", 0, "minimum price")
		maxPrice := fs.Float64("max-price", 0, "maximum price")
		limit := fs.Int("limit", 0, "max results")
		fs.Parse(args)
		_, err := a.products.List(ctx, models.ProductFilter{
			Search:     *search,
			CategoryID: *category,
			MinPrice:   *minPrice,
			MaxPrice:   *maxPrice,
			Limit:      *limit,
		})
		return err

	case "product":
		fs := flag.NewFlagSet("product", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		fs.Parse(args)
		_, err := a.products.Detail(ctx, *id)
		return err

	case "add-to-cart":
		fs := flag.NewFlagSet("add-to-cart", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		qty := fs.Int("qty", 1, "quantity")
		fs.Parse(args)
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		product, err := a.products.Detail(ctx, *id)
		if err != nil {
			return err
		}
		return a.products.AddToCart(ctx, product, *qty)

	case "cart":
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		return a.cart.Load(ctx)

	case "cart-update":
		fs := flag.NewFlagSet("cart-update", flag.ExitOnError)
		id := fs.Int("item", 0, "cart item id")
		qty := fs.Int("qty", 1, "new quantity; below 1 removes the item")
		yes := fs.Bool("y", false, "answer yes to confirmations")
		fs.Parse(args)
		a.ui.AssumeYes = *yes
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		return a.cart.SetQuantity(ctx, *id, *qty)

	case "cart-remove":
		fs := flag.NewFlagSet("cart-remove", flag.ExitOnError)
		id := fs.Int("item", 0, "cart item id")
		yes := fs.Bool("y", false, "answer yes to confirmations")
		fs.Parse(args)
		a.ui.AssumeYes = *yes
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		return a.cart.Remove(ctx, *id)

	case "checkout-address":
		fs := flag.NewFlagSet("checkout-address", flag.ExitOnError)
		useSaved := fs.Bool("use-saved", false, "ship to the address saved on the profile")
		first := fs.String("first-name", "", "first name")
		last := fs.String("last-name", "", "last name")
		street := fs.String("street", "", "street address")
		apartment := fs.String("apartment", "", "apartment or suite")
		city := fs.String("city", "", "city")
		state := fs.String("state", "", "state")
		country := fs.String("country", "", "country")
		zip := fs.String("zip", "", "postal code")
		phone := fs.String("phone", "", "contact phone")
		save := fs.Bool("save", false, "also save this address to the profile")
		fs.Parse(args)
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}

		user, err := a.checkout.BeginAddress(ctx)
		if err != nil {
			return err
		}
		if *useSaved {
			return a.checkout.UseSavedAddress(user)
		}
		return a.checkout.SubmitAddress(ctx, &models.DraftAddress{
			FirstName: *first,
			LastName:  *last,
			Street:    *street,
			Apartment: *apartment,
			City:      *city,
			State:     *state,
			Country:   *country,
			Zip:       *zip,
			Phone:     *phone,
		}, *save)

	case "checkout-review":
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		_, err := a.checkout.BeginReview(ctx)
		return err

	case "place-order":
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		_, err := a.checkout.PlaceOrder(ctx)
		return err

	case "orders":
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		_, err := a.orders.MyOrders(ctx)
		return err

	case "track":
		fs := flag.NewFlagSet("track", flag.ExitOnError)
		id := fs.Int("id", 0, "order id")
		fs.Parse(args)
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		_, err := a.orders.Track(ctx, *id)
		return err

	case "categories":
		for _, c := range a.cats.Load(ctx) {
			fmt.Printf("[%d] %s\n", c.CategoryID, c.Name)
		}
		return nil

	case "report":
		fs := flag.NewFlagSet("report", flag.ExitOnError)
		orderID := fs.Int("order", 0, "related order id")
		issueType := fs.String("type", "", "issue type")
		subject := fs.String("subject", "", "short summary")
		description := fs.String("description", "", "full description")
		fs.Parse(args)
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		return a.reports.Submit(ctx, models.ReportInput{
			OrderID:     *orderID,
			IssueType:   *issueType,
			Subject:     *subject,
			Description: *description,
		})

	case "my-reports":
		if !gate.Enforce(a.gate.RequireAuthenticated(), a.ui) {
			return fmt.Errorf("not logged in")
		}
		_, err := a.reports.MyReports(ctx)
		return err

	case "my-products":
		if !gate.Enforce(a.gate.RequireRole(models.RoleSeller), a.ui) {
			return fmt.Errorf("seller access required")
		}
		_, err := a.products.MyProducts(ctx)
		return err

	case "add-product":
		input, images, fsErr := parseProductFlags("add-product", args)
		if fsErr != nil {
			return fsErr
		}
		if !gate.Enforce(a.gate.RequireRole(models.RoleSeller), a.ui) {
			return fmt.Errorf("seller access required")
		}
		_, err := a.products.Create(ctx, input, images)
		return err

	case "update-product":
		fs := flag.NewFlagSet("update-product", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		rest := bindProductFlags(fs)
		fs.Parse(args)
		if !gate.Enforce(a.gate.RequireRole(models.RoleSeller), a.ui) {
			return fmt.Errorf("seller access required")
		}
		input, images := rest()
		_, err := a.products.Update(ctx, *id, input, images)
		return err

	case "delete-product":
		fs := flag.NewFlagSet("delete-product", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		yes := fs.Bool("y", false, "answer yes to confirmations")
		fs.Parse(args)
		a.ui.AssumeYes = *yes
		if !gate.Enforce(a.gate.RequireRole(models.RoleSeller), a.ui) {
			return fmt.Errorf("seller access required")
		}
		return a.products.Delete(ctx, *id)

	case "seller-reports":
		if !gate.Enforce(a.gate.RequireRole(models.RoleSeller), a.ui) {
			return fmt.Errorf("seller access required")
		}
		_, err := a.reports.SellerReports(ctx)
		return err

	case "seller-orders":
		if !gate.Enforce(a.gate.RequireRole(models.RoleSeller), a.ui) {
			return fmt.Errorf("seller access required")
		}
		_, err := a.orders.SellerOrders(ctx)
		return err

	case "update-status":
		fs := flag.NewFlagSet("update-status", flag.ExitOnError)
		id := fs.Int("id", 0, "order id")
		status := fs.String("status", "", "new delivery status")
		fs.Parse(args)
		if !gate.Enforce(a.gate.RequireRole(models.RoleSeller), a.ui) {
			return fmt.Errorf("seller access required")
		}
		return a.orders.UpdateStatus(ctx, *id, *status)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// assumeYes scans args for a bare -y so confirmation-only commands work
// without a full FlagSet.
func (a *app) assumeYes(args []string) {
	for _, arg := range args {
		if arg == "-y" || arg == "--y" {
			a.ui.AssumeYes = true
		}
	}
}

// bindProductFlags registers the shared seller listing flags on fs and
// returns a closure resolving them after Parse.
func bindProductFlags(fs *flag.FlagSet) func() (models.ProductInput, []string) {
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.Float64("price", 0, "unit price")
	stock := fs.Int("stock", 0, "stock quantity")
	category := fs.Int("category", 0, "category id")
	images := fs.String("images", "", "comma-separated image file paths")
	return func() (models.ProductInput, []string) {
		input := models.ProductInput{
			Name:          *name,
			Description:   *description,
			Price:         *price,
			StockQuantity: *stock,
			CategoryID:    *category,
		}
		var paths []string
		for _, p := range strings.Split(*images, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		return input, paths
	}
}

func parseProductFlags(command string, args []string) (models.ProductInput, []string, error) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	rest := bindProductFlags(fs)
	if err := fs.Parse(args); err != nil {
		return models.ProductInput{}, nil, err
	}
	input, images := rest()
	return input, images, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: ulavan-storefront <command> [flags]

Account:
  login -email X -password X        Sign in
  signup -name X -email X ...       Create an account
  logout [-y]                       Sign out
  profile                           Show your profile
  update-profile [-name|-phone|-address]

Shopping:
  products [-search|-category|-min-price|-max-price|-limit]
  product -id N                     Product detail
  add-to-cart -id N [-qty N]        Add a product to the cart
  cart                              Show the cart
  cart-update -item N -qty N [-y]   Change a line quantity
  cart-remove -item N [-y]          Remove a line
  categories                        List categories

Checkout:
  checkout-address [-use-saved | -street X -city X ... [-save]]
  checkout-review                   Review the order
  place-order                       Place the order

Orders and support:
  orders                            Your order history
  track -id N                       Delivery timeline
  report -type X -subject X -description X
  my-reports                        Your submitted reports

Seller:
  my-products                       Your catalog
  add-product -name X -price N -stock N [-images a.jpg,b.jpg]
  update-product -id N [...]        Edit a listing
  delete-product -id N [-y]         Remove a listing
  seller-orders                     Orders for your products
  seller-reports                    Reports filed on your orders
  update-status -id N -status X     Move an order's delivery status`)
}
