package controllers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"ulavan-storefront/api"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
	"ulavan-storefront/ui"
	"ulavan-storefront/utils"
)

// defaultListLimit matches the page size every legacy listing page asked for.
const defaultListLimit = 50

// ProductController handles product listing, detail, add-to-cart and the
// seller-side catalog management.
type ProductController struct {
	API *api.Client
	UI  ui.UI
	Out io.Writer
}

// NewProductController creates a ProductController rendering to out.
func NewProductController(client *api.Client, u ui.UI, out io.Writer) *ProductController {
	return &ProductController{API: client, UI: u, Out: out}
}

// List fetches products matching the filter and renders the grid.
func (pc *ProductController) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var products []models.Product
	if err := pc.API.Get(ctx, listEndpoint(filter), false, &products); err != nil {
		fmt.Fprintln(pc.Out, "Failed to load products. Please try again later.")
		return nil, err
	}

	if len(products) == 0 {
		fmt.Fprintln(pc.Out, "No products found. Try adjusting your search or filters.")
		return products, nil
	}
	for _, p := range products {
		fmt.Fprintf(pc.Out, "[#%d] %s  %s  (%d in stock)\n", p.ID, p.Name, utils.FormatPrice(p.Price), p.StockQuantity)
	}
	return products, nil
}

// Detail fetches and renders one product page.
func (pc *ProductController) Detail(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := pc.API.Get(ctx, routes.Product(id), false, &product); err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}

	fmt.Fprintf(pc.Out, "%s\n", product.Name)
	fmt.Fprintf(pc.Out, "Price: %s\n", utils.FormatPrice(product.Price))
	if product.Description != "" {
		fmt.Fprintf(pc.Out, "%s\n", utils.TruncateText(product.Description, 200))
	}
	if product.InStock() {
		fmt.Fprintf(pc.Out, "In Stock (%d available)\n", product.StockQuantity)
	} else {
		fmt.Fprintln(pc.Out, "Out of Stock")
	}
	return &product, nil
}

// AddToCart puts quantity units of the product in the cart. The quantity is
// clamped to available stock client-side for feedback, but a server
// rejection is final either way.
func (pc *ProductController) AddToCart(ctx context.Context, product *models.Product, quantity int) error {
	if !product.InStock() {
		pc.UI.Notify(ui.Error, "this product is out of stock")
		return fmt.Errorf("product %d out of stock", product.ID)
	}
	if quantity < 1 {
		quantity = 1
	}
	if quantity > product.StockQuantity {
		pc.UI.Notify(ui.Warning, fmt.Sprintf("only %d items available", product.StockQuantity))
		quantity = product.StockQuantity
	}

	req := models.AddToCartRequest{ProductID: product.ID, Quantity: quantity}
	if err := pc.API.Post(ctx, routes.Cart, req, true, nil); err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return err
	}
	pc.UI.Notify(ui.Success, fmt.Sprintf("%s added to cart", product.Name))
	return nil
}

// MyProducts lists the authenticated seller's catalog.
func (pc *ProductController) MyProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := pc.API.Get(ctx, routes.MyProducts, true, &products); err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	for _, p := range products {
		fmt.Fprintf(pc.Out, "[#%d] %s  %s  stock %d\n", p.ID, p.Name, utils.FormatPrice(p.Price), p.StockQuantity)
	}
	return products, nil
}

// Create uploads any local images, then creates the listing.
func (pc *ProductController) Create(ctx context.Context, input models.ProductInput, imagePaths []string) (*models.Product, error) {
	urls, err := pc.uploadImages(ctx, imagePaths)
	if err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	if len(urls) > 0 {
		input.ImageURL = urls[0]
		input.Images = urls
	}

	var product models.Product
	if err := pc.API.Post(ctx, routes.Products, input, true, &product); err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	pc.UI.Notify(ui.Success, "product added successfully")
	return &product, nil
}

// Update edits an existing listing, uploading replacement images first.
func (pc *ProductController) Update(ctx context.Context, id int, input models.ProductInput, imagePaths []string) (*models.Product, error) {
	urls, err := pc.uploadImages(ctx, imagePaths)
	if err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	if len(urls) > 0 {
		input.ImageURL = urls[0]
		input.Images = urls
	}

	var product models.Product
	if err := pc.API.Put(ctx, routes.Product(id), input, true, &product); err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return nil, err
	}
	pc.UI.Notify(ui.Success, "product updated")
	return &product, nil
}

// Delete removes a listing after explicit confirmation.
func (pc *ProductController) Delete(ctx context.Context, id int) error {
	if !pc.UI.Confirm("Delete this product? This cannot be undone.") {
		return nil
	}
	if err := pc.API.Delete(ctx, routes.Product(id), true, nil); err != nil {
		pc.UI.Notify(ui.Error, api.Message(err))
		return err
	}
	pc.UI.Notify(ui.Success, "product deleted")
	return nil
}

func (pc *ProductController) uploadImages(ctx context.Context, paths []string) ([]string, error) {
	var urls []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open image %s: %w", path, err)
		}
		var result models.UploadResult
		err = pc.API.Upload(ctx, routes.UploadImage, "file", filepath.Base(path), f, nil, &result)
		f.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, result.URL)
	}
	return urls, nil
}

func listEndpoint(filter models.ProductFilter) string {
	params := url.Values{}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.CategoryID > 0 {
		params.Set("category_id", strconv.Itoa(filter.CategoryID))
	}
	if filter.MinPrice > 0 {
		params.Set("min_price", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	return routes.Products + "?" + params.Encode()
}
