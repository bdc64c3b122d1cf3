package controllers

import (
	"context"
	"log"

	"ulavan-storefront/api"
	"ulavan-storefront/models"
	"ulavan-storefront/routes"
)

// DefaultCategories is the hardcoded fallback shown when the category
// endpoint cannot be reached. Matches the set the marketplace launched with.
var DefaultCategories = []models.Category{
	{CategoryID: 1, Name: "Fruits Seeds"},
	{CategoryID: 2, Name: "Flower Seeds"},
	{CategoryID: 3, Name: "Vegetable Seeds"},
	{CategoryID: 4, Name: "Tomato Seeds"},
	{CategoryID: 5, Name: "Watermelon Seeds"},
	{CategoryID: 6, Name: "Herb Seeds"},
	{CategoryID: 7, Name: "Cattle Feed"},
	{CategoryID: 8, Name: "Organic Fertilizers"},
}

// CategoryController loads the category filter list.
type CategoryController struct {
	API *api.Client
}

// NewCategoryController creates a CategoryController.
func NewCategoryController(client *api.Client) *CategoryController {
	return &CategoryController{API: client}
}

// Load fetches the categories. This is the one place a fetch failure is
// swallowed: the hardcoded list is an acceptable stand-in for a filter
// sidebar, so the error is logged and the fallback returned.
func (cc *CategoryController) Load(ctx context.Context) []models.Category {
	var categories []models.Category
	if err := cc.API.Get(ctx, routes.Categories, false, &categories); err != nil {
		log.Printf("failed to load categories, using defaults: %v", err)
		return DefaultCategories
	}
	if len(categories) == 0 {
		return DefaultCategories
	}
	return categories
}
