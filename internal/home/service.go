package home

import (
	"context"
	"fmt"

	"github.com/catalogworks/catalog-backend/internal/categories"
	"github.com/catalogworks/catalog-backend/internal/products"
	pkgerrors "github.com/catalogworks/catalog-backend/pkg/errors"
)

const featuredCategoryLimit = 6

// Stats is the aggregate block shown on the public catalog page.
type Stats struct {
	TotalProducts   int64 `json:"total_products"`
	TotalCategories int64 `json:"total_categories"`
	InStockProducts int64 `json:"in_stock_products"`
}

// Filters echoes the applied query knobs back to the client.
type Filters struct {
	Search    string `json:"search,omitempty"`
	Category  string `json:"category,omitempty"`
	Stock     string `json:"stock,omitempty"`
	MinPrice  string `json:"min_price,omitempty"`
	MaxPrice  string `json:"max_price,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// Response is the full public catalog payload.
type Response struct {
	Products           *products.ListResult         `json:"products"`
	Filters            Filters                      `json:"filters"`
	Categories         []categories.CategorySummary `json:"categories"`
	FeaturedCategories []categories.CategorySummary `json:"featured_categories"`
	Stats              Stats                        `json:"stats"`
}

type productLister interface {
	List(ctx context.Context, query products.ListQuery) (*products.ListResult, error)
	CountAll(ctx context.Context, activeOnly bool) (int64, int64, error)
}

type categoryLister interface {
	ListActive(ctx context.Context) ([]categories.CategorySummary, error)
	ListFeatured(ctx context.Context, limit int) ([]categories.CategorySummary, error)
	CountActive(ctx context.Context) (int64, error)
}

// Service assembles the public catalog page.
type Service struct {
	products   productLister
	categories categoryLister
}

// NewService constructs the home service.
func NewService(productRepo productLister, categoryRepo categoryLister) (*Service, error) {
	if productRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	return &Service{products: productRepo, categories: categoryRepo}, nil
}

// Browse runs the public listing: active products only, no SKU search. The
// status filter and out-of-stock filter are management-only knobs; here they
// are ignored rather than applied.
func (s *Service) Browse(ctx context.Context, query products.ListQuery, filters Filters) (*Response, error) {
	query.ActiveOnly = true
	query.SearchSKU = false
	query.Status = products.StatusAny
	if query.Stock != products.StockInStock {
		query.Stock = products.StockAny
	}

	listing, err := s.products.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog products")
	}

	activeCategories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog categories")
	}

	featured, err := s.categories.ListFeatured(ctx, featuredCategoryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list featured categories")
	}

	totalProducts, inStock, err := s.products.CountAll(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	totalCategories, err := s.categories.CountActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count categories")
	}

	return &Response{
		Products:           listing,
		Filters:            filters,
		Categories:         activeCategories,
		FeaturedCategories: featured,
		Stats: Stats{
			TotalProducts:   totalProducts,
			TotalCategories: totalCategories,
			InStockProducts: inStock,
		},
	}, nil
}
