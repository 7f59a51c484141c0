package controllers

import (
	"net/http"

	"github.com/catalogworks/catalog-backend/api/responses"
	"github.com/catalogworks/catalog-backend/api/validators"
	"github.com/catalogworks/catalog-backend/internal/home"
	"github.com/catalogworks/catalog-backend/internal/products"
	pkgerrors "github.com/catalogworks/catalog-backend/pkg/errors"
	"github.com/catalogworks/catalog-backend/pkg/logger"
)

// Home serves the public catalog: active products with filters, category
// summaries, and aggregate stats.
func Home(svc *home.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home service unavailable"))
			return
		}

		query, err := parseProductListQuery(r, products.DefaultPerPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Public browsing has no status knob and only recognizes in_stock.
		query.Status = products.StatusAny
		if query.Stock != products.StockInStock {
			query.Stock = products.StockAny
		}

		filters := home.Filters{
			Search:    query.Search,
			Category:  query.CategoryID,
			Stock:     query.Stock,
			MinPrice:  r.URL.Query().Get("min_price"),
			MaxPrice:  r.URL.Query().Get("max_price"),
			Sort:      query.Sort,
			Direction: query.Direction,
		}

		resp, err := svc.Browse(r.Context(), query, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// parseProductListQuery reads the shared listing knobs. Bad numeric values
// are a validation error, not silently ignored.
func parseProductListQuery(r *http.Request, perPage int) (products.ListQuery, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
	if err != nil {
		return products.ListQuery{}, err
	}
	minPrice, err := validators.ParseQueryDecimal(r, "min_price")
	if err != nil {
		return products.ListQuery{}, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
	if err != nil {
		return products.ListQuery{}, err
	}

	q := r.URL.Query()
	return products.ListQuery{
		Search:     validators.SanitizeString(q.Get("search"), 255),
		CategoryID: validators.SanitizeString(q.Get("category"), 64),
		Status:     products.NormalizeStatus(q.Get("status")),
		Stock:      products.NormalizeStock(q.Get("stock")),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Sort:       q.Get("sort"),
		Direction:  q.Get("direction"),
		Page:       page,
		PerPage:    perPage,
	}, nil
}
