package products

import (
	"strings"

	"github.com/catalogworks/catalog-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Status and stock filter values accepted by the listings.
const (
	StatusAny      = ""
	StatusActive   = "active"
	StatusInactive = "inactive"

	StockAny        = ""
	StockInStock    = "in_stock"
	StockOutOfStock = "out_of_stock"
)

// DefaultPerPage is the product listing page size.
const DefaultPerPage = 12

// ListQuery captures the filter/sort/pagination knobs for product listings.
// ActiveOnly and SearchSKU distinguish the public catalog from the
// authenticated management view: the public side never sees inactive rows
// and does not search SKUs.
type ListQuery struct {
	Search     string
	CategoryID string
	Status     string
	Stock      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
	Direction  string
	Page       int
	PerPage    int

	ActiveOnly bool
	SearchSKU  bool
}

// ListResult is one page of products plus its pagination meta.
type ListResult struct {
	Products []ProductDTO    `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

// Columns a caller may sort by. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"name":           "name",
	"price":          "price",
	"sku":            "sku",
	"stock_quantity": "stock_quantity",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

func orderClause(sort, direction string) string {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(sort))]
	if !ok {
		return "created_at DESC"
	}
	if strings.EqualFold(strings.TrimSpace(direction), "asc") {
		return column + " ASC"
	}
	return column + " DESC"
}

// NormalizeStatus maps unknown status values onto the unfiltered state.
func NormalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusActive:
		return StatusActive
	case StatusInactive:
		return StatusInactive
	}
	return StatusAny
}

// NormalizeStock maps unknown stock values onto the unfiltered state.
func NormalizeStock(stock string) string {
	switch strings.ToLower(strings.TrimSpace(stock)) {
	case StockInStock:
		return StockInStock
	case StockOutOfStock:
		return StockOutOfStock
	}
	return StockAny
}
