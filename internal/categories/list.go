package categories

import (
	"strings"

	"github.com/catalogworks/catalog-backend/pkg/pagination"
)

// Status filter values accepted by the management listing.
const (
	StatusAny      = ""
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DefaultPerPage is the category management page size.
const DefaultPerPage = 10

// ListQuery captures the filter/sort/pagination knobs for the listing.
type ListQuery struct {
	Search    string
	Status    string
	Sort      string
	Direction string
	Page      int
	PerPage   int
}

// ListResult is one page of categories plus its pagination meta.
type ListResult struct {
	Categories []CategoryDTO   `json:"categories"`
	Meta       pagination.Meta `json:"meta"`
}

// Columns a caller may sort by. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"name":           "name",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
	"products_count": "products_count",
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
