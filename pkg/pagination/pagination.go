package pagination

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Params holds a normalized page request.
type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps page and per-page values into their valid ranges.
func Normalize(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta describes one page of a larger result set.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// BuildMeta computes page boundaries for a total row count.
func BuildMeta(p Params, total int64) Meta {
	lastPage := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	meta := Meta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}

	if total == 0 || p.Page > lastPage {
		return meta
	}

	meta.From = p.Offset() + 1
	meta.To = p.Offset() + p.PerPage
	if int64(meta.To) > total {
		meta.To = int(total)
	}
	return meta
}
