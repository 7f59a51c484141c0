package categories

import (
	"time"

	"github.com/catalogworks/catalog-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CategoryDTO is the public representation of a category.
type CategoryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	IsActive      bool      `json:"is_active"`
	ProductsCount *int64    `json:"products_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategorySummary is the trimmed shape used by filter dropdowns and the
// public home page.
type CategorySummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	ProductsCount int64     `json:"products_count"`
}

// CategoryInput carries the create/update fields.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// NewCategoryDTO maps a persisted category onto its public shape.
func NewCategoryDTO(category *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
