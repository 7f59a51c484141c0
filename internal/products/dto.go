package products

import (
	"time"

	"github.com/catalogworks/catalog-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ProductDTO is the public representation of a product.
type ProductDTO struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Description   *string      `json:"description,omitempty"`
	Price         string       `json:"price"`
	SKU           *string      `json:"sku,omitempty"`
	StockQuantity int          `json:"stock_quantity"`
	InStock       bool         `json:"in_stock"`
	Image         *string      `json:"image,omitempty"`
	IsActive      bool         `json:"is_active"`
	Category      *CategoryRef `json:"category,omitempty"`
	Author        *AuthorRef   `json:"author,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CategoryRef is the category shape embedded in product responses.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// AuthorRef identifies the user who created the product.
type AuthorRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductInput carries the raw multipart form fields for create/update.
// Numeric fields stay strings so validation can distinguish "missing" from
// "not a number" with the exact per-field messages.
type ProductInput struct {
	Name          string
	Description   string
	Price         string
	SKU           string
	StockQuantity string
	CategoryID    string
	IsActive      *bool

	// ImageMessage carries an upload validation failure from the controller
	// so it lands in the same details map as the field errors.
	ImageMessage string
}

// NewProductDTO maps a persisted product onto its public shape.
func NewProductDTO(product *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price.StringFixed(2),
		SKU:           product.SKU,
		StockQuantity: product.StockQuantity,
		InStock:       product.InStock(),
		Image:         product.Image,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategoryRef{
			ID:   product.Category.ID,
			Name: product.Category.Name,
			Slug: product.Category.Slug,
		}
	}
	if product.Author != nil {
		dto.Author = &AuthorRef{
			ID:   product.Author.ID,
			Name: product.Author.Name,
		}
	}
	return dto
}
