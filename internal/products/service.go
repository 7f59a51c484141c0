package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/catalogworks/catalog-backend/pkg/db"
	"github.com/catalogworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/catalogworks/catalog-backend/pkg/errors"
	"github.com/catalogworks/catalog-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 2000
	maxSKULen         = 100
	maxStockQuantity  = 999999
)

var maxPrice = decimal.RequireFromString("999999.99")

// Service defines the behavior needed by the products controller.
type Service interface {
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, createdBy uuid.UUID, input ProductInput, image *ImageData) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput, image *ImageData) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageData is a validated upload ready to be stored.
type ImageData struct {
	Reader    io.Reader
	Extension string
}

type imageStore interface {
	SaveProductImage(r io.Reader, ext string) (string, error)
	Delete(key string) error
}

type service struct {
	repo  *Repository
	store imageStore
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build a product service.
type ServiceParams struct {
	Repo   *Repository
	Store  imageStore
	Logger *logger.Logger
}

// NewService constructs a product service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("image store is required")
	}
	return &service{repo: params.Repo, store: params.Store, logg: params.Logger}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	result, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, input ProductInput, image *ImageData) (*ProductDTO, error) {
	parsed, err := s.validate(ctx, input, nil)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:    parsed.categoryID,
		CreatedBy:     createdBy,
		Name:          parsed.name,
		Description:   parsed.description,
		Price:         parsed.price,
		SKU:           parsed.sku,
		StockQuantity: parsed.stock,
		IsActive:      true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if image != nil {
		key, err := s.store.SaveProductImage(image.Reader, image.Extension)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
		}
		product.Image = &key
	}

	if _, err := s.repo.Create(ctx, product); err != nil {
		// The row never landed, so the stored file is an orphan.
		if product.Image != nil {
			s.cleanupImage(ctx, *product.Image)
		}
		if db.IsUniqueViolation(err, "sku") {
			return nil, skuTakenError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	return s.Get(ctx, product.ID)
}

// Update stages a replacement image before touching the row and removes the
// old file only after the row update succeeds, so a failure at any point
// leaves the previous image intact.
func (s *service) Update(ctx context.Context, id uuid.UUID, input ProductInput, image *ImageData) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	parsed, err := s.validate(ctx, input, &id)
	if err != nil {
		return nil, err
	}

	oldImage := product.Image
	var stagedKey *string
	if image != nil {
		key, err := s.store.SaveProductImage(image.Reader, image.Extension)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
		}
		stagedKey = &key
	}

	product.CategoryID = parsed.categoryID
	product.Name = parsed.name
	product.Description = parsed.description
	product.Price = parsed.price
	product.SKU = parsed.sku
	product.StockQuantity = parsed.stock
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if stagedKey != nil {
		product.Image = stagedKey
	}

	if _, err := s.repo.Update(ctx, product); err != nil {
		if stagedKey != nil {
			s.cleanupImage(ctx, *stagedKey)
		}
		if db.IsUniqueViolation(err, "sku") {
			return nil, skuTakenError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	if stagedKey != nil && oldImage != nil && *oldImage != *stagedKey {
		s.cleanupImage(ctx, *oldImage)
	}

	return s.Get(ctx, product.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}

	if product.Image != nil {
		s.cleanupImage(ctx, *product.Image)
	}
	return nil
}

// cleanupImage removes a stored file; failures are logged, not surfaced,
// because the database is already consistent by the time cleanup runs.
func (s *service) cleanupImage(ctx context.Context, key string) {
	if err := s.store.Delete(key); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "image_key", key)
		s.logg.Warn(logCtx, "product.image.cleanup_failed")
	}
}

type parsedInput struct {
	name        string
	description *string
	price       decimal.Decimal
	sku         *string
	stock       int
	categoryID  uuid.UUID
}

func (s *service) validate(ctx context.Context, input ProductInput, excludeID *uuid.UUID) (*parsedInput, error) {
	details := map[string]string{}
	parsed := &parsedInput{}

	parsed.name = strings.TrimSpace(input.Name)
	if parsed.name == "" {
		details["name"] = "Product name is required."
	} else if utf8.RuneCountInString(parsed.name) > maxNameLen {
		details["name"] = "Product name cannot exceed 255 characters."
	}

	if desc := strings.TrimSpace(input.Description); desc != "" {
		if utf8.RuneCountInString(desc) > maxDescriptionLen {
			details["description"] = "Description cannot exceed 2000 characters."
		} else {
			parsed.description = &desc
		}
	}

	if raw := strings.TrimSpace(input.Price); raw == "" {
		details["price"] = "Product price is required."
	} else if price, err := decimal.NewFromString(raw); err != nil {
		details["price"] = "Price must be a valid number."
	} else if price.IsNegative() {
		details["price"] = "Price cannot be negative."
	} else if price.GreaterThan(maxPrice) {
		details["price"] = "Price cannot exceed 999,999.99."
	} else {
		parsed.price = price
	}

	if sku := strings.TrimSpace(input.SKU); sku != "" {
		if utf8.RuneCountInString(sku) > maxSKULen {
			details["sku"] = "SKU cannot exceed 100 characters."
		} else {
			taken, err := s.repo.SKUExists(ctx, sku, excludeID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sku")
			}
			if taken {
				details["sku"] = "A product with this SKU already exists."
			} else {
				parsed.sku = &sku
			}
		}
	}

	if raw := strings.TrimSpace(input.StockQuantity); raw == "" {
		details["stock_quantity"] = "Stock quantity is required."
	} else if stock, err := strconv.Atoi(raw); err != nil {
		details["stock_quantity"] = "Stock quantity must be a whole number."
	} else if stock < 0 {
		details["stock_quantity"] = "Stock quantity cannot be negative."
	} else if stock > maxStockQuantity {
		details["stock_quantity"] = "Stock quantity cannot exceed 999,999."
	} else {
		parsed.stock = stock
	}

	if raw := strings.TrimSpace(input.CategoryID); raw == "" {
		details["category_id"] = "Please select a category."
	} else if categoryID, err := uuid.Parse(raw); err != nil {
		details["category_id"] = "Selected category does not exist."
	} else {
		exists, err := s.repo.CategoryExists(ctx, categoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
		}
		if !exists {
			details["category_id"] = "Selected category does not exist."
		} else {
			parsed.categoryID = categoryID
		}
	}

	if input.ImageMessage != "" {
		details["image"] = input.ImageMessage
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return parsed, nil
}

func skuTakenError() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"sku": "A product with this SKU already exists."})
}
