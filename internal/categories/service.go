package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/catalogworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/catalogworks/catalog-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MsgDeleteGuard = "Cannot delete category that has products. Please move or delete all products first."

	maxNameLen        = 255
	maxDescriptionLen = 1000
)

// Service defines the behavior needed by the categories controller.
type Service interface {
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	ListActive(ctx context.Context) ([]CategorySummary, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
	Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryDetail is a category plus its active products, newest first.
type CategoryDetail struct {
	Category CategoryDTO    `json:"category"`
	Products []ProductBrief `json:"products"`
}

// ProductBrief is the trimmed product shape embedded in category detail.
type ProductBrief struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         string    `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Image         *string   `json:"image,omitempty"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// ServiceParams bundles the dependencies required to build a category service.
type ServiceParams struct {
	Repo *Repository
	Tx   txRunner
}

// NewService constructs a category service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: params.Repo, tx: params.Tx}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	result, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return result, nil
}

func (s *service) ListActive(ctx context.Context) ([]CategorySummary, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active categories")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	category, err := s.repo.FindByIDWithActiveProducts(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
	}

	dto := NewCategoryDTO(category)
	dto.ProductsCount = &count

	products := make([]ProductBrief, 0, len(category.Products))
	for _, p := range category.Products {
		products = append(products, ProductBrief{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price.StringFixed(2),
			StockQuantity: p.StockQuantity,
			Image:         p.Image,
		})
	}

	return &CategoryDetail{Category: dto, Products: products}, nil
}

func (s *service) Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, input.Name, nil)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: trimDescription(input.Description),
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if _, err := s.repo.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}

	dto := NewCategoryDTO(category)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	name := strings.TrimSpace(input.Name)
	if name != category.Name {
		slug, err := s.uniqueSlug(ctx, name, &id)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}

	category.Name = name
	category.Description = trimDescription(input.Description)
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}

	dto := NewCategoryDTO(category)
	return &dto, nil
}

// Delete refuses to remove a category that still owns products. The count
// runs inside the delete transaction so a concurrent product insert cannot
// slip between the check and the delete.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountProducts(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count category products")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, MsgDeleteGuard)
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) uniqueSlug(ctx context.Context, name string, excludeID *uuid.UUID) (string, error) {
	base := Slugify(name)
	slug := base
	for attempt := 2; ; attempt++ {
		exists, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}

func validateInput(input CategoryInput) error {
	details := map[string]string{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "Category name is required."
	} else if utf8.RuneCountInString(name) > maxNameLen {
		details["name"] = "Category name cannot exceed 255 characters."
	}

	if input.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Description)) > maxDescriptionLen {
		details["description"] = "Description cannot exceed 1000 characters."
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func trimDescription(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
