package categories

import (
	"context"
	"strings"

	"github.com/catalogworks/catalog-backend/pkg/db/models"
	"github.com/catalogworks/catalog-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes category persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the category without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByIDWithActiveProducts loads the category along with its active
// products, newest first.
func (r *Repository) FindByIDWithActiveProducts(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("created_at DESC")
		}).
		First(&category, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update saves an existing category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// CountProducts returns the number of products referencing the category.
func (r *Repository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).
		Error
	return count, err
}

// SlugExists reports whether another category already uses the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	qb := r.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != nil {
		qb = qb.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive returns active categories ordered by name, each with its active
// product count, for filter dropdowns and the public home page.
func (r *Repository) ListActive(ctx context.Context) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := r.db.WithContext(ctx).
		Table("product_categories c").
		Select("c.id, c.name, c.slug, (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active = ?) AS products_count", true).
		Where("c.is_active = ?", true).
		Order("c.name ASC").
		Scan(&rows).
		Error
	return rows, err
}

// ListFeatured returns the top active categories by active product count.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := r.db.WithContext(ctx).
		Table("product_categories c").
		Select("c.id, c.name, c.slug, (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active = ?) AS products_count", true).
		Where("c.is_active = ?", true).
		Order("products_count DESC").
		Order("c.name ASC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}

// CountActive returns the number of active categories.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("is_active = ?", true).
		Count(&count).
		Error
	return count, err
}

// List applies the filter, sort, and pagination knobs for the management view.
func (r *Repository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	params := pagination.Normalize(query.Page, query.PerPage)

	base := r.db.WithContext(ctx).Model(&models.Category{})

	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		base = base.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	switch query.Status {
	case StatusActive:
		base = base.Where("is_active = ?", true)
	case StatusInactive:
		base = base.Where("is_active = ?", false)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []categoryRow
	err := base.Session(&gorm.Session{}).
		Select("product_categories.*, (SELECT COUNT(*) FROM products p WHERE p.category_id = product_categories.id) AS products_count").
		Order(orderClause(query.Sort, query.Direction)).
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		dto := NewCategoryDTO(&row.Category)
		dto.ProductsCount = &row.ProductsCount
		items = append(items, dto)
	}

	return &ListResult{
		Categories: items,
		Meta:       pagination.BuildMeta(params, total),
	}, nil
}

type categoryRow struct {
	models.Category
	ProductsCount int64
}
