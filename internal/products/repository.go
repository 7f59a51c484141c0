package products

import (
	"context"
	"strings"

	"github.com/catalogworks/catalog-backend/pkg/db/models"
	"github.com/catalogworks/catalog-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes product persistence operations.
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

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetail loads the product with its category and author.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// SKUExists reports whether another product already uses the SKU.
func (r *Repository) SKUExists(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku)
	if excludeID != nil {
		qb = qb.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CategoryExists reports whether an active category row exists for the id.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List applies the filter, sort, and pagination knobs. Filters AND together;
// search is a parenthesized case-insensitive OR across its target columns.
func (r *Repository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	params := pagination.Normalize(query.Page, query.PerPage)

	base := r.db.WithContext(ctx).Model(&models.Product{})

	if query.ActiveOnly {
		base = base.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		if query.SearchSKU {
			base = base.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern, pattern)
		} else {
			base = base.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
		}
	}
	if categoryID := strings.TrimSpace(query.CategoryID); categoryID != "" {
		base = base.Where("category_id = ?", categoryID)
	}
	switch query.Status {
	case StatusActive:
		base = base.Where("is_active = ?", true)
	case StatusInactive:
		base = base.Where("is_active = ?", false)
	}
	switch query.Stock {
	case StockInStock:
		base = base.Where("stock_quantity > ?", 0)
	case StockOutOfStock:
		base = base.Where("stock_quantity = ?", 0)
	}
	if query.MinPrice != nil {
		base = base.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		base = base.Where("price <= ?", *query.MaxPrice)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Product
	err := base.Session(&gorm.Session{}).
		Preload("Category").
		Order(orderClause(query.Sort, query.Direction)).
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, NewProductDTO(&rows[i]))
	}

	return &ListResult{
		Products: items,
		Meta:     pagination.BuildMeta(params, total),
	}, nil
}

// CountAll returns total and in-stock counts for the stats block.
func (r *Repository) CountAll(ctx context.Context, activeOnly bool) (total int64, inStock int64, err error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	if err = qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = qb.Session(&gorm.Session{}).Where("stock_quantity > ?", 0).Count(&inStock).Error; err != nil {
		return 0, 0, err
	}
	return total, inStock, nil
}
