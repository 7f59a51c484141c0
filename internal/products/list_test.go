package products

import (
	"context"
	"testing"

	"github.com/catalogworks/catalog-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type listFixture struct {
	repo *Repository
	conn *gorm.DB
	cat1 *models.Category
	cat2 *models.Category
}

func newListFixture(t *testing.T) *listFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}))

	user := &models.User{Name: "Seed", Email: "seed@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, conn.Create(user).Error)
	cat1 := &models.Category{Name: "Tools", Slug: "tools", IsActive: true}
	cat2 := &models.Category{Name: "Toys", Slug: "toys", IsActive: true}
	require.NoError(t, conn.Create(cat1).Error)
	require.NoError(t, conn.Create(cat2).Error)

	seed := func(name, desc, sku, price string, stock int, active bool, cat *models.Category) {
		var descPtr, skuPtr *string
		if desc != "" {
			descPtr = &desc
		}
		if sku != "" {
			skuPtr = &sku
		}
		require.NoError(t, conn.Create(&models.Product{
			CategoryID:    cat.ID,
			CreatedBy:     user.ID,
			Name:          name,
			Description:   descPtr,
			SKU:           skuPtr,
			Price:         decimal.RequireFromString(price),
			StockQuantity: stock,
			IsActive:      active,
		}).Error)
	}

	seed("Hammer", "steel head", "HAM-1", "25.00", 10, true, cat1)
	seed("Screwdriver", "phillips", "SCR-1", "8.50", 0, true, cat1)
	seed("Teddy Bear", "soft toy", "TED-1", "15.00", 3, true, cat2)
	seed("Broken Drill", "retired hammer drill", "DRL-1", "99.00", 1, false, cat1)

	return &listFixture{repo: NewRepository(conn), conn: conn, cat1: cat1, cat2: cat2}
}

func names(result *ListResult) []string {
	out := make([]string, 0, len(result.Products))
	for _, p := range result.Products {
		out = append(out, p.Name)
	}
	return out
}

func TestListFiltersCompose(t *testing.T) {
	f := newListFixture(t)
	ctx := context.Background()

	// Category + stock filters AND together.
	min := decimal.RequireFromString("10")
	result, err := f.repo.List(ctx, ListQuery{
		CategoryID: f.cat1.ID.String(),
		Stock:      StockInStock,
		MinPrice:   &min,
		PerPage:    DefaultPerPage,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hammer"}, names(result))
	assert.Equal(t, int64(1), result.Meta.Total)
}

func TestListSearchMatchesNameDescriptionAndSKU(t *testing.T) {
	f := newListFixture(t)
	ctx := context.Background()

	// "hammer" appears in the name of one product and the description of another.
	result, err := f.repo.List(ctx, ListQuery{Search: "HAMMER", SearchSKU: true, PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Hammer", "Broken Drill"}, names(result))

	bySKU, err := f.repo.List(ctx, ListQuery{Search: "ted-1", SearchSKU: true, PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.Equal(t, []string{"Teddy Bear"}, names(bySKU))

	// Without SKU search the same query finds nothing.
	noSKU, err := f.repo.List(ctx, ListQuery{Search: "ted-1", SearchSKU: false, PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.Empty(t, noSKU.Products)
}

func TestListActiveOnlyHidesInactive(t *testing.T) {
	f := newListFixture(t)
	ctx := context.Background()

	result, err := f.repo.List(ctx, ListQuery{ActiveOnly: true, PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.NotContains(t, names(result), "Broken Drill")
	assert.Equal(t, int64(3), result.Meta.Total)
}

func TestListStatusFilter(t *testing.T) {
	f := newListFixture(t)
	ctx := context.Background()

	inactive, err := f.repo.List(ctx, ListQuery{Status: StatusInactive, PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.Equal(t, []string{"Broken Drill"}, names(inactive))

	outOfStock, err := f.repo.List(ctx, ListQuery{Stock: StockOutOfStock, PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screwdriver"}, names(outOfStock))
}

func TestListSortAllowList(t *testing.T) {
	f := newListFixture(t)
	ctx := context.Background()

	byPrice, err := f.repo.List(ctx, ListQuery{Sort: "price", Direction: "asc", PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screwdriver", "Teddy Bear", "Hammer", "Broken Drill"}, names(byPrice))

	// Unknown sort column falls back to created_at desc instead of erroring.
	fallback, err := f.repo.List(ctx, ListQuery{Sort: "password; --", PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.Len(t, fallback.Products, 4)
}

func TestListPagination(t *testing.T) {
	f := newListFixture(t)
	ctx := context.Background()

	page1, err := f.repo.List(ctx, ListQuery{Sort: "name", Direction: "asc", Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Broken Drill", "Hammer"}, names(page1))
	assert.Equal(t, 2, page1.Meta.LastPage)
	assert.Equal(t, int64(4), page1.Meta.Total)

	page2, err := f.repo.List(ctx, ListQuery{Sort: "name", Direction: "asc", Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screwdriver", "Teddy Bear"}, names(page2))
	assert.Equal(t, 3, page2.Meta.From)
	assert.Equal(t, 4, page2.Meta.To)
}

func TestCountAll(t *testing.T) {
	f := newListFixture(t)
	ctx := context.Background()

	total, inStock, err := f.repo.CountAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), inStock)
}

func TestNormalizeHelpers(t *testing.T) {
	assert.Equal(t, StatusActive, NormalizeStatus(" Active "))
	assert.Equal(t, StatusAny, NormalizeStatus("bogus"))
	assert.Equal(t, StockInStock, NormalizeStock("IN_STOCK"))
	assert.Equal(t, StockAny, NormalizeStock(uuid.NewString()))
}
