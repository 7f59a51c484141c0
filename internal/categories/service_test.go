package categories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/catalogworks/catalog-backend/pkg/db"
	"github.com/catalogworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/catalogworks/catalog-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestHarness(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}))

	svc, err := NewService(ServiceParams{
		Repo: NewRepository(conn),
		Tx:   db.FromConn(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Name: "Seed", Email: uuid.NewString() + "@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, conn *gorm.DB, categoryID, createdBy uuid.UUID, name string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:    categoryID,
		CreatedBy:     createdBy,
		Name:          name,
		Price:         decimal.RequireFromString("9.99"),
		StockQuantity: 5,
		IsActive:      active,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestCreateGeneratesUniqueSlugs(t *testing.T) {
	svc, _ := newTestHarness(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CategoryInput{Name: "Home & Garden"})
	require.NoError(t, err)
	assert.Equal(t, "home-garden", first.Slug)

	second, err := svc.Create(ctx, CategoryInput{Name: "Home  &  Garden"})
	require.NoError(t, err)
	assert.Equal(t, "home-garden-2", second.Slug)

	third, err := svc.Create(ctx, CategoryInput{Name: "Home & Garden!"})
	require.NoError(t, err)
	assert.Equal(t, "home-garden-3", third.Slug)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestHarness(t)

	_, err := svc.Create(context.Background(), CategoryInput{Name: "   "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Category name is required.", details["name"])
}

func TestNameCapCountsCharactersNotBytes(t *testing.T) {
	svc, _ := newTestHarness(t)
	ctx := context.Background()

	// 200 two-byte runes are 400 bytes but still under the 255-character cap.
	created, err := svc.Create(ctx, CategoryInput{Name: strings.Repeat("é", 200)})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 200), created.Name)

	_, err = svc.Create(ctx, CategoryInput{Name: strings.Repeat("é", 256)})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Category name cannot exceed 255 characters.", details["name"])
}

func TestUpdateRegeneratesSlugOnRename(t *testing.T) {
	svc, _ := newTestHarness(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryInput{Name: "Books"})
	require.NoError(t, err)
	assert.Equal(t, "books", created.Slug)

	updated, err := svc.Update(ctx, created.ID, CategoryInput{Name: "Magazines"})
	require.NoError(t, err)
	assert.Equal(t, "magazines", updated.Slug)

	// Same name keeps the slug.
	unchanged, err := svc.Update(ctx, created.ID, CategoryInput{Name: "Magazines"})
	require.NoError(t, err)
	assert.Equal(t, "magazines", unchanged.Slug)
}

func TestDeleteGuardBlocksWhenProductsExist(t *testing.T) {
	svc, conn := newTestHarness(t)
	ctx := context.Background()

	category, err := svc.Create(ctx, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	user := seedUser(t, conn)
	seedProduct(t, conn, category.ID, user.ID, "Widget", true)

	err = svc.Delete(ctx, category.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, MsgDeleteGuard, typed.Message())

	// The category must still exist after the refused delete.
	var count int64
	require.NoError(t, conn.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteGuardCountsInactiveProducts(t *testing.T) {
	svc, conn := newTestHarness(t)
	ctx := context.Background()

	category, err := svc.Create(ctx, CategoryInput{Name: "Archive"})
	require.NoError(t, err)
	user := seedUser(t, conn)
	seedProduct(t, conn, category.ID, user.ID, "Retired widget", false)

	err = svc.Delete(ctx, category.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestDeleteRemovesEmptyCategory(t *testing.T) {
	svc, conn := newTestHarness(t)
	ctx := context.Background()

	category, err := svc.Create(ctx, CategoryInput{Name: "Empty"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, category.ID))

	var count int64
	require.NoError(t, conn.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMissingCategory(t *testing.T) {
	svc, _ := newTestHarness(t)

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetReturnsActiveProductsNewestFirst(t *testing.T) {
	svc, conn := newTestHarness(t)
	ctx := context.Background()

	category, err := svc.Create(ctx, CategoryInput{Name: "Tools"})
	require.NoError(t, err)
	user := seedUser(t, conn)

	older := seedProduct(t, conn, category.ID, user.ID, "Older", true)
	require.NoError(t, conn.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
	newer := seedProduct(t, conn, category.ID, user.ID, "Newer", true)
	seedProduct(t, conn, category.ID, user.ID, "Hidden", false)

	detail, err := svc.Get(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, detail.Products, 2)
	assert.Equal(t, newer.ID, detail.Products[0].ID)
	assert.Equal(t, older.ID, detail.Products[1].ID)
	require.NotNil(t, detail.Category.ProductsCount)
	assert.Equal(t, int64(3), *detail.Category.ProductsCount)
}

func TestListFiltersAndSorts(t *testing.T) {
	svc, _ := newTestHarness(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CategoryInput{Name: "Alpha"})
	require.NoError(t, err)
	inactive := false
	_, err = svc.Create(ctx, CategoryInput{Name: "Beta", IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CategoryInput{Name: "Gamma"})
	require.NoError(t, err)

	active, err := svc.List(ctx, ListQuery{Status: StatusActive, Sort: "name", Direction: "asc", PerPage: DefaultPerPage})
	require.NoError(t, err)
	require.Len(t, active.Categories, 2)
	assert.Equal(t, "Alpha", active.Categories[0].Name)
	assert.Equal(t, "Gamma", active.Categories[1].Name)

	searched, err := svc.List(ctx, ListQuery{Search: "bet", PerPage: DefaultPerPage})
	require.NoError(t, err)
	require.Len(t, searched.Categories, 1)
	assert.Equal(t, "Beta", searched.Categories[0].Name)
	assert.Equal(t, int64(1), searched.Meta.Total)

	// Unknown sort falls back to created_at desc without error.
	all, err := svc.List(ctx, ListQuery{Sort: "evil; DROP TABLE", PerPage: DefaultPerPage})
	require.NoError(t, err)
	assert.Len(t, all.Categories, 3)
}
