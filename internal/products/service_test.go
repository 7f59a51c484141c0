package products

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/catalogworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/catalogworks/catalog-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeImageStore struct {
	saved   []string
	deleted []string
	nextID  int
	saveErr error
}

func (f *fakeImageStore) SaveProductImage(r io.Reader, ext string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	io.Copy(io.Discard, r)
	f.nextID++
	key := fmt.Sprintf("products/%d.%s", f.nextID, ext)
	f.saved = append(f.saved, key)
	return key, nil
}

func (f *fakeImageStore) Delete(key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type harness struct {
	svc   Service
	conn  *gorm.DB
	store *fakeImageStore
	user  *models.User
	cat   *models.Category
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}))

	user := &models.User{Name: "Seed", Email: "seed@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, conn.Create(user).Error)
	cat := &models.Category{Name: "General", Slug: "general", IsActive: true}
	require.NoError(t, conn.Create(cat).Error)

	store := &fakeImageStore{}
	svc, err := NewService(ServiceParams{
		Repo:  NewRepository(conn),
		Store: store,
	})
	require.NoError(t, err)

	return &harness{svc: svc, conn: conn, store: store, user: user, cat: cat}
}

func (h *harness) validInput() ProductInput {
	return ProductInput{
		Name:          "Widget",
		Price:         "19.99",
		StockQuantity: "5",
		CategoryID:    h.cat.ID.String(),
	}
}

func validationDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	return details
}

func TestCreateProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	dto, err := h.svc.Create(ctx, h.user.ID, h.validInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Widget", dto.Name)
	assert.Equal(t, "19.99", dto.Price)
	assert.True(t, dto.IsActive)
	require.NotNil(t, dto.Category)
	assert.Equal(t, h.cat.ID, dto.Category.ID)
}

func TestLengthCapsCountCharactersNotBytes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// 200 two-byte runes are 400 bytes but still under the 255-character cap.
	input := h.validInput()
	input.Name = strings.Repeat("é", 200)
	input.Description = strings.Repeat("ü", 1500)

	dto, err := h.svc.Create(ctx, h.user.ID, input, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 200), dto.Name)

	over := h.validInput()
	over.Name = strings.Repeat("é", 256)
	_, err = h.svc.Create(ctx, h.user.ID, over, nil)
	details := validationDetails(t, err)
	assert.Equal(t, "Product name cannot exceed 255 characters.", details["name"])
}

func TestCreateValidationMessages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*ProductInput)
		field   string
		message string
	}{
		{"missing name", func(in *ProductInput) { in.Name = " " }, "name", "Product name is required."},
		{"long name", func(in *ProductInput) { in.Name = strings.Repeat("a", 256) }, "name", "Product name cannot exceed 255 characters."},
		{"long description", func(in *ProductInput) { in.Description = strings.Repeat("d", 2001) }, "description", "Description cannot exceed 2000 characters."},
		{"missing price", func(in *ProductInput) { in.Price = "" }, "price", "Product price is required."},
		{"bad price", func(in *ProductInput) { in.Price = "free" }, "price", "Price must be a valid number."},
		{"negative price", func(in *ProductInput) { in.Price = "-1" }, "price", "Price cannot be negative."},
		{"huge price", func(in *ProductInput) { in.Price = "1000000" }, "price", "Price cannot exceed 999,999.99."},
		{"long sku", func(in *ProductInput) { in.SKU = strings.Repeat("s", 101) }, "sku", "SKU cannot exceed 100 characters."},
		{"missing stock", func(in *ProductInput) { in.StockQuantity = "" }, "stock_quantity", "Stock quantity is required."},
		{"fractional stock", func(in *ProductInput) { in.StockQuantity = "1.5" }, "stock_quantity", "Stock quantity must be a whole number."},
		{"negative stock", func(in *ProductInput) { in.StockQuantity = "-1" }, "stock_quantity", "Stock quantity cannot be negative."},
		{"huge stock", func(in *ProductInput) { in.StockQuantity = "1000000" }, "stock_quantity", "Stock quantity cannot exceed 999,999."},
		{"missing category", func(in *ProductInput) { in.CategoryID = "" }, "category_id", "Please select a category."},
		{"unknown category", func(in *ProductInput) { in.CategoryID = uuid.NewString() }, "category_id", "Selected category does not exist."},
		{"malformed category", func(in *ProductInput) { in.CategoryID = "not-a-uuid" }, "category_id", "Selected category does not exist."},
		{"image message", func(in *ProductInput) { in.ImageMessage = "Image size cannot exceed 2MB." }, "image", "Image size cannot exceed 2MB."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := h.validInput()
			tc.mutate(&input)
			_, err := h.svc.Create(ctx, h.user.ID, input, nil)
			require.Error(t, err)
			details := validationDetails(t, err)
			assert.Equal(t, tc.message, details[tc.field])
		})
	}

	// No product rows may exist after the failed attempts.
	var count int64
	require.NoError(t, h.conn.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateDuplicateSKU(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	input := h.validInput()
	input.SKU = "SKU-1"
	_, err := h.svc.Create(ctx, h.user.ID, input, nil)
	require.NoError(t, err)

	second := h.validInput()
	second.Name = "Other"
	second.SKU = "SKU-1"
	_, err = h.svc.Create(ctx, h.user.ID, second, nil)
	require.Error(t, err)
	details := validationDetails(t, err)
	assert.Equal(t, "A product with this SKU already exists.", details["sku"])
}

func TestUpdateKeepsSKUOnSameProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	input := h.validInput()
	input.SKU = "SKU-1"
	created, err := h.svc.Create(ctx, h.user.ID, input, nil)
	require.NoError(t, err)

	update := h.validInput()
	update.Name = "Renamed"
	update.SKU = "SKU-1"
	updated, err := h.svc.Update(ctx, created.ID, update, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestCreateWithImageStoresFile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	dto, err := h.svc.Create(ctx, h.user.ID, h.validInput(), &ImageData{
		Reader:    strings.NewReader("bytes"),
		Extension: "jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Image)
	assert.Equal(t, h.store.saved[0], *dto.Image)
	assert.Empty(t, h.store.deleted)
}

func TestUpdateReplacesImageAfterRowUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.svc.Create(ctx, h.user.ID, h.validInput(), &ImageData{
		Reader:    strings.NewReader("old"),
		Extension: "jpg",
	})
	require.NoError(t, err)
	oldKey := *created.Image

	updated, err := h.svc.Update(ctx, created.ID, h.validInput(), &ImageData{
		Reader:    strings.NewReader("new"),
		Extension: "png",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Image)
	assert.NotEqual(t, oldKey, *updated.Image)
	assert.Equal(t, []string{oldKey}, h.store.deleted)
}

func TestUpdateWithoutImageKeepsExisting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.svc.Create(ctx, h.user.ID, h.validInput(), &ImageData{
		Reader:    strings.NewReader("old"),
		Extension: "jpg",
	})
	require.NoError(t, err)

	updated, err := h.svc.Update(ctx, created.ID, h.validInput(), nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Image)
	assert.Equal(t, *created.Image, *updated.Image)
	assert.Empty(t, h.store.deleted)
}

func TestDeleteRemovesRowThenImage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.svc.Create(ctx, h.user.ID, h.validInput(), &ImageData{
		Reader:    strings.NewReader("img"),
		Extension: "jpg",
	})
	require.NoError(t, err)

	require.NoError(t, h.svc.Delete(ctx, created.ID))

	var count int64
	require.NoError(t, h.conn.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, []string{*created.Image}, h.store.deleted)
}

func TestGetMissingProduct(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
