package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/catalogworks/catalog-backend/api/middleware"
	"github.com/catalogworks/catalog-backend/api/responses"
	"github.com/catalogworks/catalog-backend/api/validators"
	categorysvc "github.com/catalogworks/catalog-backend/internal/categories"
	productsvc "github.com/catalogworks/catalog-backend/internal/products"
	pkgerrors "github.com/catalogworks/catalog-backend/pkg/errors"
	"github.com/catalogworks/catalog-backend/pkg/logger"
)

// productFilters echoes the applied listing knobs back to the client.
type productFilters struct {
	Search    string `json:"search,omitempty"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status,omitempty"`
	Stock     string `json:"stock,omitempty"`
	MinPrice  string `json:"min_price,omitempty"`
	MaxPrice  string `json:"max_price,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// ListProducts serves the authenticated management listing over the whole
// shared catalog, inactive rows included.
func ListProducts(svc productsvc.Service, catSvc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		query, err := parseProductListQuery(r, productsvc.DefaultPerPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.SearchSKU = true

		listing, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := catSvc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":   listing.Products,
			"meta":       listing.Meta,
			"categories": categories,
			"filters": productFilters{
				Search:    query.Search,
				Category:  query.CategoryID,
				Status:    query.Status,
				Stock:     query.Stock,
				MinPrice:  r.URL.Query().Get("min_price"),
				MaxPrice:  r.URL.Query().Get("max_price"),
				Sort:      query.Sort,
				Direction: query.Direction,
			},
		})
	}
}

// ProductCreateForm returns the data needed to render the create form.
func ProductCreateForm(catSvc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := catSvc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// CreateProduct handles the multipart create, image included.
func CreateProduct(svc productsvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, image, cleanup, err := parseProductForm(r, maxUploadBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		product, err := svc.Create(r.Context(), userID, input, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, http.StatusCreated, product, "Product created successfully.")
	}
}

// GetProduct returns one product with its category and author.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductEditForm returns the product plus active categories for the edit form.
func ProductEditForm(svc productsvc.Service, catSvc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := catSvc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"product":    product,
			"categories": categories,
		})
	}
}

// UpdateProduct handles the multipart full update, with optional image
// replacement.
func UpdateProduct(svc productsvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, image, cleanup, err := parseProductForm(r, maxUploadBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		product, err := svc.Update(r.Context(), id, input, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, http.StatusOK, product, "Product updated successfully.")
	}
}

// DeleteProduct removes the product and its stored image.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, http.StatusOK, nil, "Product deleted successfully.")
	}
}

func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invalid id")
	}
	return id, nil
}

// parseProductForm reads the multipart fields and the optional image. The
// returned cleanup closes the upload file handle and is safe to defer even
// when no file was sent. Image validation failures land in the input so the
// service reports them alongside the other field errors.
func parseProductForm(r *http.Request, maxUploadBytes int64) (productsvc.ProductInput, *productsvc.ImageData, func(), error) {
	cleanup := func() {}

	// Leave headroom for the text fields beyond the image ceiling.
	if err := r.ParseMultipartForm(maxUploadBytes + 1<<20); err != nil {
		return productsvc.ProductInput{}, nil, cleanup,
			pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}

	input := productsvc.ProductInput{
		Name:          r.FormValue("name"),
		Description:   r.FormValue("description"),
		Price:         r.FormValue("price"),
		SKU:           r.FormValue("sku"),
		StockQuantity: r.FormValue("stock_quantity"),
		CategoryID:    r.FormValue("category_id"),
		IsActive:      parseBoolField(r.FormValue("is_active")),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return input, nil, cleanup, nil
		}
		return input, nil, cleanup, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image upload")
	}
	cleanup = func() { file.Close() }

	upload, msg, err := validators.ValidateImageUpload(file, header, maxUploadBytes)
	if err != nil {
		return input, nil, cleanup, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inspect image upload")
	}
	if msg != "" {
		input.ImageMessage = msg
		return input, nil, cleanup, nil
	}

	return input, &productsvc.ImageData{Reader: upload.File, Extension: upload.Extension}, cleanup, nil
}

func parseBoolField(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		v := true
		return &v
	case "0", "false", "off", "no":
		v := false
		return &v
	}
	return nil
}
