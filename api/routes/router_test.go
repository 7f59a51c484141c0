package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authsvc "github.com/catalogworks/catalog-backend/internal/auth"
	"github.com/catalogworks/catalog-backend/internal/categories"
	"github.com/catalogworks/catalog-backend/internal/home"
	"github.com/catalogworks/catalog-backend/internal/products"
	pkgAuth "github.com/catalogworks/catalog-backend/pkg/auth"
	"github.com/catalogworks/catalog-backend/pkg/config"
	"github.com/catalogworks/catalog-backend/pkg/logger"
	"github.com/catalogworks/catalog-backend/pkg/metrics"
	"github.com/catalogworks/catalog-backend/pkg/pagination"
	"github.com/catalogworks/catalog-backend/pkg/storage"
)

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, authsvc.RegisterRequest) (*authsvc.TokenResponse, error) {
	return &authsvc.TokenResponse{AccessToken: "token"}, nil
}

func (stubAuthService) Login(context.Context, authsvc.LoginRequest) (*authsvc.TokenResponse, error) {
	return &authsvc.TokenResponse{AccessToken: "token"}, nil
}

type stubProductService struct{}

func (stubProductService) List(context.Context, products.ListQuery) (*products.ListResult, error) {
	return &products.ListResult{Products: []products.ProductDTO{}}, nil
}

func (stubProductService) Get(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) Create(context.Context, uuid.UUID, products.ProductInput, *products.ImageData) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) Update(context.Context, uuid.UUID, products.ProductInput, *products.ImageData) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) Delete(context.Context, uuid.UUID) error {
	return nil
}

type stubCategoryService struct{}

func (stubCategoryService) List(context.Context, categories.ListQuery) (*categories.ListResult, error) {
	return &categories.ListResult{Categories: []categories.CategoryDTO{}}, nil
}

func (stubCategoryService) ListActive(context.Context) ([]categories.CategorySummary, error) {
	return []categories.CategorySummary{}, nil
}

func (stubCategoryService) Get(context.Context, uuid.UUID) (*categories.CategoryDetail, error) {
	return &categories.CategoryDetail{}, nil
}

func (stubCategoryService) Create(context.Context, categories.CategoryInput) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategoryService) Update(context.Context, uuid.UUID, categories.CategoryInput) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategoryService) Delete(context.Context, uuid.UUID) error {
	return nil
}

type stubProductLister struct{}

func (stubProductLister) List(context.Context, products.ListQuery) (*products.ListResult, error) {
	return &products.ListResult{Products: []products.ProductDTO{}, Meta: pagination.Meta{}}, nil
}

func (stubProductLister) CountAll(context.Context, bool) (int64, int64, error) {
	return 0, 0, nil
}

type stubCategoryLister struct{}

func (stubCategoryLister) ListActive(context.Context) ([]categories.CategorySummary, error) {
	return []categories.CategorySummary{}, nil
}

func (stubCategoryLister) ListFeatured(context.Context, int) ([]categories.CategorySummary, error) {
	return []categories.CategorySummary{}, nil
}

func (stubCategoryLister) CountActive(context.Context) (int64, error) {
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		Storage: config.StorageConfig{
			UploadDir:   "uploads",
			PublicPath:  "/uploads",
			MaxUploadMB: 2,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	homeService, err := home.NewService(stubProductLister{}, stubCategoryLister{})
	if err != nil {
		t.Fatalf("home service: %v", err)
	}

	return NewRouter(
		cfg,
		logg,
		nil, // request metrics
		nil, // metrics handler
		nil, // redis
		nil, // file store
		stubAuthService{},
		stubProductService{},
		stubCategoryService{},
		homeService,
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, _, err := pkgAuth.MintAccessToken(cfg.JWT, uuid.New(), "Tester", "tester@example.com")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicHomeServes(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for home got %d", resp.Code)
	}
}

func TestHealthCheckServes(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for health check got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())
	for _, path := range []string{"/products", "/categories"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token got %d", path, resp.Code)
		}
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for products listing got %d", resp.Code)
	}
}

func TestAuthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(t, testConfig())

	body := `{"email":"tester@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for login got %d", resp.Code)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	requestMetrics := metrics.NewRequestMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	homeService, err := home.NewService(stubProductLister{}, stubCategoryLister{})
	if err != nil {
		t.Fatalf("home service: %v", err)
	}

	router := NewRouter(
		cfg,
		logg,
		requestMetrics,
		metricsHandler,
		nil,
		nil,
		stubAuthService{},
		stubProductService{},
		stubCategoryService{},
		homeService,
	)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestUploadsServeSavedFiles(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.UploadDir = t.TempDir()

	store, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	key, err := store.SaveProductImage(strings.NewReader("image-bytes"), "png")
	if err != nil {
		t.Fatalf("save image: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	homeService, err := home.NewService(stubProductLister{}, stubCategoryLister{})
	if err != nil {
		t.Fatalf("home service: %v", err)
	}

	router := NewRouter(
		cfg,
		logg,
		nil,
		nil,
		nil,
		store,
		stubAuthService{},
		stubProductService{},
		stubCategoryService{},
		homeService,
	)

	req := httptest.NewRequest(http.MethodGet, "/uploads/"+key, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for upload fetch got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "image-bytes" {
		t.Fatalf("unexpected upload body %q", body)
	}
}
