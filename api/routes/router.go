package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/catalogworks/catalog-backend/api/controllers"
	"github.com/catalogworks/catalog-backend/api/middleware"
	"github.com/catalogworks/catalog-backend/internal/auth"
	"github.com/catalogworks/catalog-backend/internal/categories"
	"github.com/catalogworks/catalog-backend/internal/home"
	"github.com/catalogworks/catalog-backend/internal/products"
	"github.com/catalogworks/catalog-backend/pkg/config"
	"github.com/catalogworks/catalog-backend/pkg/logger"
	"github.com/catalogworks/catalog-backend/pkg/metrics"
	"github.com/catalogworks/catalog-backend/pkg/redis"
	"github.com/catalogworks/catalog-backend/pkg/storage"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	requestMetrics *metrics.RequestMetrics,
	metricsHandler http.Handler,
	redisClient *redis.Client,
	fileStore *storage.LocalStore,
	authService auth.Service,
	productService products.Service,
	categoryService categories.Service,
	homeService *home.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(requestMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	maxUploadBytes := cfg.Storage.MaxUploadBytes()

	r.Get("/", controllers.Home(homeService, logg))
	r.Get("/health-check", controllers.HealthCheck())

	if metricsHandler != nil {
		r.Get("/metrics", metricsHandler.ServeHTTP)
	}

	if fileStore != nil {
		fileServer := http.StripPrefix(cfg.Storage.PublicPath, http.FileServer(http.Dir(fileStore.Root())))
		r.Get(cfg.Storage.PublicPath+"/*", fileServer.ServeHTTP)
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(authService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, categoryService, logg))
			r.Post("/", controllers.CreateProduct(productService, maxUploadBytes, logg))
			r.Get("/create", controllers.ProductCreateForm(categoryService, logg))
			r.Get("/{id}", controllers.GetProduct(productService, logg))
			r.Get("/{id}/edit", controllers.ProductEditForm(productService, categoryService, logg))
			r.Put("/{id}", controllers.UpdateProduct(productService, maxUploadBytes, logg))
			r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(categoryService, logg))
			r.Post("/", controllers.CreateCategory(categoryService, logg))
			r.Get("/{id}", controllers.GetCategory(categoryService, logg))
			r.Get("/{id}/edit", controllers.CategoryEditForm(categoryService, logg))
			r.Put("/{id}", controllers.UpdateCategory(categoryService, logg))
			r.Delete("/{id}", controllers.DeleteCategory(categoryService, logg))
		})
	})

	return r
}
