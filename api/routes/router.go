package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradecove/catalog-backend/api/controllers"
	"github.com/tradecove/catalog-backend/api/middleware"
	categorysvc "github.com/tradecove/catalog-backend/internal/categories"
	searchsvc "github.com/tradecove/catalog-backend/internal/search"
	suppliersvc "github.com/tradecove/catalog-backend/internal/suppliers"
	"github.com/tradecove/catalog-backend/pkg/config"
	"github.com/tradecove/catalog-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	searchService searchsvc.Service,
	categoryService categorysvc.Service,
	supplierService suppliersvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/search", func(r chi.Router) {
		r.Get("/", controllers.SearchProducts(searchService, logg))
		r.Get("/popular-queries", controllers.PopularQueries(searchService, logg))
		r.Get("/products/{id}", controllers.SearchProductByID(searchService, logg))
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(categoryService, logg))
		r.Post("/", controllers.CreateCategory(categoryService, logg))
		r.Get("/tree", controllers.CategoryTree(categoryService, logg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetCategory(categoryService, logg))
			r.Get("/path", controllers.CategoryPath(categoryService, logg))
			r.Patch("/", controllers.UpdateCategory(categoryService, logg))
			r.Delete("/", controllers.DeleteCategory(categoryService, logg))
		})
	})

	r.Route("/api/v1/suppliers", func(r chi.Router) {
		r.Get("/", controllers.ListSuppliers(supplierService, logg))
		r.Post("/", controllers.CreateSupplier(supplierService, logg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetSupplier(supplierService, logg))
			r.Patch("/", controllers.UpdateSupplier(supplierService, logg))
			r.Delete("/", controllers.DeleteSupplier(supplierService, logg))
		})
	})

	return r
}
