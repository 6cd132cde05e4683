package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/boutiquemaison/storefront-backend/api/controllers"
	"github.com/boutiquemaison/storefront-backend/api/middleware"
	accountsvc "github.com/boutiquemaison/storefront-backend/internal/accounts"
	cartsvc "github.com/boutiquemaison/storefront-backend/internal/cart"
	categorysvc "github.com/boutiquemaison/storefront-backend/internal/categories"
	ordersvc "github.com/boutiquemaison/storefront-backend/internal/orders"
	productsvc "github.com/boutiquemaison/storefront-backend/internal/products"
	reviewsvc "github.com/boutiquemaison/storefront-backend/internal/reviews"
	"github.com/boutiquemaison/storefront-backend/pkg/config"
	"github.com/boutiquemaison/storefront-backend/pkg/db"
	"github.com/boutiquemaison/storefront-backend/pkg/logger"
	"github.com/boutiquemaison/storefront-backend/pkg/metrics"
	"github.com/boutiquemaison/storefront-backend/pkg/redis"
)

// Services bundles the domain services the router wires into handlers.
type Services struct {
	Categories categorysvc.Service
	Products   productsvc.Service
	Cart       cartsvc.Service
	Orders     ordersvc.Service
	Accounts   accountsvc.Service
	Reviews    reviewsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/tree", controllers.CategoryTree(svcs.Categories, logg))
			r.Get("/{categoryId}/children", controllers.CategoryChildren(svcs.Categories, logg))
			r.Get("/{categoryId}/breadcrumb", controllers.CategoryBreadcrumb(svcs.Categories, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Get("/featured", controllers.ProductsFeatured(svcs.Products, logg))
			r.Get("/new", controllers.ProductsNew(svcs.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Products, logg))
			r.Get("/{productId}/reviews", controllers.ReviewList(svcs.Reviews, logg))
			r.With(middleware.CustomerContext(logg)).
				Post("/{productId}/reviews", controllers.ReviewSubmit(svcs.Reviews, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(svcs.Cart, logg))
				r.Get("/count", controllers.CartCount(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Post("/items", controllers.CartAdd(svcs.Cart, logg))
				r.Put("/items/{productId}", controllers.CartSetQuantity(svcs.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemove(svcs.Cart, logg))
			})

			r.With(middleware.CustomerContext(logg)).
				Post("/checkout", controllers.Checkout(svcs.Orders, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CustomerContext(logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			})

			r.Route("/account", func(r chi.Router) {
				r.Get("/profile", controllers.ProfileFetch(svcs.Accounts, logg))
				r.Put("/profile", controllers.ProfileUpdate(svcs.Accounts, logg))
				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", controllers.AddressList(svcs.Accounts, logg))
					r.Post("/", controllers.AddressCreate(svcs.Accounts, logg))
					r.Put("/{addressId}", controllers.AddressUpdate(svcs.Accounts, logg))
					r.Delete("/{addressId}", controllers.AddressDelete(svcs.Accounts, logg))
				})
			})
		})
	})

	return r
}
