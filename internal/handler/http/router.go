// Package http wires the storefront HTTP surface: cart, checkout, and
// catalog endpoints plus health and metrics.
package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhinimbalkar96-spec/blak-website/pkg/health"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/middleware"
)

const serviceName = "storefront"

// RouterConfig carries the pieces the router needs.
type RouterConfig struct {
	Cart           *CartHandler
	Checkout       *CheckoutHandler
	Products       *ProductHandler
	Health         *health.Handler
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.AllowedOrigins
	}

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(corsCfg))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cfg.Products.List)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.Get)
				r.Delete("/", cfg.Cart.Clear)
				r.Post("/items", cfg.Cart.AddItem)
				r.Put("/items/{productID}", cfg.Cart.UpdateItem)
				r.Delete("/items/{productID}", cfg.Cart.RemoveItem)
			})

			r.Post("/checkout", cfg.Checkout.Submit)
		})

		r.Route("/admin/products", func(r chi.Router) {
			r.Post("/", cfg.Products.Create)
			r.Put("/{id}", cfg.Products.Update)
			r.Delete("/{id}", cfg.Products.Delete)
			r.Post("/{id}/stock", cfg.Products.AdjustStock)
		})
	})

	return r
}
