package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-checkout/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-checkout/api/controllers/cart"
	checkoutcontrollers "github.com/angelmondragon/storefront-checkout/api/controllers/checkout"
	ordercontrollers "github.com/angelmondragon/storefront-checkout/api/controllers/orders"
	pmcontrollers "github.com/angelmondragon/storefront-checkout/api/controllers/paymentmethods"
	productcontrollers "github.com/angelmondragon/storefront-checkout/api/controllers/products"
	"github.com/angelmondragon/storefront-checkout/api/middleware"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	checkoutsvc "github.com/angelmondragon/storefront-checkout/internal/checkout"
	"github.com/angelmondragon/storefront-checkout/internal/orders"
	"github.com/angelmondragon/storefront-checkout/internal/paymentmethods"
	product "github.com/angelmondragon/storefront-checkout/internal/products"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	idempotencyStore redis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	paymentMethodsService paymentmethods.Service,
	productService product.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(idempotencyStore, cfg.Checkout.IdempotencyTTL, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productcontrollers.List(productService, logg))
		r.Get("/products/{productId}", productcontrollers.Detail(productService, logg))
		r.Get("/payment-methods", pmcontrollers.List(paymentMethodsService, logg))
		r.Get("/payment-methods/{name}", pmcontrollers.Detail(paymentMethodsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/cart", cartcontrollers.CartFetch(cartService, logg))
			r.With(idempotent).Post("/cart/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Patch("/cart/items/{cartKey}", cartcontrollers.CartSetQuantity(cartService, logg))
			r.Delete("/cart/items/{cartKey}", cartcontrollers.CartRemoveItem(cartService, logg))

			r.Get("/checkout", checkoutcontrollers.Prepare(checkoutService, logg))
			r.Put("/checkout/address", checkoutcontrollers.SaveAddress(checkoutService, logg))
			r.With(idempotent).Post("/checkout", checkoutcontrollers.PlaceOrder(checkoutService, logg))

			r.Get("/orders", ordercontrollers.List(ordersService, logg))
			r.Get("/orders/{orderId}", ordercontrollers.Detail(ordersService, logg))
		})
	})

	return r
}
