package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront-checkout/api/controllers"
	"github.com/angelmondragon/storefront-checkout/api/routes"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
	"github.com/angelmondragon/storefront-checkout/internal/checkout"
	"github.com/angelmondragon/storefront-checkout/internal/orders"
	"github.com/angelmondragon/storefront-checkout/internal/paymentmethods"
	product "github.com/angelmondragon/storefront-checkout/internal/products"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/instance"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/metrics"
	"github.com/angelmondragon/storefront-checkout/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	colls, err := openCollections(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := colls.close(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing store", err)
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	locker, err := redis.NewLocker(redisClient, "checkout", cfg.Checkout.LockTTL)
	if err != nil {
		return err
	}

	notifier, notifierPinger, closeNotifier, err := buildNotifier(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeNotifier(); err != nil {
			logg.Error(context.Background(), "error closing notifier", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	normalizer, err := cart.NewNormalizer(colls.users, colls.products, colls.sellers, logg, checkoutMetrics)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(colls.users, colls.products, colls.sellers, normalizer)
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Users:      colls.users,
		Sellers:    colls.sellers,
		Orders:     colls.orders,
		Invoices:   colls.invoices,
		AppInfo:    colls.appInfo,
		Normalizer: normalizer,
		Notifier:   notifier,
		Locker:     locker,
		Config:     cfg.Checkout,
		Logger:     logg,
		Metrics:    checkoutMetrics,
	})
	if err != nil {
		return err
	}
	ordersService, err := orders.NewService(colls.orders, colls.invoices)
	if err != nil {
		return err
	}
	paymentMethodsService, err := paymentmethods.NewService(colls.paymentMethods)
	if err != nil {
		return err
	}

	productService, err := product.NewService(colls.products, colls.sellers)
	if err != nil {
		return err
	}

	readiness := map[string]controllers.Pinger{
		"store": colls.pinger,
		"redis": redisClient,
	}
	if notifierPinger != nil {
		readiness["pubsub"] = notifierPinger
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"backend":  cfg.Store.Backend,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			redisClient,
			registry,
			cartService,
			checkoutService,
			ordersService,
			paymentMethodsService,
			productService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
