package main

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-checkout/api/controllers"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/db"
	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/migrate"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"github.com/angelmondragon/storefront-checkout/pkg/store/gormstore"
	"github.com/angelmondragon/storefront-checkout/pkg/store/mongostore"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// collections are the record-store views the API needs.
type collections struct {
	users          store.Collection[models.User]
	products       store.Collection[models.Product]
	sellers        store.Collection[models.Seller]
	orders         store.Collection[models.Order]
	invoices       store.Collection[models.Invoice]
	appInfo        store.Collection[models.AppInfo]
	paymentMethods store.Collection[models.PaymentMethod]

	pinger controllers.Pinger
	close  func(context.Context) error
}

func openCollections(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*collections, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("dev migrations: %w", err)
		}
		c := sqlCollections(client.DB(), cfg.Store.CallTimeout)
		c.pinger = client
		c.close = func(context.Context) error { return client.Close() }
		return c, nil
	case config.StoreBackendMongo:
		client, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("bootstrap mongo: %w", err)
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "database", cfg.Mongo.Database), "mongo connection established")
		}
		c := mongoCollections(client.Database(), cfg.Store.CallTimeout)
		c.pinger = client
		c.close = client.Close
		return c, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func sqlCollections(conn *gorm.DB, timeout time.Duration) *collections {
	return &collections{
		users:          store.WithTimeout(gormstore.New[models.User](conn, store.CollectionUsers), timeout),
		products:       store.WithTimeout(gormstore.New[models.Product](conn, store.CollectionProducts), timeout),
		sellers:        store.WithTimeout(gormstore.New[models.Seller](conn, store.CollectionSellers), timeout),
		orders:         store.WithTimeout(gormstore.New[models.Order](conn, store.CollectionOrders), timeout),
		invoices:       store.WithTimeout(gormstore.New[models.Invoice](conn, store.CollectionInvoice), timeout),
		appInfo:        store.WithTimeout(gormstore.New[models.AppInfo](conn, store.CollectionAppInfo), timeout),
		paymentMethods: store.WithTimeout(gormstore.New[models.PaymentMethod](conn, store.CollectionPaymentMethods), timeout),
	}
}

func mongoCollections(database *mongo.Database, timeout time.Duration) *collections {
	return &collections{
		users:          store.WithTimeout(mongostore.New[models.User](database, store.CollectionUsers), timeout),
		products:       store.WithTimeout(mongostore.New[models.Product](database, store.CollectionProducts), timeout),
		sellers:        store.WithTimeout(mongostore.New[models.Seller](database, store.CollectionSellers), timeout),
		orders:         store.WithTimeout(mongostore.New[models.Order](database, store.CollectionOrders), timeout),
		invoices:       store.WithTimeout(mongostore.New[models.Invoice](database, store.CollectionInvoice), timeout),
		appInfo:        store.WithTimeout(mongostore.New[models.AppInfo](database, store.CollectionAppInfo), timeout),
		paymentMethods: store.WithTimeout(mongostore.New[models.PaymentMethod](database, store.CollectionPaymentMethods), timeout),
	}
}
