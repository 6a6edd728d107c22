package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-checkout/api/controllers"
	"github.com/angelmondragon/storefront-checkout/internal/notifications"
	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/angelmondragon/storefront-checkout/pkg/pubsub"
)

// buildNotifier wires the configured order-event transport. The returned
// pinger is nil when the transport has no health probe.
func buildNotifier(ctx context.Context, cfg *config.Config, logg *logger.Logger) (notifications.Notifier, controllers.Pinger, func() error, error) {
	deps := notifications.Deps{Logger: logg}
	var (
		pinger  controllers.Pinger
		closers []func() error
	)

	switch cfg.Notifier.Kind {
	case config.NotifierPubSub:
		client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("bootstrap pubsub: %w", err)
		}
		publisher := client.OrdersPublisher()
		deps.Publisher = notifications.NewGCPPublisher(publisher)
		pinger = client
		closers = append(closers, func() error {
			publisher.Stop()
			return client.Close()
		})
	case config.NotifierKafka:
		writer, err := notifications.NewKafkaWriter(cfg.Kafka)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("bootstrap kafka: %w", err)
		}
		deps.Writer = writer
		closers = append(closers, writer.Close)
	}

	notifier, err := notifications.New(cfg.Notifier, deps)
	if err != nil {
		for _, c := range closers {
			_ = c()
		}
		return nil, nil, nil, err
	}

	closeAll := func() error {
		var firstErr error
		for _, c := range closers {
			if err := c(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return notifier, pinger, closeAll, nil
}
