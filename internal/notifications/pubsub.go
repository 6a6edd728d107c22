package notifications

import (
	"context"
	"errors"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
)

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// PubSub publishes order events to a Google Pub/Sub topic.
type PubSub struct {
	publisher publisher
	logg      *logger.Logger
}

func NewPubSub(p publisher, logg *logger.Logger) (*PubSub, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &PubSub{publisher: p, logg: logg}, nil
}

// NewGCPPublisher adapts a Pub/Sub v2 publisher handle.
func NewGCPPublisher(p *gcppubsub.Publisher) publisher {
	if p == nil {
		return nil
	}
	return &gcpPublisher{Publisher: p}
}

func (n *PubSub) OrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	event, data, err := encode(event)
	if err != nil {
		return err
	}
	msg := &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_id":   event.EventID,
			"event_type": EventOrderPlaced,
			"seller_id":  event.SellerID,
		},
	}
	serverID, err := n.publisher.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderPlaced, err)
	}
	n.logg.Debug(n.logg.WithFields(ctx, map[string]any{
		"event_id":   event.EventID,
		"message_id": serverID,
	}), "order event published")
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.Publisher.Publish(ctx, msg)
}
