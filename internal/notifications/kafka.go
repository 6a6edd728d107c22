package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes order events to a topic keyed by seller id.
type Kafka struct {
	writer messageWriter
	logg   *logger.Logger
}

func NewKafka(w messageWriter, logg *logger.Logger) (*Kafka, error) {
	if w == nil {
		return nil, errors.New("kafka writer required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Kafka{writer: w, logg: logg}, nil
}

// NewKafkaWriter builds a synchronous writer for the configured orders topic.
func NewKafkaWriter(cfg config.KafkaConfig) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers required")
	}
	if cfg.OrdersTopic == "" {
		return nil, errors.New("kafka orders topic required")
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func (n *Kafka) OrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	event, data, err := encode(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.SellerID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", EventOrderPlaced, err)
	}
	n.logg.Debug(n.logg.WithField(ctx, "event_id", event.EventID), "order event written")
	return nil
}

func (n *Kafka) Close() error {
	return n.writer.Close()
}
