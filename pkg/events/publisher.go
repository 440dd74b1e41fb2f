package events

import (
	"context"

	"slotline/pkg/kafka"
	kafka_config "slotline/pkg/kafka/config"
	"slotline/pkg/logger"
	"slotline/pkg/model"
)

const EventTypePromotion = "booking.promoted"

// Publisher dispatches promotion events produced by the booking engine.
// The engine itself never performs I/O; it returns the event and the shell
// hands it here.
type Publisher interface {
	PublishPromotion(ctx context.Context, event *model.PromotionEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(cfg *kafka_config.Config, topic, dlqTopic, source string, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, topic, dlqTopic)
	if err != nil {
		return nil, err
	}
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) PublishPromotion(ctx context.Context, event *model.PromotionEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.ResourceID).
		WithValue(event).
		WithEventType(EventTypePromotion).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish promotion event",
			"resource_id", event.ResourceID,
			"booking_id", event.BookingID,
			"error", err,
		)
		return err
	}

	p.log.Info("Promotion event published",
		"resource_id", event.ResourceID,
		"booking_id", event.BookingID,
		"position", event.Position,
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// logPublisher is the fallback when no brokers are configured. Promotion
// events still surface in the service log for operators.
type logPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) Publisher {
	return &logPublisher{log: log}
}

func (p *logPublisher) PublishPromotion(_ context.Context, event *model.PromotionEvent) error {
	p.log.Info("Booking promoted from queue to active",
		"resource_id", event.ResourceID,
		"booking_id", event.BookingID,
		"position", event.Position,
		"promoted_at", event.PromotedAt,
	)
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}
