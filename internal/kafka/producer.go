package kafka

import (
	"context"
	"fmt"
	"time"

	"encoding/json"

	"skybook/internal/config"
	"skybook/internal/logger"
	"skybook/internal/models"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the payload published on every booking lifecycle change.
type BookingEvent struct {
	Type             string               `json:"type"`
	BookingID        string               `json:"booking_id"`
	BookingReference string               `json:"booking_reference"`
	UserID           string               `json:"user_id"`
	FlightID         string               `json:"flight_id"`
	NumberOfSeats    int                  `json:"number_of_seats"`
	TotalAmount      float64              `json:"total_amount"`
	Status           models.BookingStatus `json:"status"`
	OccurredAt       time.Time            `json:"occurred_at"`
}

// Producer streams booking events. In mock mode events are logged and
// dropped, which keeps local development off a running broker.
type Producer struct {
	writers map[string]*kafka.Writer
	topics  config.TopicConfig
	mock    bool
	log     *logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	p := &Producer{
		writers: make(map[string]*kafka.Writer),
		topics:  cfg.Topics,
		mock:    cfg.MockMode || !cfg.Enabled,
		log:     log,
	}
	if p.mock {
		log.Warn("KAFKA", "producer running in mock mode, events will not reach a broker")
		return p
	}

	for _, topic := range []string{cfg.Topics.BookingCreated, cfg.Topics.BookingConfirmed, cfg.Topics.BookingCancelled} {
		p.writers[topic] = kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.Brokers,
			Topic:   topic,
		})
	}
	return p
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, booking models.Booking) error {
	event := BookingEvent{
		Type:             eventType,
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		UserID:           booking.UserID,
		FlightID:         booking.FlightID,
		NumberOfSeats:    booking.NumberOfSeats,
		TotalAmount:      booking.TotalAmount,
		Status:           booking.Status,
		OccurredAt:       time.Now().UTC(),
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.mock {
		p.log.LogKafka("MOCK", topic, string(msgBytes))
		return nil
	}

	writer, ok := p.writers[topic]
	if !ok {
		return fmt.Errorf("no writer for topic %s", topic)
	}

	p.log.LogKafka("PUBLISH", topic, fmt.Sprintf("booking %s (%s)", booking.ID, eventType))
	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(booking.ID),
		Value: msgBytes,
	})
}

func (p *Producer) PublishBookingCreated(ctx context.Context, booking models.Booking) error {
	return p.publish(ctx, p.topics.BookingCreated, "booking_created", booking)
}

func (p *Producer) PublishBookingConfirmed(ctx context.Context, booking models.Booking) error {
	return p.publish(ctx, p.topics.BookingConfirmed, "booking_confirmed", booking)
}

func (p *Producer) PublishBookingCancelled(ctx context.Context, booking models.Booking) error {
	return p.publish(ctx, p.topics.BookingCancelled, "booking_cancelled", booking)
}

// Close flushes and closes every writer.
func (p *Producer) Close() error {
	var firstErr error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
