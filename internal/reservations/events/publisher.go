package events

import (
	"context"
	"time"

	"tably/pkg/kafka"
	kafka_config "tably/pkg/kafka/config"
	kafka_middleware "tably/pkg/kafka/middleware"
	"tably/pkg/logger"
	"tably/pkg/model"
)

const (
	Topic    = "tably.reservations"
	DLQTopic = "tably.reservations.dlq"

	SchemaVersion = "1"

	TypeCreated       = "reservation.created"
	TypeUpdated       = "reservation.updated"
	TypeCancelled     = "reservation.cancelled"
	TypeStatusChanged = "reservation.status_changed"
)

// ReservationEvent is the payload written for every lifecycle change.
// Consumers key on restaurant_id, so one restaurant's events stay ordered
// within a partition.
type ReservationEvent struct {
	Type            string    `json:"type"`
	ReservationID   string    `json:"reservation_id"`
	RestaurantID    string    `json:"restaurant_id"`
	TableID         string    `json:"table_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	ReservationDate string    `json:"reservation_date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	GuestCount      int       `json:"guest_count"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, reservation *model.Reservation, reason string)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewKafkaPublisher builds the lifecycle event publisher. Publishing is best
// effort: a broker outage must never fail the reservation write that already
// committed, so errors are logged and dropped (the producer's DLQ catches
// what it can).
func NewKafkaPublisher(cfg *kafka_config.Config, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, Topic, DLQTopic)
	if err != nil {
		return nil, err
	}
	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
		producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
	}
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, reservation *model.Reservation, reason string) {
	event := ReservationEvent{
		Type:            eventType,
		ReservationID:   reservation.ID,
		RestaurantID:    reservation.RestaurantID,
		TableID:         reservation.TableID,
		CustomerName:    reservation.CustomerName,
		CustomerPhone:   reservation.CustomerPhone,
		ReservationDate: reservation.ReservationDate,
		StartTime:       reservation.StartTime,
		EndTime:         reservation.EndTime,
		GuestCount:      reservation.GuestCount,
		Status:          string(reservation.Status),
		Reason:          reason,
		OccurredAt:      time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(reservation.RestaurantID).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource("reservations").
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops all events. Used when Kafka is not configured and in
// tests.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType string, reservation *model.Reservation, reason string) {
}

func (NopPublisher) Close() error { return nil }
