package notifier

import (
	"context"
	"errors"

	"tably/internal/reservations/events"
	waitlisterrors "tably/internal/waitlist/errors"
	"tably/internal/waitlist/repository"
	"tably/pkg/kafka"
	kafka_config "tably/pkg/kafka/config"
	kafka_middleware "tably/pkg/kafka/middleware"
	"tably/pkg/logger"
	"tably/pkg/model"
)

const (
	ConsumerGroup = "tably.waitlist-notifier"
)

// Notifier consumes reservation lifecycle events and, when a cancellation
// frees a slot, moves the head of that day's waitlist queue to NOTIFIED.
// Actually contacting the guest (SMS, email) is a downstream concern keyed
// off the status change.
type Notifier struct {
	repo     repository.WaitlistRepository
	consumer *kafka.Consumer
	log      *logger.Logger
}

func New(cfg *kafka_config.Config, repo repository.WaitlistRepository, log *logger.Logger) (*Notifier, error) {
	n := &Notifier{
		repo: repo,
		log:  log,
	}

	consumer, err := kafka.NewConsumer(cfg, events.Topic, ConsumerGroup, events.DLQTopic, n.handle)
	if err != nil {
		return nil, err
	}
	if cfg.EnableMiddleware {
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))
	}
	n.consumer = consumer
	return n, nil
}

func (n *Notifier) Start(ctx context.Context) error {
	n.log.Info("Waitlist notifier started", "topic", events.Topic, "group", ConsumerGroup)
	return n.consumer.Start(ctx)
}

func (n *Notifier) Close() error {
	return n.consumer.Close()
}

func (n *Notifier) handle(ctx context.Context, msg kafka.Message) error {
	if msg.GetEventType() != events.TypeCancelled {
		return nil
	}

	var event events.ReservationEvent
	if err := msg.DecodeValue(&event); err != nil {
		n.log.Error("Failed to decode reservation event", "event_id", msg.GetEventID(), "error", err)
		// Malformed payloads are not retryable.
		return nil
	}

	entry, err := n.repo.FindOldestWaiting(ctx, event.RestaurantID, event.ReservationDate)
	if err != nil {
		if errors.Is(err, waitlisterrors.ErrNotFound) {
			return nil
		}
		n.log.Error("Failed to look up waitlist queue",
			"restaurant_id", event.RestaurantID,
			"date", event.ReservationDate,
			"error", err,
		)
		return err
	}

	if err := n.repo.UpdateStatus(ctx, entry.ID, model.WaitlistNotified); err != nil {
		n.log.Error("Failed to notify waitlist entry", "id", entry.ID, "error", err)
		return err
	}

	n.log.Info("Waitlist entry notified of freed slot",
		"id", entry.ID,
		"restaurant_id", event.RestaurantID,
		"date", event.ReservationDate,
		"freed_start_time", event.StartTime,
	)
	return nil
}
