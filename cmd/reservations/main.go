package main

import (
	blackoutrepo "tably/internal/blackouts/repository"
	"tably/internal/reservations/events"
	"tably/internal/reservations/handler"
	"tably/internal/reservations/repository"
	"tably/internal/reservations/service"
	"tably/internal/reservations/validator"
	tablerepo "tably/internal/tables/repository"
	"tably/pkg/app"
	"tably/pkg/clock"
	"tably/pkg/config"
	kafka_config "tably/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")
	reservationService, availabilityService, publisher := initServices(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.ReservationService, service.AvailabilityService, events.Publisher) {
	sysClock := clock.SystemClock{}

	tableRepo := tablerepo.NewMongoTableRepository(cfg)
	blackoutRepo := blackoutrepo.NewMongoBlackoutRepository(cfg)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	slotLockRepo := repository.NewMongoSlotLockRepository(cfg)

	availabilityService := service.NewAvailabilityService(
		tableRepo,
		blackoutRepo,
		reservationRepo,
		sysClock,
		cfg,
	)

	publisher := newPublisher(cfg)
	reservationValidator := validator.NewReservationValidator(cfg.Log, cfg.MaxPartySize)
	reservationService := service.NewReservationService(
		reservationRepo,
		slotLockRepo,
		availabilityService,
		reservationValidator,
		publisher,
		sysClock,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, availabilityService, publisher
}

// newPublisher falls back to a no-op publisher when the broker is not
// reachable at startup. Reservations must keep working without Kafka.
func newPublisher(cfg *config.Config) events.Publisher {
	kafkaCfg := kafka_config.Load()
	publisher, err := events.NewKafkaPublisher(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Kafka publisher unavailable, reservation events will be dropped", "error", err)
		return events.NopPublisher{}
	}
	return publisher
}
