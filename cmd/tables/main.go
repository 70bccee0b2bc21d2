package main

import (
	blackouthandler "tably/internal/blackouts/handler"
	blackoutrepo "tably/internal/blackouts/repository"
	blackoutservice "tably/internal/blackouts/service"
	blackoutvalidator "tably/internal/blackouts/validator"
	reservationrepo "tably/internal/reservations/repository"
	"tably/internal/tables/handler"
	"tably/internal/tables/repository"
	"tably/internal/tables/service"
	"tably/internal/tables/validator"
	"tably/pkg/app"
	"tably/pkg/clock"
	"tably/pkg/config"
)

const ServiceName = "tables"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Tables service")
	tableService, blackoutService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewTableHandler(tableService, cfg.Log),
		blackouthandler.NewBlackoutHandler(blackoutService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.TableService, blackoutservice.BlackoutService) {
	tableRepo := repository.NewMongoTableRepository(cfg)
	// The reservations repository backs the maintenance guard: a table with
	// a confirmed reservation today cannot be taken out of service.
	reservationRepo := reservationrepo.NewMongoReservationRepository(cfg)
	tableService := service.NewTableService(
		tableRepo,
		reservationRepo,
		validator.NewTableValidator(cfg.Log),
		clock.SystemClock{},
		cfg,
	)

	blackoutRepo := blackoutrepo.NewMongoBlackoutRepository(cfg)
	blackoutService := blackoutservice.NewBlackoutService(
		blackoutRepo,
		blackoutvalidator.NewBlackoutValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Table and blackout services initialized", "database", cfg.MongoDatabaseName)
	return tableService, blackoutService
}
