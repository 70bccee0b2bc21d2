package main

import (
	"context"

	"tably/internal/waitlist/handler"
	"tably/internal/waitlist/notifier"
	"tably/internal/waitlist/repository"
	"tably/internal/waitlist/service"
	"tably/internal/waitlist/validator"
	"tably/pkg/app"
	"tably/pkg/config"
	kafka_config "tably/pkg/kafka/config"
)

const ServiceName = "waitlist"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Waitlist service")
	waitlistRepo := repository.NewMongoWaitlistRepository(cfg)
	waitlistService := service.NewWaitlistService(
		waitlistRepo,
		validator.NewWaitlistValidator(cfg.Log),
		cfg,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startNotifier(ctx, cfg, waitlistRepo)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewWaitlistHandler(waitlistService, cfg.Log))
	serverApp.Run()
}

// startNotifier runs the cancellation consumer in the background. The
// waitlist API stays up even when the broker is unreachable.
func startNotifier(ctx context.Context, cfg *config.Config, repo repository.WaitlistRepository) {
	n, err := notifier.New(kafka_config.Load(), repo, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Waitlist notifier unavailable, cancellations will not notify waiting guests", "error", err)
		return
	}

	go func() {
		defer func() {
			if err := n.Close(); err != nil {
				cfg.Log.Error("Failed to close waitlist notifier", "error", err)
			}
		}()
		if err := n.Start(ctx); err != nil && ctx.Err() == nil {
			cfg.Log.Error("Waitlist notifier stopped", "error", err)
		}
	}()
}
