package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dlr1251/chimeneasluque/internal/api"
	"github.com/dlr1251/chimeneasluque/internal/chat"
	"github.com/dlr1251/chimeneasluque/internal/config"
	"github.com/dlr1251/chimeneasluque/internal/database"
	"github.com/dlr1251/chimeneasluque/internal/domain"
	"github.com/dlr1251/chimeneasluque/internal/events"
	"github.com/dlr1251/chimeneasluque/internal/gallery"
	"github.com/dlr1251/chimeneasluque/internal/logging"
	"github.com/dlr1251/chimeneasluque/internal/metrics"
	"github.com/dlr1251/chimeneasluque/internal/repository"
	"github.com/dlr1251/chimeneasluque/internal/service"
	"github.com/dlr1251/chimeneasluque/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := logging.Component(baseLogger, "api-main")

	metrics.Register()

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := initRateLimiter(ctx, cfg, &logger)

	eventBus := events.NewEventBus()
	subscribeReservationEvents(eventBus, &logger)

	exportWorker := worker.NewExportWorker(db, cfg.Exports.Path, worker.RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  2 * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
	}, &logger)
	exportWorker.Start(ctx)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	reservationService := service.NewReservationService(db, cfg.Schedule.Policy(), eventBus, exportWorker, &logger)

	var provider chat.Completer
	if client := chat.NewXAIClient(cfg.Chat); client != nil {
		provider = client
	}
	chatService := chat.NewService(provider, time.Duration(cfg.Chat.TimeoutSeconds)*time.Second, &logger)
	galleryService := gallery.NewService(cfg.Gallery.Root, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewHTTPServer(api.Config{
		Port:           cfg.Server.Port,
		ChatRateLimit:  cfg.Chat.RateLimitMessages,
		ChatRateWindow: time.Duration(cfg.Chat.RateLimitWindow) * time.Second,
	}, reservationService, chatService, galleryService, limiter, &logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	exportWorker.Wait()
	return nil
}

// initRateLimiter prefers Redis so chat limits survive restarts, with an
// in-memory fallback when Redis is absent or unreachable.
func initRateLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.RateLimitRepository {
	memory := repository.NewMemoryRateLimiter()
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory rate limiter")
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := repository.Ping(pingCtx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable at startup, failover will retry")
	}

	return repository.NewFailoverRateLimiter(repository.NewRedisRateLimiter(client), memory, logger)
}

func subscribeReservationEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventReservationCreated, func(event *events.Event) error {
		var payload events.ReservationEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		logger.Info().
			Str("reservation_id", payload.ReservationID).
			Str("date", payload.Date).
			Str("time", payload.Time).
			Str("product_type", payload.ProductType).
			Msg("reservation created")
		return nil
	})
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}
