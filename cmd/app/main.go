package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eyalfuks51/wedding-Eyal/config"
	"github.com/eyalfuks51/wedding-Eyal/internal/api"
	"github.com/eyalfuks51/wedding-Eyal/internal/cache"
	"github.com/eyalfuks51/wedding-Eyal/internal/repository"
	"github.com/eyalfuks51/wedding-Eyal/internal/services"
	"github.com/eyalfuks51/wedding-Eyal/internal/sheets"
	"github.com/eyalfuks51/wedding-Eyal/internal/whatsapp"
	"github.com/eyalfuks51/wedding-Eyal/internal/worker"
)

// @title           Wedding Invitation Service
// @version         1.0
// @description     Serves the invitation pages and runs the WhatsApp reminder automation

// @host      localhost:8080
// @BasePath  /api
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("component", "app").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	dbPool, redisClient, err := setupDependencies(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup dependencies")
	}
	defer dbPool.Close()
	defer redisClient.Close()
	log.Info().Msg("database and redis connections established")

	jobManager, server := buildApplication(dbPool, redisClient, &wg, ctx, cfg)

	startBackgroundJob(&wg, jobManager, ctx, log)
	startServer(server, log)

	waitForShutdown(server, cancel, &wg, log)

	log.Info().Msg("server gracefully stopped")
}

func setupDependencies(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *redis.Client, error) {
	dbPool, err := repository.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	redisClient, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to establish Redis connection: %w", err)
	}

	return dbPool, redisClient, nil
}

func buildApplication(dbPool *pgxpool.Pool, redisClient *redis.Client, wg *sync.WaitGroup, appCtx context.Context, cfg *config.Config) (*worker.JobManager, *http.Server) {
	eventRepository := repository.NewEventRepository(dbPool)
	settingRepository := repository.NewSettingRepository(dbPool)
	invitationRepository := repository.NewInvitationRepository(dbPool)
	messageLogRepository := repository.NewMessageLogRepository(dbPool)
	eventCache := cache.NewEventCache(redisClient)

	sender := whatsapp.NewClient(whatsapp.Config{
		IDInstance:    cfg.GreenAPIIDInstance,
		TokenInstance: cfg.GreenAPITokenInstance,
	})
	mirror := sheets.NewClient(sheets.Config{
		ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
		PrivateKey:          cfg.GooglePrivateKey,
	})

	automationService := services.NewAutomationService(settingRepository, invitationRepository, messageLogRepository, cfg.FrontendBaseURL)
	reminderService := services.NewReminderService(eventRepository, invitationRepository, sender)
	outboxService := services.NewOutboxService(messageLogRepository, sender, cfg.OutboxBatchSize)
	eventService := services.NewEventService(eventRepository, invitationRepository, eventCache, mirror)
	invitationService := services.NewInvitationService(eventRepository, invitationRepository)

	jobManager := worker.NewJobManager(cfg.JobInterval, automationService, outboxService, reminderService, wg)
	apiHandler := api.NewHandler(automationService, reminderService, eventService, invitationService, sender, jobManager, appCtx)

	router := api.NewRouter(apiHandler)
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return jobManager, server
}

func startBackgroundJob(wg *sync.WaitGroup, jobManager *worker.JobManager, ctx context.Context, log zerolog.Logger) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := jobManager.Start(ctx); err != nil {
			log.Error().Err(err).Msg("unexpected error while starting job")
		}
	}()
	log.Info().Msg("background job started")
}

func startServer(server *http.Server, log zerolog.Logger) {
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("unexpected error while starting server")
		}
	}()
}

func waitForShutdown(server *http.Server, cancelApp context.CancelFunc, wg *sync.WaitGroup, log zerolog.Logger) {
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	<-shutdownChan

	log.Info().Msg("shutting down gracefully")

	// wait HTTP server 15 seconds to shut down
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("unexpected error while shutting down server")
	}

	cancelApp()
	wg.Wait()
}
