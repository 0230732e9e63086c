package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gigflow-marketplace-service/internal/adapters/db"
	"gigflow-marketplace-service/internal/adapters/httpapi"
	"gigflow-marketplace-service/internal/adapters/notifier"
	"gigflow-marketplace-service/internal/adapters/redis"
	"gigflow-marketplace-service/internal/adapters/ws"
	"gigflow-marketplace-service/internal/app"
	"gigflow-marketplace-service/internal/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting GigFlow Marketplace Service...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	log.Info().Msg("Database connection established")

	// Apply schema migrations, including the (gig_id, freelancer_id)
	// uniqueness constraint on bids
	if err := db.RunMigrations(dbConn, cfg.Database.MigrationsURL, cfg.Database.Name); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	log.Info().Msg("Database migrations applied")

	// Create repositories
	repoFactory := db.NewRepositoryFactory(dbConn)
	gigRepo := repoFactory.GetGigRepository()
	bidRepo := repoFactory.GetBidRepository()
	userRepo := repoFactory.GetUserRepository()

	log.Info().Msg("Database repositories initialized")

	// Create Redis client
	redisClient := redis.NewClient(cfg)
	if err := redis.Ping(redisClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Redis connection established")

	// Create Redis notifier
	redisNotifier := notifier.NewNotifier(notifier.RedisNotifierParams{
		RedisClient: redisClient,
		Logger:      log.Logger,
	})
	log.Info().Msg("Redis notifier initialized")

	// Create business services
	gigService := app.NewGigService(app.GigServiceParams{
		GigRepo:  gigRepo,
		UserRepo: userRepo,
		Logger:   log.Logger,
	})
	bidService := app.NewBidService(app.BidServiceParams{
		BidRepo:  bidRepo,
		GigRepo:  gigRepo,
		UserRepo: userRepo,
		Notifier: redisNotifier,
		Logger:   log.Logger,
	})

	log.Info().Msg("Business services initialized")

	// Create WebSocket session handler
	wsHandler := ws.NewHandler(ws.WsHandlerParams{
		Config:   cfg,
		Notifier: redisNotifier,
		Logger:   log.Logger,
	})

	// Assemble HTTP surface
	router := httpapi.NewRouter(httpapi.RouterParams{
		GigService: gigService,
		BidService: bidService,
		WsHandler:  wsHandler.HandleWebSocket,
		Logger:     log.Logger,
	})

	server := httpapi.NewServer(httpapi.ServerParams{
		Config:  cfg,
		Handler: router,
		Logger:  log.Logger,
	})

	log.Info().Msg("HTTP server initialized")

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start HTTP server")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	if err := redisNotifier.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing Redis notifier")
	}

	log.Info().Msg("Graceful shutdown completed")
}

func initLogging(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.Logging.Format == "json" {
		// JSON format (default)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Console format for development
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global logger
	zerolog.DefaultContextLogger = &log.Logger
}
