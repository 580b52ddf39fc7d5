package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"helpyhands-market-service/internal/adapters/auth"
	"helpyhands-market-service/internal/adapters/broadcaster"
	"helpyhands-market-service/internal/adapters/db"
	"helpyhands-market-service/internal/adapters/notifier"
	"helpyhands-market-service/internal/adapters/redis"
	"helpyhands-market-service/internal/adapters/sessions"
	"helpyhands-market-service/internal/adapters/ws"
	"helpyhands-market-service/internal/app"
	"helpyhands-market-service/internal/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting HelpyHands Market Service...")

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

	// Create repositories
	repoFactory := db.NewRepositoryFactory(dbConn)
	principalRepo := repoFactory.GetPrincipalRepository()
	listingRepo := repoFactory.GetListingRepository()
	offerRepo := repoFactory.GetOfferRepository()

	log.Info().Msg("Database repositories initialized")

	// Create Redis client
	redisClient := redis.NewClient(cfg)
	if err := redis.PingRedis(redisClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Redis connection established")

	sessionRepo := sessions.NewRedisSessionRepository(redisClient, cfg.Auth.SessionTTL)

	// Create Redis broadcaster
	redisBroadcaster := broadcaster.NewBroadcaster(broadcaster.RedisBroadcasterParams{
		RedisClient: redisClient,
		Logger:      log.Logger,
	})
	log.Info().Msg("Redis broadcaster initialized")

	// Create auth and notification services
	tokenService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	passwordService := auth.NewPasswordService()
	smsNotifier := notifier.NewTwilioNotifier(notifier.TwilioNotifierParams{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
		Logger:     log.Logger,
	})

	otpService := app.NewOtpService(app.OtpServiceParams{
		RedisClient: redisClient,
		Notifier:    smsNotifier,
		Config:      cfg.OTP,
		Logger:      log.Logger,
	})

	// Create business services
	identityService := app.NewIdentityService(app.IdentityServiceParams{
		PrincipalRepo: principalRepo,
		SessionRepo:   sessionRepo,
		PasswordSvc:   passwordService,
		TokenSvc:      tokenService,
		Otp:           otpService,
		Notifier:      smsNotifier,
		Broadcaster:   redisBroadcaster,
		SessionTTL:    cfg.Auth.SessionTTL,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		Logger:        log.Logger,
	})
	listingService := app.NewListingService(app.ListingServiceParams{
		ListingRepo: listingRepo,
		Broadcaster: redisBroadcaster,
		Logger:      log.Logger,
	})
	offerService := app.NewOfferService(app.OfferServiceParams{
		OfferRepo:   offerRepo,
		ListingRepo: listingRepo,
		Broadcaster: redisBroadcaster,
		Logger:      log.Logger,
	})

	log.Info().Msg("Business services initialized")

	wsServer := ws.NewServer(ws.ServerParams{
		Config:          cfg,
		IdentityService: identityService,
		ListingService:  listingService,
		OfferService:    offerService,
		Broadcaster:     redisBroadcaster,
		Logger:          log.Logger,
	})

	log.Info().Msg("WebSocket server initialized")

	// Start WebSocket server
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting WebSocket server")
		if err := wsServer.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start WebSocket server")
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

	// Stop WebSocket server
	if err := wsServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping WebSocket server")
	}

	// Close broadcaster and its Redis connections
	if err := redisBroadcaster.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing broadcaster")
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
