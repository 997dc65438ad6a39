package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lagreelink/marketplace-server/internal/config"
	"github.com/lagreelink/marketplace-server/internal/database"
	"github.com/lagreelink/marketplace-server/internal/handler"
	"github.com/lagreelink/marketplace-server/internal/jobs"
	"github.com/lagreelink/marketplace-server/internal/middleware"
	"github.com/lagreelink/marketplace-server/internal/redis"
	"github.com/lagreelink/marketplace-server/internal/repository"
	"github.com/lagreelink/marketplace-server/internal/service"
	"github.com/lagreelink/marketplace-server/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	profileRepo := repository.NewProfileRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	instructorRepo := repository.NewInstructorRepository(db.DB)
	studioRepo := repository.NewStudioRepository(db.DB)
	availabilityRepo := repository.NewAvailabilityRepository(db.DB)
	convRepo := repository.NewConversationRepository(db.DB)
	messageRepo := repository.NewMessageRepository(db.DB)
	jobRepo := repository.NewJobRepository(db.DB)
	applicationRepo := repository.NewApplicationRepository(db.DB)
	savedJobRepo := repository.NewSavedJobRepository(db.DB)

	broker := sse.NewBroker(redisClient)
	defer broker.Close()

	authService := service.NewAuthService(profileRepo, sessionRepo, cfg.BcryptCost, cfg.SessionTTL())
	directoryService := service.NewDirectoryService(instructorRepo, studioRepo)
	availabilityService := service.NewAvailabilityService(db, availabilityRepo, loc)
	convService := service.NewConversationService(convRepo)
	messageService := service.NewMessageService(db, convRepo, messageRepo, broker)
	jobService := service.NewJobService(jobRepo, studioRepo, savedJobRepo)
	applicationService := service.NewApplicationService(applicationRepo, jobRepo, studioRepo, instructorRepo)

	authMiddleware := middleware.NewAuthMiddleware(profileRepo, sessionRepo)
	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient.Client)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	authHandler := handler.NewAuthHandler(authService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService, directoryService)
	conversationHandler := handler.NewConversationHandler(convService, messageService)
	eventsHandler := handler.NewEventsHandler(broker)
	jobHandler := handler.NewJobHandler(jobService, applicationService)
	applicationHandler := handler.NewApplicationHandler(applicationService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Use(rateLimitMiddleware.Handler)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/me", directoryHandler.Me)
			r.Get("/events", eventsHandler.ServeHTTP)

			r.Mount("/instructors", directoryHandler.InstructorRoutes())
			r.Mount("/studios", directoryHandler.StudioRoutes())
			r.Mount("/availability", availabilityHandler.Routes())
			r.Mount("/conversations", conversationHandler.Routes())
			r.Mount("/jobs", jobHandler.Routes())
			r.Mount("/applications", applicationHandler.Routes())
		})
	})

	cleanupJob := jobs.NewCleanupJob(sessionRepo, availabilityRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
