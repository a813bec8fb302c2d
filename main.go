package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hr-onboarding/internal/config"
	"hr-onboarding/internal/db"
	"hr-onboarding/internal/events"
	"hr-onboarding/internal/handlers"
	"hr-onboarding/internal/logger"
	"hr-onboarding/internal/repository/offboarding"
	"hr-onboarding/internal/repository/onboarding"
	"hr-onboarding/internal/router"
	"hr-onboarding/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger.InitLogging(cfg.LogLevel, cfg.LogFile)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(rootCtx, cfg); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg config.AppConfig) error {
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.MigrateUP(ctx, pool); err != nil {
		return err
	}

	limits := storage.Limits{ProfilePic: cfg.MaxProfilePicBytes, Document: cfg.MaxDocumentBytes}
	stash, err := storage.New(cfg.UploadDir, limits)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.KafkaEnabled() {
		sp, err := events.NewSyncProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		kp := events.NewKafkaPublisher(sp, cfg.KafkaTopic, "hr-onboarding", log.Logger)
		defer func() { _ = kp.Close() }()
		publisher = kp
	} else {
		log.Info().Msg("KAFKA_BROKERS not set, events disabled")
	}

	onboardingRepo := onboarding.NewRepository(pool, onboarding.Allocator{Prefix: cfg.EmpCodePrefix, Width: cfg.EmpCodeWidth})
	offboardingRepo := offboarding.NewRepository(pool)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	router.Setup(r, router.Deps{
		Onboarding:     handlers.NewOnboardingHandler(onboardingRepo, stash, publisher, limits),
		Offboarding:    handlers.NewOffboardingHandler(offboardingRepo, publisher),
		DB:             pool,
		UploadDir:      stash.Dir(),
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
