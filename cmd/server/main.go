package main // Entry point package

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-listings/internal/config"
	"github.com/iliyamo/movie-listings/internal/database"
	"github.com/iliyamo/movie-listings/internal/handler"
	"github.com/iliyamo/movie-listings/internal/ingest"
	"github.com/iliyamo/movie-listings/internal/logging"
	"github.com/iliyamo/movie-listings/internal/middleware"
	"github.com/iliyamo/movie-listings/internal/queue"
	"github.com/iliyamo/movie-listings/internal/report"
	"github.com/iliyamo/movie-listings/internal/repository"
	"github.com/iliyamo/movie-listings/internal/router"
	"github.com/iliyamo/movie-listings/internal/service"
	"github.com/iliyamo/movie-listings/internal/tmsapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("load config")
	}
	log, closer := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
	}

	theatres := repository.NewTheatreRecordRepo(db)
	airings := repository.NewAiringRecordRepo(db)
	client := tmsapi.NewClient(log, cfg.APIBaseURL, cfg.APISecret, cfg.APITimeout, nil)
	ingester := ingest.NewService(log, client, theatres, airings, ingest.Options{SkipMalformed: cfg.SkipMalformed})

	ingestions := &handler.IngestionHandler{Ingester: ingester}
	if cfg.EventsEnabled {
		ingestions.Events = service.NewEventPublisher(log, cfg.RabbitURL)
		go func() {
			if err := queue.StartIngestionConsumer(ctx, log, cfg.RabbitURL, cfg.EventLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("ingestion consumer stopped")
			}
		}()
	}

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn().Msg("redis unavailable; report cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.WithLogger(log))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).
				Dur("latency", v.Latency).AnErr("error", v.Error).Msg("request")
			return nil
		},
	}))
	router.Register(e, router.Handlers{
		Health:     &handler.HealthHandler{DB: db},
		Ingestions: ingestions,
		Reports:    &handler.ReportHandler{Ranker: report.NewAggregator(theatres, airings)},
	}, cfg.JWTSecret, rdb)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
