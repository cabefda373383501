package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/eventpage/internal/access"
	"github.com/iliyamo/eventpage/internal/bingo"
	"github.com/iliyamo/eventpage/internal/config"
	"github.com/iliyamo/eventpage/internal/database"
	"github.com/iliyamo/eventpage/internal/guestpage"
	"github.com/iliyamo/eventpage/internal/handler"
	"github.com/iliyamo/eventpage/internal/logging"
	"github.com/iliyamo/eventpage/internal/middleware"
	"github.com/iliyamo/eventpage/internal/queue"
	"github.com/iliyamo/eventpage/internal/repository"
	"github.com/iliyamo/eventpage/internal/router"
	"github.com/iliyamo/eventpage/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.IsDev())

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("migrate")
		}
		logger.Info().Msg("schema applied")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	bingoRepo := repository.NewBingoRepo(db)
	schedule := repository.NewScheduleRepo(db)
	menu := repository.NewMenuRepo(db)
	survey := repository.NewSurveyRepo(db)
	vendors := repository.NewVendorRepo(db)
	photos := repository.NewPhotoRepo(db)
	planning := repository.NewPlanningRepo(db)

	if cfg.BootstrapEmail != "" {
		created, err := users.EnsureSuperAdmin(ctx, cfg.BootstrapEmail, cfg.BootstrapPass, cfg.BcryptCost)
		if err != nil {
			logger.Fatal().Err(err).Msg("bootstrap super admin")
		}
		if created {
			logger.Info().Str("email", cfg.BootstrapEmail).Msg("super admin created")
		}
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn().Msg("redis unavailable, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	publisher := service.NewPublisher(cfg.RabbitURL, logger)
	if cfg.RabbitURL != "" {
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.NotificationsLog, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("consumer stopped")
			}
		}()
	}

	gate := access.NewGate(events, users)
	engine := bingo.NewEngine(bingoRepo, bingo.Options{CenterFree: cfg.BingoCenterFree})
	source := guestpage.RepoSource{
		ScheduleRepo: schedule,
		MenuRepo:     menu,
		SurveyRepo:   survey,
		VendorRepo:   vendors,
		PhotoRepo:    photos,
		BingoRepo:    bingoRepo,
	}

	deps := router.Deps{
		JWTSecret: cfg.JWTSecret,
		Gate:      gate,
		DB:        db,
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Events: &handler.EventHandler{
			Events:      events,
			Provisioner: repository.Provisioner{Events: events, Users: users, Cost: cfg.BcryptCost},
			Publisher:   publisher,
			BaseURL:     cfg.PublicBaseURL,
			Logger:      logging.Component("events"),
		},
		Content: &handler.ContentHandler{
			Schedule: schedule,
			Menu:     menu,
			Vendors:  vendors,
			Survey:   survey,
			Photos:   photos,
		},
		Planning: &handler.PlanningHandler{Planning: planning},
		Cards:    &handler.BingoCardHandler{Cards: bingoRepo},
		Public: &handler.PublicHandler{
			Events:     events,
			Gate:       gate,
			Composer:   guestpage.NewComposer(source),
			Content:    source,
			PhotoStore: photos,
			Responses:  survey,
			Bingo:      engine,
			Publisher:  publisher,
			Logger:     logging.Component("guest"),
		},
	}
	if rdb != nil {
		deps.PageCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		deps.RateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(middleware.RequestLogger(logging.Component("http")))
	router.Register(e, deps)

	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("stopped")
}
