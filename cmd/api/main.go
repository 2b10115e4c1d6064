package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/eco-campus/ecotrack-api/internal/config"
	"github.com/eco-campus/ecotrack-api/internal/database"
	"github.com/eco-campus/ecotrack-api/internal/handler"
	"github.com/eco-campus/ecotrack-api/internal/middleware"
	"github.com/eco-campus/ecotrack-api/internal/models"
	"github.com/eco-campus/ecotrack-api/internal/repository"
	"github.com/eco-campus/ecotrack-api/internal/router"
	"github.com/eco-campus/ecotrack-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.RecyclingLog{}, &models.Notification{}, &models.Event{}, &models.EventParticipant{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewRecyclingLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	eventRepo := repository.NewEventRepository(db)

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationStream, natsConn, logger)
	notificationService.Start(runCtx)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	logService := service.NewRecyclingLogService(logRepo, validate, notificationService, logger)
	userService := service.NewUserService(userRepo, validate, redisClient, cfg.LeaderboardTTL, logger)
	eventService := service.NewEventService(eventRepo, validate, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	logHandler := handler.NewRecyclingLogHandler(logService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.SSEKeepAlive)
	userHandler := handler.NewUserHandler(userService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         authHandler,
		RecyclingLogHandler: logHandler,
		NotificationHandler: notificationHandler,
		UserHandler:         userHandler,
		EventHandler:        eventHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
