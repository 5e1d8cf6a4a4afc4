package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexeyDemidow/restaurant-api-service/config"
	"github.com/AlexeyDemidow/restaurant-api-service/controllers"
	"github.com/AlexeyDemidow/restaurant-api-service/database"
	"github.com/AlexeyDemidow/restaurant-api-service/kds"
	"github.com/AlexeyDemidow/restaurant-api-service/router"
	"github.com/AlexeyDemidow/restaurant-api-service/services"
	"github.com/AlexeyDemidow/restaurant-api-service/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	utils.InitLogger(cfg.LogLevel)
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg, utils.InfoLogger)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	store := database.NewStore(db)
	if err := store.Migrate(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Printf("AutoMigrate completed (driver=%s)", cfg.DBDriver)

	hub := kds.NewHub(utils.InfoLogger)
	defer hub.Close()

	opts := []services.Option{services.WithLogger(utils.InfoLogger)}

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		opts = append(opts, services.WithLocker(services.NewRedisLocker(rdb, cfg.LockTTL, utils.InfoLogger)))
		utils.InfoLogger.Printf("Using redis table locks at %s", cfg.RedisAddr)
	}

	publishers := services.MultiPublisher{hub}
	if cfg.AMQPURL != "" {
		amqpPub := services.NewAMQPPublisher(cfg.AMQPURL, cfg.EventQueue)
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
		utils.InfoLogger.Printf("Publishing events to queue %s", cfg.EventQueue)
	}
	opts = append(opts, services.WithPublisher(publishers))

	svc := services.NewReservationService(store, opts...)

	routerOpts := router.Options{
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}
	if cfg.AuthEnabled {
		secret := []byte(cfg.JWTSecret)
		routerOpts.JWTSecret = secret
		routerOpts.Auth = controllers.NewAuthController(cfg.AdminUsername, cfg.AdminPasswordHash, secret, cfg.TokenTTL)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(svc, hub, routerOpts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Graceful shutdown failed: %v", err)
	}
}
