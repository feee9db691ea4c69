package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/platefit/fulfillment/config"
	"github.com/platefit/fulfillment/internal/events"
	"github.com/platefit/fulfillment/internal/geo"
	handler "github.com/platefit/fulfillment/internal/handler/http"
	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/middleware"
	"github.com/platefit/fulfillment/internal/repository"
	"github.com/platefit/fulfillment/internal/repository/postgres"
	"github.com/platefit/fulfillment/internal/service"
	"github.com/platefit/fulfillment/internal/worker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fallback signing key for local runs, override with TOKEN_KEY
const defaultTokenKey = "9c2f8a41d0be75043e6be2e06ee07c11"

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	publisher, err := events.NewPublisher(cfg.AMQPURL)
	if err != nil {
		logger.Log.Fatal("Error connecting to broker", zap.Error(err))
	}
	defer publisher.Close()

	tokenKeyHex := cfg.TokenKey
	if tokenKeyHex == "" {
		tokenKeyHex = defaultTokenKey
	}
	tokenKey, err := hex.DecodeString(tokenKeyHex)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	tokens := service.NewJWTTokenService(tokenKey)

	// dependency injection
	orderRepo := repository.NewOrderRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	stageRepo := repository.NewStageRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	finder := geo.NewFinder(rdb)

	stageService := service.NewStageService(orderRepo, stageRepo, historyRepo, publisher)
	assignmentService := service.NewAssignmentService(
		orderRepo, assignmentRepo, historyRepo, finder, stageService, publisher,
		service.AssignmentConfig{
			BroadcastTTL:   cfg.BroadcastTTL,
			DirectTTL:      cfg.DirectTTL,
			SearchRadiusKm: cfg.SearchRadiusKm,
		},
	)
	orderService := service.NewOrderService(orderRepo, assignmentRepo, historyRepo, assignmentService, publisher)
	sweeperService := service.NewSweeperService(orderRepo, assignmentRepo, historyRepo, publisher)
	recoveryService := service.NewRecoveryService(orderRepo, assignmentRepo, historyRepo, assignmentService, cfg.StuckThreshold)

	orderHandler := handler.NewOrderHandler(orderService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	stageHandler := handler.NewStageHandler(stageService)
	adminHandler := handler.NewAdminHandler(sweeperService, recoveryService, orderService, finder, tokens)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	router.Post("/api/orders", orderHandler.CreateOrder())
	router.Get("/api/orders/{orderID}", orderHandler.GetOrder())
	router.Get("/api/orders/{orderID}/history", orderHandler.OrderHistory())
	router.Get("/api/orders/{orderID}/assignments", assignmentHandler.ListOrderAssignments())
	router.Get("/api/orders/{orderID}/stages", stageHandler.ListStages())
	router.Post("/api/orders/{orderID}/cancel", orderHandler.CancelOrder())
	router.Post("/api/orders/{orderID}/pickup", orderHandler.PickUpOrder())
	router.Post("/api/orders/{orderID}/deliver", orderHandler.DeliverOrder())

	// routes that require restaurant authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(tokens))
		group.Get("/api/restaurant/assignments", assignmentHandler.ListOffers())
		group.Post("/api/restaurant/assignments/{assignmentID}/respond", assignmentHandler.RespondAssignment())
		group.Post("/api/orders/{orderID}/stages/advance", stageHandler.AdvanceStage())
	})

	router.Route("/api/admin", func(admin chi.Router) {
		admin.Post("/sweep", adminHandler.RunSweep())
		admin.Post("/orders/{orderID}/expire", adminHandler.ForceExpireOrder())
		admin.Post("/orders/{orderID}/reprocess", adminHandler.ReprocessOrder())
		admin.Get("/orders", adminHandler.ListOrders())
		admin.Get("/orders/stuck", adminHandler.StuckOrders())
		admin.Post("/assignments/cleanup", adminHandler.CleanupOrphans())
		admin.Put("/restaurants/{restaurantID}/location", adminHandler.UpsertRestaurantLocation())
		admin.Delete("/restaurants/{restaurantID}/location", adminHandler.RemoveRestaurantLocation())
		admin.Post("/restaurants/{restaurantID}/token", adminHandler.IssueRestaurantToken())
	})

	// background processors
	expiryWorker := worker.NewExpiryWorker(sweeperService, cfg.SweepInterval)
	go expiryWorker.Run(ctx)

	recoveryWorker := worker.NewRecoveryWorker(stageService, recoveryService, cfg.RecoveryInterval, cfg.RecoveryLookback)
	go recoveryWorker.Run(ctx)

	server := &http.Server{Addr: cfg.ServerAddr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Error shutting down server", zap.Error(err))
		}
	}()

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
