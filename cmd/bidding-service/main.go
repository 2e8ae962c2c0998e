package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bidding-system/internal/api/handlers"
	"bidding-system/internal/api/middleware"
	"bidding-system/internal/config"
	"bidding-system/internal/domain"
	"bidding-system/internal/infrastructure/kafka"
	"bidding-system/internal/infrastructure/leader"
	"bidding-system/internal/infrastructure/lock"
	"bidding-system/internal/infrastructure/redis"
	"bidding-system/internal/services"
	"bidding-system/pkg/logger"
	"bidding-system/pkg/utils"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}
	log := logger.NewWithLevel(cfg.Log.Level)
	log.Info("Starting bidding service", "config", cfg.GetConfigString())

	instanceID := cfg.Instance.ID
	if instanceID == "" {
		instanceID = utils.GenerateID("bidding")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := utils.InitializeRedis(ctx, cfg, log)
	defer rdb.Close()

	// Increment rules
	biddingRules := services.NewBiddingRuleDao(rdb)
	if err := biddingRules.LoadRules(ctx); err != nil {
		log.Fatal("Failed to load bid increment rules", "error", err)
	}

	// Store adapters
	itemStore := redis.NewItemStore(rdb)
	priceIndex := redis.NewPriceIndex(rdb)
	lockManager := lock.NewRedisLockManager(rdb, log,
		lock.WithTTL(cfg.Lock.TTL),
		lock.WithRetryDelay(cfg.Lock.RetryDelay),
		lock.WithMaxRetryDelay(cfg.Lock.MaxRetryDelay),
		lock.WithAcquireTimeout(cfg.Lock.AcquireTimeout),
		lock.WithRenewInterval(cfg.Lock.RenewInterval),
	)

	var eventPublisher domain.EventPublisher
	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		kafkaPublisher := kafka.NewEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		eventPublisher = kafkaPublisher
	default:
		eventPublisher = redis.NewEventPublisher(rdb, cfg.Events.Channel)
	}

	bidService := services.NewBidService(
		lockManager,
		itemStore,
		services.NewRuleBookValidator(biddingRules),
		redis.NewBidCommitter(rdb),
		redis.NewHistoryReader(rdb),
		eventPublisher,
		time.Now,
		services.BidServiceConfig{
			ProcessingDelay:    cfg.Bidding.ProcessingDelay,
			HistoryMaxPageSize: cfg.Bidding.HistoryMaxPageSize,
		},
		log,
	)

	// Price index reconciler, leader only
	var reconciler *services.PriceIndexReconciler
	if cfg.Reconciler.Enabled {
		leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.Key, cfg.Leader.TTL, log)
		reconciler = services.NewPriceIndexReconciler(
			cfg.Reconciler.Schedule,
			leaderElection,
			instanceID,
			lockManager,
			itemStore,
			priceIndex,
			log,
		)
		if err := reconciler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start price index reconciler", "error", err)
		}
	}

	// Routes
	router := mux.NewRouter()
	router.Use(middleware.CORS)
	router.Use(middleware.RequestLogger(log))
	handlers.NewBidHandler(bidService, cfg.Bidding.HistoryPageSize, log).RegisterRoutes(router)
	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.BiddingPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting bidding API", "address", server.Addr, "instance_id", instanceID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down bidding service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop taking bids first so in-flight critical sections can finish.
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if reconciler != nil {
		if err := reconciler.Stop(shutdownCtx); err != nil {
			log.Error("Failed to release reconciler leadership", "error", err)
		}
	}

	log.Info("Bidding service stopped")
}
