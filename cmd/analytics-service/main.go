package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bidding-system/internal/config"
	"bidding-system/internal/domain"
	"bidding-system/internal/infrastructure/kafka"
	"bidding-system/internal/infrastructure/mysql"
	"bidding-system/internal/infrastructure/redis"
	"bidding-system/internal/services"
	"bidding-system/pkg/logger"
	"bidding-system/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}
	log := logger.NewWithLevel(cfg.Log.Level)
	log.Info("Starting analytics service", "config", cfg.GetConfigString())

	initCtx, initCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer initCancel()

	db := utils.InitializeMysql(initCtx, cfg, log)
	defer db.Close()

	var subscriber domain.EventSubscriber
	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		subscriber = kafka.NewEventSubscriber(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, log)
	default:
		rdb := utils.InitializeRedis(initCtx, cfg, log)
		defer rdb.Close()
		subscriber = redis.NewEventSubscriber(rdb, cfg.Events.Channel, log)
	}

	archiver := services.NewBidArchiver(subscriber, mysql.NewMySQLBidRepository(db), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := archiver.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Analytics service failed", "error", err)
		os.Exit(1)
	}

	log.Info("Analytics service stopped")
}
