package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoangnqjl/MaroMart/internal/api"
	"github.com/hoangnqjl/MaroMart/internal/auth"
	"github.com/hoangnqjl/MaroMart/internal/config"
	"github.com/hoangnqjl/MaroMart/internal/directory"
	"github.com/hoangnqjl/MaroMart/internal/events"
	"github.com/hoangnqjl/MaroMart/internal/logger"
	"github.com/hoangnqjl/MaroMart/internal/notify"
	"github.com/hoangnqjl/MaroMart/internal/presence"
	"github.com/hoangnqjl/MaroMart/internal/repository"
	"github.com/hoangnqjl/MaroMart/internal/service"
	"github.com/hoangnqjl/MaroMart/internal/storage"
	"github.com/hoangnqjl/MaroMart/internal/ws"
)

func main() {
	cfgPath := flag.String("config", "./config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env == "development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Infow("starting chatcore", "env", cfg.App.Env, "port", cfg.App.Port)

	ctx := context.Background()

	mc, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalw("mongo connect", "err", err)
	}
	db := mc.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalw("ensure indexes", "err", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalw("redis ping", "err", err)
	}

	verifier, err := auth.NewJWTVerifier(cfg.JWT.Alg, cfg.JWT.Secret, cfg.JWT.PublicKeyPath)
	if err != nil {
		log.Fatalw("jwt verifier", "err", err)
	}

	var publisher *events.Publisher
	var eventSink service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		eventSink = publisher
	}

	var media storage.Store
	if cfg.S3.Bucket != "" {
		s3store, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicRead)
		if err != nil {
			log.Fatalw("s3 store", "err", err)
		}
		media = s3store
	}

	registry := presence.NewRegistry()
	gateway := ws.NewGateway(registry, verifier, log)
	dispatcher := notify.NewDispatcher(repository.NewNotificationRepo(db), gateway, log)
	chat := service.NewChatService(
		repository.NewConversationRepo(db),
		repository.NewMessageRepo(db),
		dispatcher,
		gateway,
		eventSink,
		directory.NewMongoDirectory(db),
		log,
	)

	app := api.New(cfg, verifier, chat, dispatcher, gateway, media, rdb, log)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
			log.Fatalw("server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down chatcore...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_ = app.Shutdown()
	if publisher != nil {
		_ = publisher.Close()
	}
	_ = mc.Disconnect(shutCtx)
	_ = rdb.Close()
	log.Info("shutdown complete")
}
