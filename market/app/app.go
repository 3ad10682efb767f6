package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/market/config"
	"github.com/Astemirdum/book-exchange/market/internal/handler"
	"github.com/Astemirdum/book-exchange/market/internal/repository"
	"github.com/Astemirdum/book-exchange/market/internal/server"
	"github.com/Astemirdum/book-exchange/market/internal/service"
	"github.com/Astemirdum/book-exchange/market/migrations"
	"github.com/Astemirdum/book-exchange/pkg/kafka"
	"github.com/Astemirdum/book-exchange/pkg/logger"
	"github.com/Astemirdum/book-exchange/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "market")
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, log)

	if cfg.Kafka.Enabled() {
		if err := kafka.CreateTopics(cfg.Kafka, kafka.UsersTopic); err != nil {
			log.Warn("kafka.CreateTopics", zap.Error(err))
		}
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.MarketConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		defer consumer.Close()
		go kafka.Consume(ctx, consumer, handler.NewConsumer(svc.ApplyUserEvent, log), log, kafka.UsersTopic)
	} else {
		log.Info("kafka disabled, traders are tracked from tokens only")
	}

	h := handler.New(svc, cfg.Auth, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	cancel()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
