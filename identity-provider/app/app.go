package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/identity-provider/config"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/handler"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/repository"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/server"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/service"
	"github.com/Astemirdum/book-exchange/identity-provider/migrations"
	"github.com/Astemirdum/book-exchange/pkg/kafka"
	"github.com/Astemirdum/book-exchange/pkg/logger"
	"github.com/Astemirdum/book-exchange/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "identity-provider")
	defer log.Sync() //nolint:errcheck

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var enqueuer kafka.Enqueuer = kafka.NopEnqueuer{}
	if cfg.Kafka.Enabled() {
		if err := kafka.CreateTopics(cfg.Kafka, kafka.UsersTopic); err != nil {
			log.Warn("kafka.CreateTopics", zap.Error(err))
		}
		producer, err := kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewSyncProducer", zap.Error(err))
		}
		defer producer.Close()
		enqueuer = kafka.NewEnqueuer(producer, cfg.Breaker)
	} else {
		log.Info("kafka disabled, user events are not published")
	}

	svc := service.NewService(repo, enqueuer, cfg.Auth, log, service.WithHashCost(cfg.HashCost))
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

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
