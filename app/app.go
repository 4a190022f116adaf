package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/libhub/library-service/config"
	"github.com/libhub/library-service/internal/handler"
	"github.com/libhub/library-service/internal/repository"
	"github.com/libhub/library-service/internal/server"
	"github.com/libhub/library-service/internal/service"
	"github.com/libhub/library-service/migrations"
	"github.com/libhub/library-service/pkg/kafka"
	"github.com/libhub/library-service/pkg/logger"
	"github.com/libhub/library-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	svcs := handler.Services{
		Inventory:    service.NewInventoryService(repo, log),
		Requests:     service.NewRequestService(repo, log),
		Loans:        service.NewLoanService(repo, cfg.Fine, log),
		Fines:        service.NewFineService(repo, cfg.Fine, log),
		Auth:         service.NewAuthService(repo, cfg.Auth, log),
		Notification: service.NewNotificationService(repo, log),
		Stats:        service.NewStatsService(repo, log),
	}

	producer, err := kafka.NewAsyncProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewAsyncProducer", zap.Error(err))
	}
	activityLog := handler.NewActivityLog(producer, kafka.ActivityTopic)

	consumeCtx, consumeCancel := context.WithCancel(context.Background())
	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.ActivityConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	statsSvc := svcs.Stats.(*service.StatsService)
	go kafka.Consume(consumeCtx, consumer, handler.NewConsumer(statsSvc.RecordActivity, log), kafka.ActivityTopic, log)

	h := handler.New(svcs, activityLog, cfg.Auth, log)
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
	consumeCancel()
	if err := consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err := producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
