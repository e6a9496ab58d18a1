// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/config"
	"github.com/unclebandit/mailpulse-backend/internal/db"
	"github.com/unclebandit/mailpulse-backend/internal/logger"
	"github.com/unclebandit/mailpulse-backend/internal/queue"
	"github.com/unclebandit/mailpulse-backend/internal/repository"
	"github.com/unclebandit/mailpulse-backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Read("config.yaml")
	if err != nil {
		cfg = config.Default()
	}
	log := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, ServiceName: "mailpulse-worker"})
	defer log.Sync()

	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.MQ.URL == "" || cfg.DB.URL == "" {
		log.Fatal("worker requires MQ_URL and DATABASE_URL")
	}

	conn, err := db.Open(cfg.DB.URL, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	q, err := queue.NewAMQPQueue(cfg.MQ.URL, log)
	if err != nil {
		log.Fatal("message broker unavailable", zap.Error(err))
	}
	defer q.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewReminderWorker(&repository.EmailRepository{DB: conn}, log)
	if err := q.Subscribe(queue.FollowUpTopic, reminderHandler(ctx, worker, log)); err != nil {
		log.Fatal("failed to register consumer", zap.Error(err))
	}

	log.Info("Worker running, waiting for follow-up reminders")
	<-ctx.Done()
	log.Info("Worker stopping")
}

// reminderHandler acks undecodable payloads and returns storage errors so the
// broker redelivers.
func reminderHandler(ctx context.Context, w *service.ReminderWorker, log *zap.Logger) func(payload any) error {
	return func(payload any) error {
		reminder, err := queue.DecodeReminder(payload)
		if err != nil {
			log.Warn("Invalid job", zap.Error(err))
			return nil
		}
		_, err = w.Handle(ctx, reminder)
		return err
	}
}
