// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/ai"
	"github.com/unclebandit/mailpulse-backend/internal/config"
	"github.com/unclebandit/mailpulse-backend/internal/controller"
	"github.com/unclebandit/mailpulse-backend/internal/db"
	"github.com/unclebandit/mailpulse-backend/internal/handler"
	"github.com/unclebandit/mailpulse-backend/internal/httpserver"
	"github.com/unclebandit/mailpulse-backend/internal/logger"
	"github.com/unclebandit/mailpulse-backend/internal/mailer"
	"github.com/unclebandit/mailpulse-backend/internal/queue"
	"github.com/unclebandit/mailpulse-backend/internal/repository"
	"github.com/unclebandit/mailpulse-backend/internal/scheduler"
	"github.com/unclebandit/mailpulse-backend/internal/scraper"
	"github.com/unclebandit/mailpulse-backend/internal/service"
)

func main() {
	envErr := godotenv.Load()

	cfg, cfgErr := config.Load("config.yaml")
	logCfg := config.Default().Log
	if cfgErr == nil {
		logCfg = cfg.Log
	}
	log := logger.New(logger.Config{Env: logCfg.Env, Level: logCfg.Level, ServiceName: "mailpulse-api"})
	defer log.Sync()

	if envErr != nil {
		log.Info("No .env file found, relying on OS environment variables")
	}
	if cfgErr != nil {
		log.Fatal("failed to load configuration", zap.Error(cfgErr))
	}

	conn, err := db.Open(cfg.DB.URL, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx, conn); err != nil {
		cancel()
		log.Fatal("failed to apply schema", zap.Error(err))
	}
	cancel()

	userRepo := &repository.UserRepository{DB: conn}
	emailRepo := &repository.EmailRepository{DB: conn}

	var q queue.Queue
	if cfg.MQ.URL != "" {
		amqpQueue, err := queue.NewAMQPQueue(cfg.MQ.URL, log)
		if err != nil {
			log.Fatal("message broker unavailable", zap.Error(err))
		}
		q = amqpQueue
		log.Info("Publishing follow-up reminders to RabbitMQ")
	} else {
		q = queue.NewInMemoryQueue(log)
		if err := queue.StartFollowUpSubscriber(q, log); err != nil {
			log.Fatal("failed to subscribe to follow-up reminders", zap.Error(err))
		}
	}
	defer q.Close()

	var fetcher scraper.Fetcher = scraper.NewClient(cfg.Scraper.URL, time.Duration(cfg.Scraper.TimeoutSeconds)*time.Second)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		fetcher = scraper.NewCachedFetcher(fetcher, rdb, time.Duration(cfg.Redis.CacheTTLMinutes)*time.Minute, log)
		log.Info("Caching scraper responses in redis", zap.String("addr", cfg.Redis.Addr))
	}

	userService := &service.UserService{UserRepo: userRepo, Logger: log}
	emailService := &service.EmailService{EmailRepo: emailRepo, TrackingBaseURL: cfg.Server.PublicBaseURL, Logger: log}
	dispatchService := &service.DispatchService{
		Sender: mailer.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, log),
		Logger: log,
	}
	draftingService := &service.DraftingService{
		Scraper: fetcher,
		AI:      ai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.MaxTokens),
		Logger:  log,
	}
	scanner := &service.FollowUpScanner{EmailRepo: emailRepo, Publisher: q, Logger: log}

	sched := scheduler.New(log)
	if err := sched.Add("follow-up", cfg.FollowUp.Schedule, scanner.Run); err != nil {
		log.Fatal("invalid follow-up schedule", zap.String("schedule", cfg.FollowUp.Schedule), zap.Error(err))
	}
	sched.Start()

	router := httpserver.NewRouter(httpserver.Routes{
		Users: &controller.UserController{UserService: userService, Logger: log},
		Emails: &controller.EmailController{
			EmailService:    emailService,
			DispatchService: dispatchService,
			DraftingService: draftingService,
			Logger:          log,
		},
		Tracking: handler.NewTrackingHandler(emailService, log),
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server running", zap.String("addr", "http://localhost:"+cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	<-sched.Stop().Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
